package mappers

import (
	"strings"
	"time"

	"storefront/internal/models"
)

// ClientFromRecord maps a backend client.
func ClientFromRecord(r models.ClientRecord) models.Client {
	return models.Client{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
	}
}

// ClientsFromRecords maps a list of backend clients.
func ClientsFromRecords(records []models.ClientRecord) []models.Client {
	out := make([]models.Client, 0, len(records))
	for _, r := range records {
		out = append(out, ClientFromRecord(r))
	}
	return out
}

// ClientToRecord builds the create/update payload. Clients written from the
// storefront are always active.
func ClientToRecord(c models.Client, now time.Time) models.ClientRecord {
	ts := now.UTC().Truncate(time.Second)
	return models.ClientRecord{
		DocumentID: strings.TrimSpace(c.DocumentID),
		Name:       strings.TrimSpace(c.Name),
		Email:      strings.TrimSpace(c.Email),
		Phone:      strings.TrimSpace(c.Phone),
		State:      true,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
}
