// Package mappers translates between the backend's wire records and the
// storefront domain models, so schema drift stays contained here.
package mappers

import (
	"strings"
	"time"
)

const (
	// TimestampLayout is the second-precision UTC layout the backend expects.
	TimestampLayout = "2006-01-02T15:04:05Z"

	// PlaceholderImageURL is stored until the real image upload completes.
	PlaceholderImageURL = "https://example.com/image.jpg"

	defaultProductType = "general"
)

// FormatTimestamp renders t in the backend's timestamp layout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts the layouts the backend has been seen to emit.
func ParseTimestamp(val string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, false
	}
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func defaultString(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}
