package models

// Client is a storefront customer.
type Client struct {
	ID         int64
	DocumentID string
	Name       string
	Email      string
	Phone      string
}
