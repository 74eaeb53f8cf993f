package repositories

import (
	"fmt"
	"strings"
)

// Paths holds the backend resource prefixes. Each deployment of the backend
// has mounted them slightly differently, so they are configurable.
type Paths struct {
	Product string
	Service string
	Client  string
	Order   string
	Invoice string
}

// DefaultPaths returns the resource prefixes of the reference backend.
func DefaultPaths() Paths {
	return Paths{
		Product: "/product",
		Service: "/service",
		Client:  "/user/client",
		Order:   "/order",
		Invoice: "/invoice/generate",
	}
}

// withDefaults fills empty prefixes from DefaultPaths.
func (p Paths) withDefaults() Paths {
	d := DefaultPaths()
	if p.Product == "" {
		p.Product = d.Product
	}
	if p.Service == "" {
		p.Service = d.Service
	}
	if p.Client == "" {
		p.Client = d.Client
	}
	if p.Order == "" {
		p.Order = d.Order
	}
	if p.Invoice == "" {
		p.Invoice = d.Invoice
	}
	return p
}

func join(prefix string, parts ...any) string {
	out := strings.TrimRight(prefix, "/")
	for _, part := range parts {
		out += "/" + fmt.Sprint(part)
	}
	return out
}
