package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"storefront/internal/models"
)

type productView struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category,omitempty"`
	Cost         float64 `json:"cost"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	MinimumStock int     `json:"minimum_stock"`
	ImageURL     string  `json:"image_url,omitempty"`
	Quantity     int     `json:"quantity,omitempty"`
}

func newProductView(p models.Product) productView {
	return productView{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Cost:         p.Cost,
		Price:        p.Price,
		Stock:        p.Stock,
		MinimumStock: p.MinimumStock,
		ImageURL:     p.Image.URL(),
		Quantity:     p.QuantityViaService,
	}
}

type serviceView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	Products []productView `json:"products,omitempty"`
}

func newServiceView(s models.Service) serviceView {
	v := serviceView{ID: s.ID, Name: s.Name, Price: s.Price}
	for _, p := range s.Products {
		v.Products = append(v.Products, newProductView(p))
	}
	return v
}

type clientView struct {
	ID         int64  `json:"id"`
	DocumentID string `json:"documentid"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

func newClientView(c models.Client) clientView {
	return clientView{ID: c.ID, DocumentID: c.DocumentID, Name: c.Name, Email: c.Email, Phone: c.Phone}
}

type orderView struct {
	ID          int64   `json:"id"`
	ClientID    int64   `json:"client_id"`
	EmployeeID  int64   `json:"employee_id"`
	Status      string  `json:"status"`
	TotalPrice  float64 `json:"total_price"`
	InvoiceLink string  `json:"invoice_link,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

func newOrderView(o models.OrderWithInvoice) orderView {
	v := orderView{
		ID:          o.ID,
		ClientID:    o.ClientID,
		EmployeeID:  o.EmployeeID,
		Status:      string(o.Status),
		TotalPrice:  o.TotalPrice,
		InvoiceLink: o.InvoiceLink,
	}
	if !o.CreatedAt.IsZero() {
		v.CreatedAt = o.CreatedAt.Format("2006-01-02 15:04:05")
	}
	return v
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
