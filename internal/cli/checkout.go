package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/services"
)

// cartFile is the JSON document the checkout command reads.
//
//	{
//	  "client_id": 7,
//	  "products": [{"id": 1, "quantity": 2}],
//	  "services": [{"id": 3, "components": [{"product_id": 1, "quantity": 3}]}]
//	}
//
// Services without components use their stored quantities.
type cartFile struct {
	ClientID   int64 `json:"client_id"`
	EmployeeID int64 `json:"employee_id"`
	Products   []struct {
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	} `json:"products"`
	Services []struct {
		ID         int64 `json:"id"`
		Components []struct {
			ProductID int64 `json:"product_id"`
			Quantity  int   `json:"quantity"`
		} `json:"components"`
	} `json:"services"`
}

func (a *app) checkoutCommand() *cobra.Command {
	var cartPath string
	var employeeID int64
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "checkout --cart <file>",
		Short: "Place, complete and invoice an order from a cart file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cartPath == "" {
				return errors.New("--cart required")
			}
			data, err := os.ReadFile(cartPath)
			if err != nil {
				return err
			}
			var file cartFile
			if err := json.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("invalid cart file: %w", err)
			}

			c, err := a.buildCart(cmd.Context(), file)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total: %s\n", c.Total())
			if dryRun {
				return nil
			}

			employee := a.deps.EmployeeID
			if file.EmployeeID > 0 {
				employee = file.EmployeeID
			}
			if cmd.Flags().Changed("employee") {
				employee = employeeID
			}

			start := time.Now()
			order, err := a.deps.Orders.Checkout(cmd.Context(), c.Snapshot(), employee)
			if err != nil {
				var stepErr *services.OrchestrationStepError
				if errors.As(err, &stepErr) {
					fmt.Fprintln(cmd.ErrOrStderr(), stepErr.UserMessage())
				}
				return err
			}
			c.Clear()
			a.timed("order invoiced", start, zap.Int64("order_id", order.ID))
			return printJSON(out, newOrderView(*order))
		},
	}
	cmd.Flags().StringVar(&cartPath, "cart", "", "cart JSON file")
	cmd.Flags().Int64Var(&employeeID, "employee", 0, "employee placing the order")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the total without placing the order")
	return cmd
}

// buildCart resolves the cart file against the backend catalog.
func (a *app) buildCart(ctx context.Context, file cartFile) (*cart.Cart, error) {
	c := cart.New()
	if file.ClientID <= 0 {
		return nil, services.ErrNoClient
	}
	client, err := a.deps.Clients.GetClientByID(ctx, file.ClientID)
	if err != nil {
		return nil, err
	}
	c.SelectClient(*client)

	for _, line := range file.Products {
		p, err := a.deps.Products.GetProductByID(ctx, line.ID)
		if err != nil {
			return nil, err
		}
		p.QuantityDirect = line.Quantity
		if err := c.AddProduct(*p); err != nil {
			return nil, fmt.Errorf("product %d: %w", line.ID, err)
		}
	}

	for _, line := range file.Services {
		s, err := a.deps.Catalog.GetServiceByID(ctx, line.ID)
		if err != nil {
			return nil, err
		}
		if err := c.AddService(*s); err != nil {
			return nil, fmt.Errorf("service %d: %w", line.ID, err)
		}
		for _, comp := range line.Components {
			if err := c.SetServiceComponentQuantity(line.ID, comp.ProductID, comp.Quantity); err != nil {
				return nil, fmt.Errorf("service %d component %d: %w", line.ID, comp.ProductID, err)
			}
		}
	}
	return c, nil
}
