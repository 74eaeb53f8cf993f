package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/models"
)

func (a *app) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect and transition orders",
	}

	var output string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.deps.Orders.GetAllOrders(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if output == "json" {
				views := make([]orderView, 0, len(orders))
				for _, o := range orders {
					views = append(views, newOrderView(o))
				}
				return printJSON(out, views)
			}
			for _, o := range orders {
				fmt.Fprintf(out, "%d | client %d | %s | %.2f | %s\n", o.ID, o.ClientID, o.Status, o.TotalPrice, o.InvoiceLink)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&output, "output", "", "output format (json)")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			o, err := a.deps.Orders.GetOrderByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newOrderView(*o))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status <id> <Pendiente|Completada|Cancelada>",
		Short: "Change the status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.deps.Orders.UpdateOrderStatus(cmd.Context(), id, models.OrderStatus(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %d is now %s\n", id, args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.deps.Orders.CancelOrder(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "order %d cancelled\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.deps.Orders.DeleteOrder(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})

	return cmd
}
