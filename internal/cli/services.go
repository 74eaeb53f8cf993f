package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/models"
	"storefront/internal/validation"
)

func (a *app) servicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage services and their component products",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List services",
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := a.deps.Catalog.GetAllServices(cmd.Context())
			if err != nil {
				return err
			}
			for _, s := range services {
				fmt.Fprintf(cmd.OutOrStdout(), "%d | %s | %.2f\n", s.ID, s.Name, s.Price)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Get a service with its components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := a.deps.Catalog.GetServiceByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newServiceView(*s))
		},
	})

	var form validation.ServiceForm
	var components []string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a service",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := parseComponents(components)
			if err != nil {
				return err
			}
			s, err := a.deps.Catalog.CreateService(cmd.Context(), form, products)
			if err != nil {
				if s != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "service %d was created; rerun `services compose %d` to finish it\n", s.ID, s.ID)
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), newServiceView(*s))
		},
	}
	createCmd.Flags().StringVar(&form.Name, "name", "", "name")
	createCmd.Flags().StringVar(&form.Price, "price", "", "price per component unit")
	createCmd.Flags().StringArrayVar(&components, "product", nil, "component as <product id>=<quantity>, repeatable")
	cmd.AddCommand(createCmd)

	var composeComponents []string
	composeCmd := &cobra.Command{
		Use:   "compose <id>",
		Short: "Replace the component products of a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			products, err := parseComponents(composeComponents)
			if err != nil {
				return err
			}
			rec, err := a.deps.Catalog.SetComponents(cmd.Context(), id, products)
			fmt.Fprintf(cmd.OutOrStdout(), "removed %v, added %v, updated %v\n", rec.Removed, rec.Added, rec.Updated)
			return err
		},
	}
	composeCmd.Flags().StringArrayVar(&composeComponents, "product", nil, "component as <product id>=<quantity>, repeatable")
	cmd.AddCommand(composeCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.deps.Catalog.DeleteService(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})

	return cmd
}

// parseComponents reads "<product id>=<quantity>" pairs. A later pair for the
// same product wins.
func parseComponents(pairs []string) ([]models.Product, error) {
	products := make([]models.Product, 0, len(pairs))
	index := map[int64]int{}
	for _, pair := range pairs {
		idText, qtyText, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid component %q, want <product id>=<quantity>", pair)
		}
		id, err := parseID(strings.TrimSpace(idText))
		if err != nil {
			return nil, err
		}
		qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("invalid quantity in component %q", pair)
		}
		if i, dup := index[id]; dup {
			products[i].QuantityViaService = qty
			continue
		}
		index[id] = len(products)
		products = append(products, models.Product{ID: id, QuantityViaService: qty})
	}
	return products, nil
}
