package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/models"
)

func (a *app) clientsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Manage clients",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			clients, err := a.deps.Clients.GetAllClients(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range clients {
				fmt.Fprintf(cmd.OutOrStdout(), "%d | %s | %s | %s\n", c.ID, c.DocumentID, c.Name, c.Email)
			}
			return nil
		},
	})

	var client models.Client
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.deps.Clients.CreateClient(cmd.Context(), client)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), newClientView(*created))
		},
	}
	createCmd.Flags().StringVar(&client.DocumentID, "documentid", "", "identity document number")
	createCmd.Flags().StringVar(&client.Name, "name", "", "name")
	createCmd.Flags().StringVar(&client.Email, "email", "", "email")
	createCmd.Flags().StringVar(&client.Phone, "phone", "", "phone")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.deps.Clients.DeleteClient(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	})

	return cmd
}
