package commands

import (
	"log/slog"

	"ccapi/lib/ccapi/customers"
	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var customerEmail *string

func init() {
	customerEmail = customersAddCmd.Flags().String("email", "", "The customer's email address.")
	customersCmd.AddCommand(customersSearchCmd, customersAddCmd)
	rootCmd.AddCommand(customersCmd)
}

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "The 'customers' subcommand works with customers.",
}

var customersSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Searches customers.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		found, err := api.Customers.Search(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to search customers", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name", "Company", "Email", "Phone"})
		for _, c := range found {
			t.AppendRow(table.Row{c.ID, c.Name, c.Company, c.Email, c.Phone})
		}
		t.Render()
	},
}

var customersAddCmd = &cobra.Command{
	Use:   "add <name> [--email <email>]",
	Short: "Adds a customer.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		id, err := api.Customers.AddCustomer(cmd.Context(), customers.NewCustomer{
			Name:  args[0],
			Email: *customerEmail,
		})
		if err != nil {
			serviceutil.Fatal("failed to add customer", err)
		}
		slog.Info("added customer", "id", id)
	},
}
