package commands

import (
	"fmt"

	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	factoriesCmd.AddCommand(factoriesListCmd, factoriesLinksCmd)
	rootCmd.AddCommand(factoriesCmd)
}

var factoriesCmd = &cobra.Command{
	Use:   "factories",
	Short: "The 'factories' subcommand works with suppliers.",
}

var factoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists factories.",
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		factories, err := api.Factories.Factories(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to get factories", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name", "Email"})
		for _, f := range factories {
			t.AppendRow(table.Row{f.ID, f.Name, f.Email})
		}
		t.Render()
	},
}

var factoriesLinksCmd = &cobra.Command{
	Use:   "links <product id>",
	Short: "Lists the factories a product is bought from.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		links, err := api.Factories.ProductFactoryLinks(cmd.Context(), intArg("product id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to get factory links", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Link", "Factory", "SKU", "Price"})
		for _, l := range links {
			t.AppendRow(table.Row{l.ID, l.FactoryName, l.SKU, fmt.Sprintf("%.2f", l.Price)})
		}
		t.Render()
	},
}
