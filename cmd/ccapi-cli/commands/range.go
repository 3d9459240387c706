package commands

import (
	"fmt"
	"log/slog"

	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rangeCmd.AddCommand(rangeGetCmd, rangeCreateCmd, rangeDeleteCmd)
	rootCmd.AddCommand(rangeCmd)
}

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "The 'range' subcommand works with product ranges.",
}

var rangeGetCmd = &cobra.Command{
	Use:   "get <range id>",
	Short: "Shows a range along with its options and products.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		r, err := api.Products.GetRange(cmd.Context(), intArg("range id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to get range", err)
		}

		fmt.Printf("%s (%s) #%d\n", r.Name, r.SKU, r.ID)
		for _, o := range r.Options {
			fmt.Printf("  option %s #%d selectable=%v\n", o.Name, o.ID, o.Selectable)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "SKU", "Name", "Barcode", "Price", "VAT", "Stock"})
		for _, p := range r.Products {
			t.AppendRow(table.Row{p.ID, p.SKU, p.Name, p.Barcode, fmt.Sprintf("%.2f", p.BasePrice), p.VATRate, p.StockLevel})
		}
		t.Render()
	},
}

var rangeCreateCmd = &cobra.Command{
	Use:   "create <name> <sku>",
	Short: "Creates an empty range.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		id, err := api.Products.CreateRange(cmd.Context(), args[0], args[1])
		if err != nil {
			serviceutil.Fatal("failed to create range", err)
		}
		slog.Info("created range", "id", id)
	},
}

var rangeDeleteCmd = &cobra.Command{
	Use:   "delete <range id>",
	Short: "Deletes a range.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		err := api.Products.DeleteRange(cmd.Context(), intArg("range id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to delete range", err)
		}
	},
}
