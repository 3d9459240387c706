package commands

import (
	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(warehousesCmd, baysCmd)
}

var warehousesCmd = &cobra.Command{
	Use:   "warehouses",
	Short: "Lists warehouses.",
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		warehouses, err := api.Inventory.Warehouses(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to get warehouses", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, w := range warehouses {
			t.AppendRow(table.Row{w.ID, w.Name})
		}
		t.Render()
	},
}

var baysCmd = &cobra.Command{
	Use:   "bays <warehouse id>",
	Short: "Lists the bays of a warehouse.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		bays, err := api.Inventory.Bays(cmd.Context(), intArg("warehouse id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to get bays", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, b := range bays {
			t.AppendRow(table.Row{b.ID, b.Name})
		}
		t.Render()
	},
}
