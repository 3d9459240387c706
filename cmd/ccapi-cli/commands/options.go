package commands

import (
	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	optionsCmd.AddCommand(optionsListCmd, optionsValuesCmd)
	rootCmd.AddCommand(optionsCmd)
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "The 'options' subcommand works with product options (size, colour, ...).",
}

var optionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every product option.",
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		options, err := api.Products.GetOptions(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to get options", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, o := range options {
			t.AppendRow(table.Row{o.ID, o.Name})
		}
		t.Render()
	},
}

var optionsValuesCmd = &cobra.Command{
	Use:   "values <option id>",
	Short: "Lists the values of an option.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		values, err := api.Products.GetOptionValues(cmd.Context(), intArg("option id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to get option values", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Value"})
		for _, v := range values {
			t.AppendRow(table.Row{v.ID, v.Value})
		}
		t.Render()
	},
}
