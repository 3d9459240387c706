package commands

import (
	"log/slog"
	"os"
	"strings"

	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	exportFields *string
	exportOutput *string
)

func init() {
	exportFields = exportsRequestCmd.Flags().String("fields", "SKU,Barcode,Name,StockLevel", "Comma separated columns to export.")
	exportOutput = exportsDownloadCmd.Flags().StringP("output", "o", "", "Where to write the export, defaults to its filename.")
	exportsCmd.AddCommand(exportsListCmd, exportsRequestCmd, exportsDownloadCmd)
	rootCmd.AddCommand(exportsCmd)
}

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "The 'exports' subcommand works with product exports.",
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists requested exports.",
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		exports, err := api.Exports.Exports(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to get exports", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "File", "Status", "Requested"})
		for _, e := range exports {
			t.AppendRow(table.Row{e.ID, e.Filename, e.Status, formatDate(e.Requested)})
		}
		t.Render()
	},
}

var exportsRequestCmd = &cobra.Command{
	Use:   "request <range id>... [--fields <a,b,c>]",
	Short: "Requests a product export of ranges.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		id, err := api.Exports.RequestProductExport(cmd.Context(), intArgs("range id", args), strings.Split(*exportFields, ","))
		if err != nil {
			serviceutil.Fatal("failed to request export", err)
		}
		slog.Info("requested export", "id", id)
	},
}

var exportsDownloadCmd = &cobra.Command{
	Use:   "download <export id> [-o <file>]",
	Short: "Downloads a completed export.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		exportID := intArg("export id", args[0])

		output := *exportOutput
		if output == "" {
			exports, err := api.Exports.Exports(cmd.Context())
			if err != nil {
				serviceutil.Fatal("failed to get exports", err)
			}
			for _, e := range exports {
				if e.ID == exportID {
					output = e.Filename
				}
			}
			if output == "" {
				output = args[0] + ".csv"
			}
		}

		contents, err := api.Exports.Download(cmd.Context(), exportID)
		if err != nil {
			serviceutil.Fatal("failed to download export", err)
		}
		err = os.WriteFile(output, contents, 0644)
		if err != nil {
			serviceutil.Fatal("failed to write export", err)
		}
		slog.Info("downloaded export", "path", output, "bytes", len(contents))
	},
}
