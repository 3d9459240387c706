package commands

import (
	"fmt"

	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	productCmd.AddCommand(
		productGetCmd,
		productSearchCmd,
		productBarcodeCmd,
		productStockCmd,
		productPriceCmd,
		productVatCmd,
	)
	rootCmd.AddCommand(productCmd)
}

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "The 'product' subcommand works with individual products.",
}

var productGetCmd = &cobra.Command{
	Use:   "get <product id>",
	Short: "Shows a product.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		p, err := api.Products.GetProduct(cmd.Context(), intArg("product id", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to get product", err)
		}

		t := newTable()
		t.AppendRows([]table.Row{
			{"ID", p.ID},
			{"Range", p.RangeID},
			{"Name", p.Name},
			{"SKU", p.SKU},
			{"Barcode", p.Barcode},
			{"Price", fmt.Sprintf("%.2f", p.BasePrice)},
			{"VAT", fmt.Sprintf("%v%%", p.VATRate)},
			{"Stock", p.StockLevel},
			{"Created", formatDate(p.Created)},
		})
		for _, o := range p.Options {
			t.AppendRow(table.Row{o.OptionName, o.Value})
		}
		t.Render()
	},
}

var productSearchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Searches products by name, SKU or barcode.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		found, err := api.Products.SearchProducts(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to search products", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Range", "SKU", "Name", "Stock"})
		for _, p := range found {
			t.AppendRow(table.Row{p.ID, p.RangeID, p.SKU, p.Name, p.StockLevel})
		}
		t.Render()
	},
}

var productBarcodeCmd = &cobra.Command{
	Use:   "barcode <barcode>",
	Short: "Checks whether a barcode is already in use.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		inUse, err := api.Products.CheckBarcodeInUse(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to check barcode", err)
		}
		fmt.Printf("%s in use: %v\n", args[0], inUse)
	},
}

var productStockCmd = &cobra.Command{
	Use:   "stock <product id> <level>",
	Short: "Sets the stock level of a product.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		productID := intArg("product id", args[0])
		p, err := api.Products.GetProduct(cmd.Context(), productID)
		if err != nil {
			serviceutil.Fatal("failed to get product", err)
		}
		err = api.Products.UpdateStockLevel(cmd.Context(), productID, intArg("level", args[1]), p.StockLevel)
		if err != nil {
			serviceutil.Fatal("failed to update stock level", err)
		}
	},
}

var productPriceCmd = &cobra.Command{
	Use:   "price <price> <product id>...",
	Short: "Sets the base price of products.",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		err := api.Products.SetProductBasePrice(cmd.Context(), intArgs("product id", args[1:]), floatArg("price", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to set price", err)
		}
	},
}

var productVatCmd = &cobra.Command{
	Use:   "vat <percent> <product id>...",
	Short: "Sets the VAT rate of products (0, 5 or 20).",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		err := api.Products.SetProductVATRate(cmd.Context(), intArgs("product id", args[1:]), floatArg("percent", args[0]))
		if err != nil {
			serviceutil.Fatal("failed to set VAT rate", err)
		}
	},
}
