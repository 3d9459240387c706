package commands

import (
	"fmt"
	"log/slog"

	"ccapi/lib/serviceutil"
	"ccapi/lib/stockstore"
	"ccapi/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	stockCmd.AddCommand(stockSnapshotCmd, stockHistoryCmd)
	rootCmd.AddCommand(stockCmd)
}

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "The 'stock' subcommand records and shows stock level history.",
}

var stockSnapshotCmd = &cobra.Command{
	Use:   "snapshot <range id>...",
	Short: "Records today's stock level of every product in ranges.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, err := cfg.Store.Open()
		if err != nil {
			serviceutil.Fatal("failed to open stock store", err)
		}
		defer store.Close()

		api := login(cmd.Context(), cfg)
		req := stockstore.PushRequest{Time: timezone.Now()}
		for _, rangeID := range intArgs("range id", args) {
			products, err := api.Products.ProductsForRange(cmd.Context(), rangeID)
			if err != nil {
				serviceutil.Fatal(fmt.Sprintf("failed to get products of range %d", rangeID), err)
			}
			for _, p := range products {
				req.Levels = append(req.Levels, stockstore.StockLevel{
					ProductID: p.ID,
					SKU:       p.SKU,
					Name:      p.Name,
					Level:     p.StockLevel,
				})
			}
		}

		err = store.Push(cmd.Context(), req)
		if err != nil {
			serviceutil.Fatal("failed to save snapshot", err)
		}
		slog.Info("recorded stock levels", "products", len(req.Levels))
	},
}

var stockHistoryCmd = &cobra.Command{
	Use:   "history <product id>",
	Short: "Shows the recorded stock levels of a product.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		store, err := cfg.Store.Open()
		if err != nil {
			serviceutil.Fatal("failed to open stock store", err)
		}
		defer store.Close()

		productID := intArg("product id", args[0])
		product, ok, err := store.Product(cmd.Context(), productID)
		if err != nil {
			serviceutil.Fatal("failed to read product", err)
		}
		if !ok {
			fmt.Printf("product %d has no recorded stock levels\n", productID)
			return
		}
		history, err := store.History(cmd.Context(), productID)
		if err != nil {
			serviceutil.Fatal("failed to read stock history", err)
		}

		fmt.Printf("%s (%s) #%d\n", product.Name, product.SKU, product.ID)
		t := newTable()
		t.AppendHeader(table.Row{"Time", "Level"})
		for _, s := range history {
			t.AppendRow(table.Row{formatDate(s.Time), s.Level})
		}
		t.Render()
	},
}
