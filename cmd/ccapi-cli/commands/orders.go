package commands

import (
	"fmt"
	"log/slog"

	"ccapi/lib/ccapi/orders"
	"ccapi/lib/dispatchmail"
	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var warehouseFilter *int

func init() {
	warehouseFilter = ordersCmd.PersistentFlags().Int("warehouse", 0, "Only include orders dispatched from this warehouse.")
	ordersCmd.AddCommand(ordersListCmd, ordersMailCmd)
	rootCmd.AddCommand(ordersCmd)
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "The 'orders' subcommand works with orders awaiting dispatch.",
}

var ordersListCmd = &cobra.Command{
	Use:   "list [--warehouse <id>]",
	Short: "Lists the orders awaiting dispatch.",
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		pending, err := api.Orders.OrdersForDispatch(cmd.Context(), orders.DispatchFilter{WarehouseID: *warehouseFilter})
		if err != nil {
			serviceutil.Fatal("failed to get orders", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Order", "Placed", "Customer", "Channel", "Items", "Total"})
		for _, o := range pending {
			t.AppendRow(table.Row{o.ID, formatDate(o.Created), o.CustomerName, o.Channel, len(o.Items), fmt.Sprintf("%.2f", o.Total)})
		}
		t.Render()
	},
}

var ordersMailCmd = &cobra.Command{
	Use:   "mail [--warehouse <id>]",
	Short: "Mails a summary of the orders awaiting dispatch to the configured recipients.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		api := login(cmd.Context(), cfg)
		pending, err := api.Orders.OrdersForDispatch(cmd.Context(), orders.DispatchFilter{WarehouseID: *warehouseFilter})
		if err != nil {
			serviceutil.Fatal("failed to get orders", err)
		}

		err = dispatchmail.Send(cmd.Context(), cfg.Mail, pending)
		if err != nil {
			serviceutil.Fatal("failed to send dispatch summary", err)
		}
		slog.Info("sent dispatch summary", "orders", len(pending), "recipients", cfg.Mail.Recipients)
	},
}
