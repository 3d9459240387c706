package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"
	"time"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/testutil"
	"ccapi/lib/timezone"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Client, *testutil.FakeServer) {
	t.Cleanup(testutil.Setup(t, "ccapi/orders"))

	srv := testutil.NewFakeServer(t)
	c, err := core.NewClient(context.Background(), core.ClientOptions{
		BaseUrl:           srv.URL,
		Username:          testutil.FakeUsername,
		Password:          testutil.FakePassword,
		RequestsPerSecond: -1,
	})
	require.NoError(t, err)
	return NewClient(c), srv
}

func dispatchPage(total, start, count int) string {
	orders := make([]map[string]any, count)
	for i := range orders {
		orders[i] = map[string]any{
			"OrderID":      strconv.Itoa(start + i),
			"CustomerName": fmt.Sprintf("Customer %d", start+i),
			"OrderTotal":   "12.00",
			"DateCreated":  "/Date(1496918496099)/",
		}
	}
	out, _ := json.Marshal(map[string]any{"TotalCount": strconv.Itoa(total), "Orders": orders})
	return string(out)
}

func TestOrdersForDispatchPaging(t *testing.T) {
	client, srv := setup(t)
	srv.Handle("/Handlers/Orders/GetOrdersForDispatch.ashx", func(req testutil.Request) testutil.Reply {
		page, _ := strconv.Atoi(req.Form.Get("Page"))
		switch page {
		case 1:
			return testutil.Reply{Body: dispatchPage(230, 1, 100)}
		case 2:
			return testutil.Reply{Body: dispatchPage(230, 101, 100)}
		case 3:
			return testutil.Reply{Body: dispatchPage(230, 201, 30)}
		}
		return testutil.Reply{Body: dispatchPage(230, 0, 0)}
	})

	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, timezone.Location)
	orders, err := client.OrdersForDispatch(context.Background(), DispatchFilter{WarehouseID: 1, From: from})
	require.NoError(t, err)
	require.Len(t, orders, 230)
	require.Equal(t, 1, orders[0].ID)
	require.Equal(t, 230, orders[229].ID)
	require.Equal(t, 12.0, orders[0].Total)

	requests := srv.Requests("/Handlers/Orders/GetOrdersForDispatch.ashx")
	require.Len(t, requests, 3)
	require.Equal(t, "100", requests[0].Form.Get("PageSize"))
	require.Equal(t, "01/03/2024", requests[0].Form.Get("DateFrom"))
	require.Empty(t, requests[0].Form.Get("ChannelID"))
}

func TestDispatchFilterDates(t *testing.T) {
	client, srv := setup(t)
	srv.Reply("/Handlers/Orders/GetOrdersForDispatch.ashx", dispatchPage(0, 0, 0))

	// 23:30 UTC on the 31st is already the 1st in the UK during summer time.
	from := time.Date(2024, time.July, 31, 23, 30, 0, 0, time.UTC)
	to := time.Date(2024, time.August, 2, 12, 0, 0, 0, time.FixedZone("PDT", -7*60*60))
	_, err := client.OrdersForDispatch(context.Background(), DispatchFilter{From: from, To: to})
	require.NoError(t, err)

	req := srv.Last(t, "/Handlers/Orders/GetOrdersForDispatch.ashx")
	require.Equal(t, "01/08/2024", req.Form.Get("DateFrom"))
	require.Equal(t, "02/08/2024", req.Form.Get("DateTo"))
}

func TestOrdersForDispatchEmptyPage(t *testing.T) {
	client, srv := setup(t)
	srv.Handle("/Handlers/Orders/GetOrdersForDispatch.ashx", func(req testutil.Request) testutil.Reply {
		if req.Form.Get("Page") == "1" {
			return testutil.Reply{Body: dispatchPage(500, 1, 100)}
		}
		return testutil.Reply{Body: dispatchPage(500, 0, 0)}
	})

	orders, err := client.OrdersForDispatch(context.Background(), DispatchFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 100)
	require.Len(t, srv.Requests("/Handlers/Orders/GetOrdersForDispatch.ashx"), 2)
}

func TestGetOrder(t *testing.T) {
	client, srv := setup(t)
	srv.Reply("/Handlers/Orders/GetOrder.ashx", `{
		"OrderID": "1001",
		"InvoiceID": "2001",
		"CustomerID": 55,
		"CustomerName": "Jane Smith",
		"Status": "Awaiting Dispatch",
		"OrderTotal": "79.98",
		"DateCreated": "/Date(1496918496099+0100)/",
		"DateDispatched": null,
		"Items": [{"ProductID": "88001", "ProductSKU": "CNJ-S", "ProductName": "Crew Neck Jumper - Small", "Quantity": "2", "Price": "39.99"}]
	}`)

	order, err := client.GetOrder(context.Background(), 1001)
	require.NoError(t, err)
	require.Equal(t, 2001, order.InvoiceID)
	require.Equal(t, "Jane Smith", order.CustomerName)
	require.True(t, order.Dispatched.IsZero())
	require.Equal(t, []Item{{ProductID: 88001, SKU: "CNJ-S", Name: "Crew Neck Jumper - Small", Quantity: 2, Price: 39.99}}, order.Items)
}

func TestCreateOrder(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Orders/CreateOrder.ashx", "1002^^2002")
	srv.Reply("/Handlers/Orders/AddPayment.ashx", "Success")

	_, err := client.CreateOrder(ctx, NewOrder{CustomerID: 55})
	require.Error(t, err)
	require.Empty(t, srv.Requests("/Handlers/Orders/CreateOrder.ashx"))

	created, err := client.CreateOrder(ctx, NewOrder{
		CustomerID:        55,
		DeliveryAddressID: 70,
		Items:             []NewItem{{ProductID: 88001, Quantity: 2, Price: 39.99}},
	})
	require.NoError(t, err)
	require.Equal(t, CreatedOrder{OrderID: 1002, InvoiceID: 2002}, created)

	req := srv.Last(t, "/Handlers/Orders/CreateOrder.ashx")
	require.Equal(t, "70", req.Form.Get("BillingAddressID"))
	var items []NewItem
	require.NoError(t, json.Unmarshal([]byte(req.Form.Get("OrderItems")), &items))
	require.Equal(t, 88001, items[0].ProductID)

	require.NoError(t, client.AddPayment(ctx, created.InvoiceID, 79.98, 3))
	require.Equal(t, "79.98", srv.Last(t, "/Handlers/Orders/AddPayment.ashx").Form.Get("Amount"))
	require.Error(t, client.AddPayment(ctx, created.InvoiceID, 0, 3))
}

func TestCreateOrderRejected(t *testing.T) {
	client, srv := setup(t)
	srv.Reply("/Handlers/Orders/CreateOrder.ashx", "Error: customer has no address")

	_, err := client.CreateOrder(context.Background(), NewOrder{
		CustomerID: 55,
		Items:      []NewItem{{ProductID: 88001, Quantity: 1}},
	})
	var handlerErr *core.HandlerError
	require.ErrorAs(t, err, &handlerErr)
}

func TestMarkDispatched(t *testing.T) {
	client, srv := setup(t)
	srv.Reply("/Handlers/Orders/MarkDispatched.ashx", "True")

	require.NoError(t, client.MarkDispatched(context.Background(), nil, ""))
	require.Empty(t, srv.Requests("/Handlers/Orders/MarkDispatched.ashx"))

	require.NoError(t, client.MarkDispatched(context.Background(), []int{1001, 1002}, "JD0002"))
	req := srv.Last(t, "/Handlers/Orders/MarkDispatched.ashx")
	require.Equal(t, "1001^^1002", req.Form.Get("OrderIDs"))
	require.Equal(t, "JD0002", req.Form.Get("TrackingNumber"))
}
