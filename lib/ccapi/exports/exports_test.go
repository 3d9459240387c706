package exports

import (
	"context"
	"testing"
	"time"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/testutil"
	"ccapi/lib/timezone"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Client, *testutil.FakeServer) {
	t.Cleanup(testutil.Setup(t, "ccapi/exports"))

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

func TestExports(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Export/RequestProductExport.ashx", "Success^^610")
	srv.Reply("/Handlers/Export/GetExports.ashx", "610^^products_610.csv^^Pending^^19/10/2026 09:05\r\n609^^products_609.csv^^Complete^^18/10/2026 17:30\r\n\r\n")
	srv.Reply("/Export/Download.ashx", "ID,Name\n88001,Crew Neck Jumper - Small\n")

	_, err := client.RequestProductExport(ctx, nil, []string{"SKU"})
	require.Error(t, err)

	id, err := client.RequestProductExport(ctx, []int{5120, 5121}, []string{"SKU", "Barcode", "StockLevel"})
	require.NoError(t, err)
	require.Equal(t, 610, id)
	req := srv.Last(t, "/Handlers/Export/RequestProductExport.ashx")
	require.Equal(t, "5120^^5121", req.Form.Get("RangeIDs"))
	require.Equal(t, "SKU^^Barcode^^StockLevel", req.Form.Get("Fields"))

	exports, err := client.Exports(ctx)
	require.NoError(t, err)
	require.Len(t, exports, 2)
	require.Equal(t, Export{
		ID:        609,
		Filename:  "products_609.csv",
		Status:    "Complete",
		Requested: time.Date(2026, time.October, 18, 17, 30, 0, 0, timezone.Location),
	}, exports[1])
	require.True(t, exports[1].Complete())
	require.False(t, exports[0].Complete())

	contents, err := client.Download(ctx, 609)
	require.NoError(t, err)
	require.Contains(t, string(contents), "Crew Neck Jumper")
	require.Equal(t, "609", srv.Last(t, "/Export/Download.ashx").Form.Get("id"))
}

func TestExportsMalformed(t *testing.T) {
	client, srv := setup(t)
	srv.Reply("/Handlers/Export/GetExports.ashx", "610^^products_610.csv")

	_, err := client.Exports(context.Background())
	require.Error(t, err)
}
