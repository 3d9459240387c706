package products

import (
	"context"
	"errors"
	"testing"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Client, *testutil.FakeServer) {
	t.Cleanup(testutil.Setup(t, "ccapi/products"))

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

const rangeReply = `{
	"ID": "5120",
	"Name": "Crew Neck Jumper ",
	"ManufacturerSKU": "CNJ",
	"Description": "Lambswool",
	"EndOfLine": "False",
	"PreOrder": "1",
	"Options": [
		{"OptionID": 32, "OptionName": "Size", "Selectable": "True"},
		{"OptionID": "33", "OptionName": "Colour", "Selectable": "False"}
	]
}`

const productsReply = `[
	{
		"ID": "88001",
		"RangeID": "5120",
		"Name": "Crew Neck Jumper - Small",
		"ManufacturerSKU": "CNJ-S",
		"Barcode": "5012345678900",
		"BasePrice": "39.99",
		"VatRate": "20",
		"StockLevel": "4",
		"DateCreated": "/Date(1496918496099)/",
		"OptionValues": [{"OptionID": "32", "OptionName": "Size", "OptionValueID": "771", "OptionValue": "Small"}]
	},
	{
		"ID": 88002,
		"RangeID": 5120,
		"Name": "Crew Neck Jumper - Large",
		"ManufacturerSKU": "CNJ-L",
		"Barcode": "",
		"BasePrice": 39.99,
		"VatRate": 20,
		"StockLevel": 0,
		"DateCreated": null,
		"OptionValues": []
	}
]`

func TestGetRange(t *testing.T) {
	client, srv := setup(t)
	srv.Reply("/Handlers/Range/GetRange.ashx", rangeReply)
	srv.Reply("/Handlers/Products/getProductsForRange.ashx", productsReply)

	r, err := client.GetRange(context.Background(), 5120)
	require.NoError(t, err)

	require.Equal(t, 5120, r.ID)
	require.Equal(t, "Crew Neck Jumper", r.Name)
	require.True(t, r.PreOrder)
	require.False(t, r.EndOfLine)
	if diff := cmp.Diff([]RangeOption{
		{ID: 32, Name: "Size", Selectable: true},
		{ID: 33, Name: "Colour", Selectable: false},
	}, r.Options); diff != "" {
		t.Fatal(diff)
	}

	require.Len(t, r.Products, 2)
	require.Equal(t, 88001, r.Products[0].ID)
	require.Equal(t, 39.99, r.Products[0].BasePrice)
	require.Equal(t, 4, r.Products[0].StockLevel)
	require.Equal(t, int64(1496918496099), r.Products[0].Created.UnixMilli())
	require.Equal(t, []ProductOptionValue{{OptionID: 32, OptionName: "Size", ValueID: 771, Value: "Small"}}, r.Products[0].Options)
	require.True(t, r.Products[1].Created.IsZero())

	require.Equal(t, "5120", srv.Last(t, "/Handlers/Range/GetRange.ashx").Form.Get("RangeID"))
	require.Equal(t, "5120", srv.Last(t, "/Handlers/Products/getProductsForRange.ashx").Form.Get("RangeID"))
}

func TestRangeLifecycle(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Range/NewRange.ashx", "5121")
	srv.Reply("/Handlers/Range/UpdateRangeSettings.ashx", "Success")
	srv.Reply("/Handlers/Range/DeleteRange.ashx", "OK")

	_, err := client.CreateRange(ctx, "", "CNJ")
	require.Error(t, err)
	require.Empty(t, srv.Requests("/Handlers/Range/NewRange.ashx"))

	sku := testutil.RandomSKU(t)
	id, err := client.CreateRange(ctx, "Crew Neck Jumper", sku)
	require.NoError(t, err)
	require.Equal(t, 5121, id)
	req := srv.Last(t, "/Handlers/Range/NewRange.ashx")
	require.Equal(t, sku, req.Form.Get("ManufacturerSKU"))
	require.Equal(t, "341", req.Form.Get("BrandID"))

	err = client.UpdateRange(ctx, RangeSettings{RangeID: id, Name: "Crew Neck", SKU: sku, EndOfLine: true})
	require.NoError(t, err)
	require.Equal(t, "true", srv.Last(t, "/Handlers/Range/UpdateRangeSettings.ashx").Form.Get("EndOfLine"))

	require.NoError(t, client.DeleteRange(ctx, id))
}

func TestAddProduct(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Products/AddProduct.ashx", "Success^^88003")

	_, err := client.AddProduct(ctx, NewProduct{RangeID: 5120, Name: "Medium", VATRate: 17.5})
	require.Error(t, err)
	require.Empty(t, srv.Requests("/Handlers/Products/AddProduct.ashx"))

	barcode := testutil.RandomBarcode(t)
	id, err := client.AddProduct(ctx, NewProduct{
		RangeID:   5120,
		Name:      "Crew Neck Jumper - Medium",
		SKU:       "CNJ-M",
		Barcode:   barcode,
		BasePrice: 39.9,
		VATRate:   20,
	})
	require.NoError(t, err)
	require.Equal(t, 88003, id)

	req := srv.Last(t, "/Handlers/Products/AddProduct.ashx")
	require.Equal(t, "39.90", req.Form.Get("BasePrice"))
	require.Equal(t, "5", req.Form.Get("VatRateID"))
	require.Equal(t, barcode, req.Form.Get("Barcode"))
}

func TestProductDetails(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	for _, handler := range []string{
		"UpdateProductName", "UpdateProductBarcode", "UpdateDescription", "UpdateBasePrice",
		"UpdateVatRate", "UpdateProductScope", "UpdateHandlingTime",
	} {
		srv.Reply("/Handlers/ProductDetails/"+handler+".ashx", "Success")
	}
	srv.Reply("/Handlers/Products/UpdateProductStockLevel.ashx", "Error^^Stock level has changed")

	require.NoError(t, client.SetProductName(ctx, 88001, "Crew Neck Jumper - S"))
	require.Error(t, client.SetProductName(ctx, 88001, " "))
	require.NoError(t, client.SetProductBarcode(ctx, 88001, "5012345678900"))
	require.NoError(t, client.SetProductDescription(ctx, []int{88001, 88002}, "Lambswool"))
	require.NoError(t, client.SetProductBasePrice(ctx, []int{88001, 88002}, 42))
	require.Equal(t, "42.00", srv.Last(t, "/Handlers/ProductDetails/UpdateBasePrice.ashx").Form.Get("Price"))
	require.Equal(t, "88001^^88002", srv.Last(t, "/Handlers/ProductDetails/UpdateBasePrice.ashx").Form.Get("ProductIDs"))

	require.NoError(t, client.SetProductVATRate(ctx, []int{88001}, 5))
	require.Equal(t, "2", srv.Last(t, "/Handlers/ProductDetails/UpdateVatRate.ashx").Form.Get("VatRateID"))
	require.Error(t, client.SetProductVATRate(ctx, []int{88001}, 12))
	require.Len(t, srv.Requests("/Handlers/ProductDetails/UpdateVatRate.ashx"), 1)

	require.NoError(t, client.SetProductScope(ctx, Scope{ProductIDs: []int{88001}, Weight: 450, Height: 4, Length: 30, Width: 22.5, LargeLetter: true}))
	scope := srv.Last(t, "/Handlers/ProductDetails/UpdateProductScope.ashx")
	require.Equal(t, "450", scope.Form.Get("Weight"))
	require.Equal(t, "22.5", scope.Form.Get("Width"))
	require.Equal(t, "true", scope.Form.Get("LargeLetterCompatible"))

	require.NoError(t, client.SetProductHandlingTime(ctx, []int{88001}, 2))

	err := client.UpdateStockLevel(ctx, 88001, 5, 4)
	var handlerErr *core.HandlerError
	require.True(t, errors.As(err, &handlerErr))
	stock := srv.Last(t, "/Handlers/Products/UpdateProductStockLevel.ashx")
	require.Equal(t, "5", stock.Form.Get("newStockLevel"))
	require.Equal(t, "4", stock.Form.Get("oldStockLevel"))
}

func TestBulkUpdatesNeedProducts(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()

	require.ErrorIs(t, client.SetProductDescription(ctx, nil, "Lambswool"), ErrNoProducts)
	require.ErrorIs(t, client.SetProductBasePrice(ctx, []int{}, 42), ErrNoProducts)
	require.ErrorIs(t, client.SetProductVATRate(ctx, nil, 20), ErrNoProducts)
	require.ErrorIs(t, client.SetProductScope(ctx, Scope{Weight: 450}), ErrNoProducts)
	require.ErrorIs(t, client.SetProductHandlingTime(ctx, nil, 2), ErrNoProducts)
	require.ErrorIs(t, client.SetProductOptionValue(ctx, nil, 32, 774), ErrNoProducts)

	require.Empty(t, srv.Requests("/Handlers/ProductDetails/UpdateDescription.ashx"))
	require.Empty(t, srv.Requests("/Handlers/ProductDetails/UpdateBasePrice.ashx"))
	require.Empty(t, srv.Requests("/Handlers/ProductOption/SetProductOptionValue.ashx"))
	require.Equal(t, 0, srv.Logins())
}

func TestSearchAndBarcode(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Products/SearchProducts.ashx", productsReply)
	srv.Reply("/Handlers/Products/CheckBarcodeInUse.ashx", "True")

	found, err := client.SearchProducts(ctx, "crew neck")
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Equal(t, "crew neck", srv.Last(t, "/Handlers/Products/SearchProducts.ashx").Form.Get("SearchText"))

	inUse, err := client.CheckBarcodeInUse(ctx, "5012345678900")
	require.NoError(t, err)
	require.True(t, inUse)

	srv.Reply("/Handlers/Products/CheckBarcodeInUse.ashx", "Object reference not set")
	_, err = client.CheckBarcodeInUse(ctx, "5012345678900")
	require.Error(t, err)
}
