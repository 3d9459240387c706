package inventory

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/inventory")

var ErrNoBay = errors.New("no bay with that name")

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

type Warehouse struct {
	ID   int
	Name string
}

type Bay struct {
	ID          int
	WarehouseID int
	Name        string
	// set by ProductBays, the stock of the product held in the bay
	Quantity int
}

type warehouseJson struct {
	ID   core.Int `json:"WarehouseID"`
	Name string   `json:"WarehouseName"`
}

type bayJson struct {
	ID          core.Int `json:"BayID"`
	WarehouseID core.Int `json:"WarehouseID"`
	Name        string   `json:"BayName"`
	Quantity    core.Int `json:"Quantity"`
}

func (b bayJson) bay() Bay {
	return Bay{
		ID:          int(b.ID),
		WarehouseID: int(b.WarehouseID),
		Name:        strings.TrimSpace(b.Name),
		Quantity:    int(b.Quantity),
	}
}

func (c *Client) Warehouses(ctx context.Context) ([]Warehouse, error) {
	ctx, span := tracer.Start(ctx, "client:Warehouses")
	defer span.End()

	res, err := c.core.Get(ctx, "/Handlers/Warehouse/GetWarehouses.ashx", url.Values{
		"BrandID": {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch warehouses")
		return nil, err
	}
	list, err := core.DecodeJSON[[]warehouseJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode warehouses")
		return nil, err
	}

	warehouses := make([]Warehouse, len(list))
	for i, w := range list {
		warehouses[i] = Warehouse{ID: int(w.ID), Name: strings.TrimSpace(w.Name)}
	}
	return warehouses, nil
}

func (c *Client) fetchBays(ctx context.Context, handler string, query url.Values) ([]Bay, error) {
	res, err := c.core.Get(ctx, handler, query)
	if err != nil {
		return nil, err
	}
	list, err := core.DecodeJSON[[]bayJson](res)
	if err != nil {
		return nil, err
	}
	bays := make([]Bay, len(list))
	for i, b := range list {
		bays[i] = b.bay()
	}
	return bays, nil
}

func (c *Client) Bays(ctx context.Context, warehouseID int) ([]Bay, error) {
	ctx, span := tracer.Start(ctx, "client:Bays")
	defer span.End()
	span.SetAttributes(attribute.Int("warehouse_id", warehouseID))

	bays, err := c.fetchBays(ctx, "/Handlers/Warehouse/GetBays.ashx", url.Values{
		"WarehouseID": {strconv.Itoa(warehouseID)},
		"BrandID":     {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch bays")
		return nil, err
	}
	for i := range bays {
		bays[i].WarehouseID = warehouseID
	}
	return bays, nil
}

// FindBay returns the bay in a warehouse whose name matches name, ignoring
// case and whitespace.
func (c *Client) FindBay(ctx context.Context, warehouseID int, name string) (Bay, error) {
	bays, err := c.Bays(ctx, warehouseID)
	if err != nil {
		return Bay{}, err
	}
	target := textutil.NormalizeName(name)
	for _, b := range bays {
		if textutil.NormalizeName(b.Name) == target {
			return b, nil
		}
	}
	return Bay{}, ErrNoBay
}

func (c *Client) CreateBay(ctx context.Context, warehouseID int, name string) (int, error) {
	ctx, span := tracer.Start(ctx, "client:CreateBay")
	defer span.End()

	form := c.core.NewForm()
	form.Set("WarehouseID", strconv.Itoa(warehouseID))
	form.Set("BayName", strings.TrimSpace(name))
	res, err := c.core.Post(ctx, "/Handlers/Warehouse/AddBay.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create bay")
		return 0, err
	}
	id, err := core.ExpectID("AddBay", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bay was not created")
		return 0, err
	}
	return id, nil
}

// ProductBays lists the bays that hold stock of a product.
func (c *Client) ProductBays(ctx context.Context, productID int) ([]Bay, error) {
	ctx, span := tracer.Start(ctx, "client:ProductBays")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", productID))

	bays, err := c.fetchBays(ctx, "/Handlers/Warehouse/GetProductBays.ashx", url.Values{
		"ProductID": {strconv.Itoa(productID)},
		"BrandID":   {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch product bays")
		return nil, err
	}
	return bays, nil
}

func (c *Client) productBay(ctx context.Context, handler string, productID, bayID int) error {
	ctx, span := tracer.Start(ctx, "client:"+handler)
	defer span.End()

	form := c.core.NewForm()
	form.Set("ProductID", strconv.Itoa(productID))
	form.Set("BayID", strconv.Itoa(bayID))
	res, err := c.core.Post(ctx, "/Handlers/Warehouse/"+handler+".ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update product bay")
		return err
	}
	err = core.ExpectSuccess(handler, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product bay update rejected")
		return err
	}
	return nil
}

func (c *Client) AddProductToBay(ctx context.Context, productID, bayID int) error {
	return c.productBay(ctx, "AddProductToBay", productID, bayID)
}

func (c *Client) RemoveProductFromBay(ctx context.Context, productID, bayID int) error {
	return c.productBay(ctx, "RemoveProductFromBay", productID, bayID)
}
