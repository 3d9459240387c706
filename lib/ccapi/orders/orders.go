package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/timezone"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/orders")

// DispatchPageSize is the number of orders requested per page from the
// dispatch list.
const DispatchPageSize = 100

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

type Item struct {
	ProductID int
	SKU       string
	Name      string
	Quantity  int
	Price     float64
}

type Order struct {
	ID           int
	InvoiceID    int
	CustomerID   int
	CustomerName string
	Channel      string
	Status       string
	Total        float64
	Postcode     string
	Created      time.Time
	Dispatched   time.Time
	Items        []Item
}

type itemJson struct {
	ProductID core.Int   `json:"ProductID"`
	SKU       string     `json:"ProductSKU"`
	Name      string     `json:"ProductName"`
	Quantity  core.Int   `json:"Quantity"`
	Price     core.Float `json:"Price"`
}

type orderJson struct {
	ID           core.Int   `json:"OrderID"`
	InvoiceID    core.Int   `json:"InvoiceID"`
	CustomerID   core.Int   `json:"CustomerID"`
	CustomerName string     `json:"CustomerName"`
	Channel      string     `json:"ChannelName"`
	Status       string     `json:"Status"`
	Total        core.Float `json:"OrderTotal"`
	Postcode     string     `json:"DeliveryPostcode"`
	Created      core.Date  `json:"DateCreated"`
	Dispatched   core.Date  `json:"DateDispatched"`
	Items        []itemJson `json:"Items"`
}

func (o orderJson) order() Order {
	out := Order{
		ID:           int(o.ID),
		InvoiceID:    int(o.InvoiceID),
		CustomerID:   int(o.CustomerID),
		CustomerName: strings.TrimSpace(o.CustomerName),
		Channel:      strings.TrimSpace(o.Channel),
		Status:       strings.TrimSpace(o.Status),
		Total:        float64(o.Total),
		Postcode:     strings.TrimSpace(o.Postcode),
		Created:      o.Created.Time,
		Dispatched:   o.Dispatched.Time,
	}
	for _, i := range o.Items {
		out.Items = append(out.Items, Item{
			ProductID: int(i.ProductID),
			SKU:       strings.TrimSpace(i.SKU),
			Name:      strings.TrimSpace(i.Name),
			Quantity:  int(i.Quantity),
			Price:     float64(i.Price),
		})
	}
	return out
}

type dispatchPageJson struct {
	TotalCount core.Int    `json:"TotalCount"`
	Orders     []orderJson `json:"Orders"`
}

// DispatchFilter narrows the dispatch list, zero values are not sent.
type DispatchFilter struct {
	WarehouseID int
	ChannelID   int
	From        time.Time
	To          time.Time
}

func (f DispatchFilter) apply(form url.Values) {
	if f.WarehouseID > 0 {
		form.Set("WarehouseID", strconv.Itoa(f.WarehouseID))
	}
	if f.ChannelID > 0 {
		form.Set("ChannelID", strconv.Itoa(f.ChannelID))
	}
	if !f.From.IsZero() {
		form.Set("DateFrom", f.From.In(timezone.Location).Format("02/01/2006"))
	}
	if !f.To.IsZero() {
		form.Set("DateTo", f.To.In(timezone.Location).Format("02/01/2006"))
	}
}

// OrdersForDispatch collects every order awaiting dispatch, requesting pages
// until the reported total is reached or a page comes back empty.
func (c *Client) OrdersForDispatch(ctx context.Context, filter DispatchFilter) ([]Order, error) {
	ctx, span := tracer.Start(ctx, "client:OrdersForDispatch")
	defer span.End()

	var orders []Order
	for page := 1; ; page++ {
		form := c.core.NewForm()
		filter.apply(form)
		form.Set("Page", strconv.Itoa(page))
		form.Set("PageSize", strconv.Itoa(DispatchPageSize))

		res, err := c.core.Post(ctx, "/Handlers/Orders/GetOrdersForDispatch.ashx", form)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed to fetch page %d", page))
			return nil, err
		}
		result, err := core.DecodeJSON[dispatchPageJson](res)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed to decode page %d", page))
			return nil, err
		}

		for _, o := range result.Orders {
			orders = append(orders, o.order())
		}
		if len(result.Orders) == 0 || len(orders) >= int(result.TotalCount) {
			break
		}
	}

	span.SetAttributes(attribute.Int("orders", len(orders)))
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID int) (Order, error) {
	ctx, span := tracer.Start(ctx, "client:GetOrder")
	defer span.End()
	span.SetAttributes(attribute.Int("order_id", orderID))

	res, err := c.core.Get(ctx, "/Handlers/Orders/GetOrder.ashx", url.Values{
		"OrderID": {strconv.Itoa(orderID)},
		"BrandID": {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch order")
		return Order{}, err
	}
	order, err := core.DecodeJSON[orderJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode order")
		return Order{}, err
	}
	if order.ID == 0 {
		err = fmt.Errorf("order %d not found", orderID)
		span.SetStatus(codes.Error, err.Error())
		return Order{}, err
	}
	return order.order(), nil
}

type NewItem struct {
	ProductID int     `json:"ProductID"`
	Quantity  int     `json:"Quantity"`
	Price     float64 `json:"Price"`
}

type NewOrder struct {
	CustomerID        int
	DeliveryAddressID int
	BillingAddressID  int
	ChannelID         int
	ShippingPrice     float64
	Items             []NewItem
}

type CreatedOrder struct {
	OrderID   int
	InvoiceID int
}

// CreateOrder places a manual order, the reply carries the IDs of both the
// order and the invoice raised for it.
func (c *Client) CreateOrder(ctx context.Context, order NewOrder) (CreatedOrder, error) {
	ctx, span := tracer.Start(ctx, "client:CreateOrder")
	defer span.End()

	if len(order.Items) == 0 {
		err := fmt.Errorf("an order must have at least one item")
		span.SetStatus(codes.Error, err.Error())
		return CreatedOrder{}, err
	}
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			err := fmt.Errorf("invalid quantity %d for product %d", item.Quantity, item.ProductID)
			span.SetStatus(codes.Error, err.Error())
			return CreatedOrder{}, err
		}
	}
	if order.BillingAddressID == 0 {
		order.BillingAddressID = order.DeliveryAddressID
	}

	items, err := json.Marshal(order.Items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode items")
		return CreatedOrder{}, err
	}

	form := c.core.NewForm()
	form.Set("CustomerID", strconv.Itoa(order.CustomerID))
	form.Set("DeliveryAddressID", strconv.Itoa(order.DeliveryAddressID))
	form.Set("BillingAddressID", strconv.Itoa(order.BillingAddressID))
	form.Set("ChannelID", strconv.Itoa(order.ChannelID))
	form.Set("ShippingPrice", strconv.FormatFloat(order.ShippingPrice, 'f', 2, 64))
	form.Set("OrderItems", string(items))

	res, err := c.core.Post(ctx, "/Handlers/Orders/CreateOrder.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create order")
		return CreatedOrder{}, err
	}

	fields := core.SplitRecord(core.Text(res))
	if len(fields) != 2 {
		err = &core.HandlerError{Handler: "CreateOrder", Message: core.Text(res)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "order was not created")
		return CreatedOrder{}, err
	}
	orderID, err1 := strconv.Atoi(fields[0])
	invoiceID, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		err = &core.HandlerError{Handler: "CreateOrder", Message: core.Text(res)}
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid order reply")
		return CreatedOrder{}, err
	}
	return CreatedOrder{OrderID: orderID, InvoiceID: invoiceID}, nil
}

// AddPayment records a payment of amount against an invoice.
func (c *Client) AddPayment(ctx context.Context, invoiceID int, amount float64, paymentTypeID int) error {
	ctx, span := tracer.Start(ctx, "client:AddPayment")
	defer span.End()

	if amount <= 0 {
		err := fmt.Errorf("payment amount must be positive: %v", amount)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	form := c.core.NewForm()
	form.Set("InvoiceID", strconv.Itoa(invoiceID))
	form.Set("Amount", strconv.FormatFloat(amount, 'f', 2, 64))
	form.Set("PaymentTypeID", strconv.Itoa(paymentTypeID))
	res, err := c.core.Post(ctx, "/Handlers/Orders/AddPayment.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add payment")
		return err
	}
	err = core.ExpectSuccess("AddPayment", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment rejected")
		return err
	}
	return nil
}

func (c *Client) MarkDispatched(ctx context.Context, orderIDs []int, trackingNumber string) error {
	ctx, span := tracer.Start(ctx, "client:MarkDispatched")
	defer span.End()

	if len(orderIDs) == 0 {
		return nil
	}

	form := c.core.NewForm()
	form.Set("OrderIDs", core.JoinIDs(orderIDs))
	form.Set("TrackingNumber", trackingNumber)
	res, err := c.core.Post(ctx, "/Handlers/Orders/MarkDispatched.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to mark orders dispatched")
		return err
	}
	err = core.ExpectSuccess("MarkDispatched", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch rejected")
		return err
	}
	return nil
}
