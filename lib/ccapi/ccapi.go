package ccapi

import (
	"context"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/ccapi/customers"
	"ccapi/lib/ccapi/exports"
	"ccapi/lib/ccapi/factories"
	"ccapi/lib/ccapi/inventory"
	"ccapi/lib/ccapi/orders"
	"ccapi/lib/ccapi/products"
	"ccapi/lib/ccapi/users"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi")

type API struct {
	Core      *core.Client
	Products  *products.Client
	Inventory *inventory.Client
	Orders    *orders.Client
	Customers *customers.Client
	Factories *factories.Client
	Users     *users.Client
	Exports   *exports.Client
}

// New creates a client and logs in.
func New(ctx context.Context, opts core.ClientOptions) (*API, error) {
	ctx, span := tracer.Start(ctx, "New")
	defer span.End()

	c, err := core.NewClient(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create client")
		return nil, err
	}
	err = c.Login(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to login")
		return nil, err
	}
	return Wrap(c), nil
}

// Wrap exposes the handler groups of an existing client.
func Wrap(c *core.Client) *API {
	return &API{
		Core:      c,
		Products:  products.NewClient(c),
		Inventory: inventory.NewClient(c),
		Orders:    orders.NewClient(c),
		Customers: customers.NewClient(c),
		Factories: factories.NewClient(c),
		Users:     users.NewClient(c),
		Exports:   exports.NewClient(c),
	}
}
