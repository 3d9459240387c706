package factories

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"ccapi/lib/ccapi/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/factories")

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

// Factory is a supplier products are bought from.
type Factory struct {
	ID    int
	Name  string
	Email string
}

// FactoryLink ties a product to a factory along with the price paid and
// the factory's own SKU for it.
type FactoryLink struct {
	ID          int
	ProductID   int
	FactoryID   int
	FactoryName string
	Price       float64
	SKU         string
}

type factoryJson struct {
	ID    core.Int `json:"FactoryID"`
	Name  string   `json:"FactoryName"`
	Email string   `json:"Email"`
}

type factoryLinkJson struct {
	ID          core.Int   `json:"LinkID"`
	ProductID   core.Int   `json:"ProductID"`
	FactoryID   core.Int   `json:"FactoryID"`
	FactoryName string     `json:"FactoryName"`
	Price       core.Float `json:"Price"`
	SKU         string     `json:"FactorySKU"`
}

func (c *Client) Factories(ctx context.Context) ([]Factory, error) {
	ctx, span := tracer.Start(ctx, "client:Factories")
	defer span.End()

	res, err := c.core.Get(ctx, "/Handlers/Factory/GetFactories.ashx", url.Values{
		"BrandID": {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch factories")
		return nil, err
	}
	list, err := core.DecodeJSON[[]factoryJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode factories")
		return nil, err
	}

	factories := make([]Factory, len(list))
	for i, f := range list {
		factories[i] = Factory{
			ID:    int(f.ID),
			Name:  strings.TrimSpace(f.Name),
			Email: strings.TrimSpace(f.Email),
		}
	}
	return factories, nil
}

func (c *Client) ProductFactoryLinks(ctx context.Context, productID int) ([]FactoryLink, error) {
	ctx, span := tracer.Start(ctx, "client:ProductFactoryLinks")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", productID))

	res, err := c.core.Get(ctx, "/Handlers/Factory/GetProductFactoryLinks.ashx", url.Values{
		"ProductID": {strconv.Itoa(productID)},
		"BrandID":   {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch factory links")
		return nil, err
	}
	list, err := core.DecodeJSON[[]factoryLinkJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode factory links")
		return nil, err
	}

	links := make([]FactoryLink, len(list))
	for i, l := range list {
		links[i] = FactoryLink{
			ID:          int(l.ID),
			ProductID:   productID,
			FactoryID:   int(l.FactoryID),
			FactoryName: strings.TrimSpace(l.FactoryName),
			Price:       float64(l.Price),
			SKU:         strings.TrimSpace(l.SKU),
		}
	}
	return links, nil
}

func (c *Client) linkForm(link FactoryLink) url.Values {
	form := c.core.NewForm()
	form.Set("ProductID", strconv.Itoa(link.ProductID))
	form.Set("FactoryID", strconv.Itoa(link.FactoryID))
	form.Set("Price", strconv.FormatFloat(link.Price, 'f', 2, 64))
	form.Set("FactorySKU", link.SKU)
	return form
}

func (c *Client) AddFactoryLink(ctx context.Context, productID, factoryID int, price float64, sku string) (int, error) {
	ctx, span := tracer.Start(ctx, "client:AddFactoryLink")
	defer span.End()

	form := c.linkForm(FactoryLink{ProductID: productID, FactoryID: factoryID, Price: price, SKU: sku})
	res, err := c.core.Post(ctx, "/Handlers/Factory/AddProductFactoryLink.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add factory link")
		return 0, err
	}
	id, err := core.ExpectID("AddProductFactoryLink", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "factory link was not created")
		return 0, err
	}
	return id, nil
}

func (c *Client) UpdateFactoryLink(ctx context.Context, link FactoryLink) error {
	ctx, span := tracer.Start(ctx, "client:UpdateFactoryLink")
	defer span.End()

	form := c.linkForm(link)
	form.Set("LinkID", strconv.Itoa(link.ID))
	res, err := c.core.Post(ctx, "/Handlers/Factory/UpdateProductFactoryLink.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update factory link")
		return err
	}
	err = core.ExpectSuccess("UpdateProductFactoryLink", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "factory link update rejected")
		return err
	}
	return nil
}

func (c *Client) DeleteFactoryLink(ctx context.Context, linkID int) error {
	ctx, span := tracer.Start(ctx, "client:DeleteFactoryLink")
	defer span.End()

	form := c.core.NewForm()
	form.Set("LinkID", strconv.Itoa(linkID))
	res, err := c.core.Post(ctx, "/Handlers/Factory/DeleteProductFactoryLink.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete factory link")
		return err
	}
	err = core.ExpectSuccess("DeleteProductFactoryLink", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "factory link was not deleted")
		return err
	}
	return nil
}
