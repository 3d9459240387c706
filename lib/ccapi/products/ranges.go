package products

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"ccapi/lib/ccapi/core"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type RangeOption struct {
	ID         int
	Name       string
	Selectable bool
}

type Range struct {
	ID          int
	Name        string
	SKU         string
	Description string
	EndOfLine   bool
	PreOrder    bool
	Options     []RangeOption
	Products    []Product
}

type rangeOptionJson struct {
	ID         core.Int  `json:"OptionID"`
	Name       string    `json:"OptionName"`
	Selectable core.Bool `json:"Selectable"`
}

type rangeJson struct {
	ID          core.Int          `json:"ID"`
	Name        string            `json:"Name"`
	SKU         string            `json:"ManufacturerSKU"`
	Description string            `json:"Description"`
	EndOfLine   core.Bool         `json:"EndOfLine"`
	PreOrder    core.Bool         `json:"PreOrder"`
	Options     []rangeOptionJson `json:"Options"`
}

// CreateRange creates an empty range and returns its ID.
func (c *Client) CreateRange(ctx context.Context, name, sku string) (int, error) {
	ctx, span := tracer.Start(ctx, "client:CreateRange")
	defer span.End()

	if strings.TrimSpace(name) == "" || strings.TrimSpace(sku) == "" {
		err := fmt.Errorf("a range needs both a name and a SKU")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	form := c.core.NewForm()
	form.Set("RangeName", name)
	form.Set("ManufacturerSKU", sku)
	res, err := c.core.Post(ctx, "/Handlers/Range/NewRange.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create range")
		return 0, err
	}
	id, err := core.ExpectID("NewRange", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "range was not created")
		return 0, err
	}
	return id, nil
}

// GetRange fetches a range's settings, its options and its products.
func (c *Client) GetRange(ctx context.Context, rangeID int) (Range, error) {
	ctx, span := tracer.Start(ctx, "client:GetRange")
	defer span.End()
	span.SetAttributes(attribute.Int("range_id", rangeID))

	res, err := c.core.Get(ctx, "/Handlers/Range/GetRange.ashx", url.Values{
		"RangeID": {strconv.Itoa(rangeID)},
		"BrandID": {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch range")
		return Range{}, err
	}
	raw, err := core.DecodeJSON[rangeJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode range")
		return Range{}, err
	}
	if raw.ID == 0 {
		err = fmt.Errorf("range %d not found", rangeID)
		span.SetStatus(codes.Error, err.Error())
		return Range{}, err
	}

	out := Range{
		ID:          int(raw.ID),
		Name:        strings.TrimSpace(raw.Name),
		SKU:         strings.TrimSpace(raw.SKU),
		Description: raw.Description,
		EndOfLine:   bool(raw.EndOfLine),
		PreOrder:    bool(raw.PreOrder),
	}
	for _, o := range raw.Options {
		out.Options = append(out.Options, RangeOption{
			ID:         int(o.ID),
			Name:       strings.TrimSpace(o.Name),
			Selectable: bool(o.Selectable),
		})
	}

	out.Products, err = c.ProductsForRange(ctx, rangeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch range products")
		return Range{}, err
	}
	return out, nil
}

type RangeSettings struct {
	RangeID     int
	Name        string
	SKU         string
	Description string
	EndOfLine   bool
	PreOrder    bool
}

func (c *Client) UpdateRange(ctx context.Context, settings RangeSettings) error {
	ctx, span := tracer.Start(ctx, "client:UpdateRange")
	defer span.End()

	form := c.core.NewForm()
	form.Set("RangeID", strconv.Itoa(settings.RangeID))
	form.Set("RangeName", settings.Name)
	form.Set("ManufacturerSKU", settings.SKU)
	form.Set("Description", settings.Description)
	form.Set("EndOfLine", strconv.FormatBool(settings.EndOfLine))
	form.Set("PreOrder", strconv.FormatBool(settings.PreOrder))
	res, err := c.core.Post(ctx, "/Handlers/Range/UpdateRangeSettings.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update range")
		return err
	}
	err = core.ExpectSuccess("UpdateRangeSettings", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "range update rejected")
		return err
	}
	return nil
}

func (c *Client) DeleteRange(ctx context.Context, rangeID int) error {
	ctx, span := tracer.Start(ctx, "client:DeleteRange")
	defer span.End()

	form := c.core.NewForm()
	form.Set("RangeID", strconv.Itoa(rangeID))
	res, err := c.core.Post(ctx, "/Handlers/Range/DeleteRange.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete range")
		return err
	}
	err = core.ExpectSuccess("DeleteRange", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "range was not deleted")
		return err
	}
	return nil
}
