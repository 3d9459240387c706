package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var ErrNoOptionValue = errors.New("no matching option value")

type Option struct {
	ID   int
	Name string
}

type OptionValue struct {
	ID       int
	OptionID int
	Value    string
}

type optionJson struct {
	ID   core.Int `json:"OptionID"`
	Name string   `json:"OptionName"`
}

type optionValueJson struct {
	ID    core.Int `json:"OptionValueID"`
	Value string   `json:"OptionValue"`
}

func (c *Client) GetOptions(ctx context.Context) ([]Option, error) {
	ctx, span := tracer.Start(ctx, "client:GetOptions")
	defer span.End()

	res, err := c.core.Get(ctx, "/Handlers/ProductOption/GetOptions.ashx", url.Values{
		"BrandID": {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch options")
		return nil, err
	}
	list, err := core.DecodeJSON[[]optionJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode options")
		return nil, err
	}

	options := make([]Option, len(list))
	for i, o := range list {
		options[i] = Option{ID: int(o.ID), Name: strings.TrimSpace(o.Name)}
	}
	return options, nil
}

func (c *Client) GetOptionValues(ctx context.Context, optionID int) ([]OptionValue, error) {
	ctx, span := tracer.Start(ctx, "client:GetOptionValues")
	defer span.End()
	span.SetAttributes(attribute.Int("option_id", optionID))

	res, err := c.core.Get(ctx, "/Handlers/ProductOption/GetOptionValues.ashx", url.Values{
		"OptionID": {strconv.Itoa(optionID)},
		"BrandID":  {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch option values")
		return nil, err
	}
	list, err := core.DecodeJSON[[]optionValueJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode option values")
		return nil, err
	}

	values := make([]OptionValue, len(list))
	for i, v := range list {
		values[i] = OptionValue{
			ID:       int(v.ID),
			OptionID: optionID,
			Value:    strings.TrimSpace(v.Value),
		}
	}
	return values, nil
}

// CreateOptionValue adds value to an option and returns the new value's ID.
func (c *Client) CreateOptionValue(ctx context.Context, optionID int, value string) (int, error) {
	ctx, span := tracer.Start(ctx, "client:CreateOptionValue")
	defer span.End()

	form := c.core.NewForm()
	form.Set("OptionID", strconv.Itoa(optionID))
	form.Set("OptionValue", strings.TrimSpace(value))
	res, err := c.core.Post(ctx, "/Handlers/ProductOption/AddOptionValue.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add option value")
		return 0, err
	}
	id, err := core.ExpectID("AddOptionValue", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "option value was not created")
		return 0, err
	}
	return id, nil
}

// FindOptionValue looks up value among an option's values. Names are
// compared after normalization only, values such as sizes are too close to
// each other for a fuzzy match to be safe.
func (c *Client) FindOptionValue(ctx context.Context, optionID int, value string) (OptionValue, error) {
	ctx, span := tracer.Start(ctx, "client:FindOptionValue")
	defer span.End()

	values, err := c.GetOptionValues(ctx, optionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch option values")
		return OptionValue{}, err
	}

	target := textutil.NormalizeName(value)
	for _, v := range values {
		if textutil.NormalizeName(v.Value) == target {
			return v, nil
		}
	}
	slog.DebugContext(ctx, "no option value matched", "option_id", optionID, "value", value, "candidates", len(values))
	return OptionValue{}, fmt.Errorf("%w: '%s'", ErrNoOptionValue, value)
}

func (c *Client) SetProductOptionValue(ctx context.Context, productIDs []int, optionID, valueID int) error {
	ctx, span := tracer.Start(ctx, "client:SetProductOptionValue")
	defer span.End()

	form, err := c.productForm(productIDs...)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	form.Set("OptionID", strconv.Itoa(optionID))
	form.Set("OptionValueID", strconv.Itoa(valueID))
	res, err := c.core.Post(ctx, "/Handlers/ProductOption/SetProductOptionValue.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set option value")
		return err
	}
	err = core.ExpectSuccess("SetProductOptionValue", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "option value rejected")
		return err
	}
	return nil
}

func (c *Client) rangeOption(ctx context.Context, handler string, form url.Values) error {
	ctx, span := tracer.Start(ctx, "client:"+handler)
	defer span.End()

	res, err := c.core.Post(ctx, "/Handlers/Range/"+handler+".ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update range option")
		return err
	}
	err = core.ExpectSuccess(handler, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "range option update rejected")
		return err
	}
	return nil
}

func (c *Client) rangeOptionForm(rangeID, optionID int) url.Values {
	form := c.core.NewForm()
	form.Set("RangeID", strconv.Itoa(rangeID))
	form.Set("OptionID", strconv.Itoa(optionID))
	return form
}

func (c *Client) AddOptionToRange(ctx context.Context, rangeID, optionID int) error {
	form := c.rangeOptionForm(rangeID, optionID)
	form.Set("Action", "add")
	return c.rangeOption(ctx, "AddRemoveRangeOption", form)
}

func (c *Client) RemoveOptionFromRange(ctx context.Context, rangeID, optionID int) error {
	form := c.rangeOptionForm(rangeID, optionID)
	form.Set("Action", "remove")
	return c.rangeOption(ctx, "AddRemoveRangeOption", form)
}

// SetOptionSelectable controls whether customers pick a value of the option
// when ordering from the range.
func (c *Client) SetOptionSelectable(ctx context.Context, rangeID, optionID int, selectable bool) error {
	form := c.rangeOptionForm(rangeID, optionID)
	form.Set("Selectable", strconv.FormatBool(selectable))
	return c.rangeOption(ctx, "SetOptionSelectable", form)
}
