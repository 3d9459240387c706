package products

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ccapi/lib/ccapi/core"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/products")

var ErrNoProducts = errors.New("no products given")

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

type ProductOptionValue struct {
	OptionID   int
	OptionName string
	ValueID    int
	Value      string
}

type Product struct {
	ID          int
	RangeID     int
	Name        string
	SKU         string
	Barcode     string
	Description string
	BasePrice   float64
	VATRate     float64
	StockLevel  int
	EndOfLine   bool
	Created     time.Time
	Options     []ProductOptionValue
}

type productOptionValueJson struct {
	OptionID   core.Int `json:"OptionID"`
	OptionName string   `json:"OptionName"`
	ValueID    core.Int `json:"OptionValueID"`
	Value      string   `json:"OptionValue"`
}

type productJson struct {
	ID          core.Int                 `json:"ID"`
	RangeID     core.Int                 `json:"RangeID"`
	Name        string                   `json:"Name"`
	SKU         string                   `json:"ManufacturerSKU"`
	Barcode     string                   `json:"Barcode"`
	Description string                   `json:"Description"`
	BasePrice   core.Float               `json:"BasePrice"`
	VATRate     core.Float               `json:"VatRate"`
	StockLevel  core.Int                 `json:"StockLevel"`
	EndOfLine   core.Bool                `json:"EndOfLine"`
	Created     core.Date                `json:"DateCreated"`
	Options     []productOptionValueJson `json:"OptionValues"`
}

func (p productJson) product() Product {
	out := Product{
		ID:          int(p.ID),
		RangeID:     int(p.RangeID),
		Name:        strings.TrimSpace(p.Name),
		SKU:         strings.TrimSpace(p.SKU),
		Barcode:     strings.TrimSpace(p.Barcode),
		Description: p.Description,
		BasePrice:   float64(p.BasePrice),
		VATRate:     float64(p.VATRate),
		StockLevel:  int(p.StockLevel),
		EndOfLine:   bool(p.EndOfLine),
		Created:     p.Created.Time,
	}
	for _, o := range p.Options {
		out.Options = append(out.Options, ProductOptionValue{
			OptionID:   int(o.OptionID),
			OptionName: strings.TrimSpace(o.OptionName),
			ValueID:    int(o.ValueID),
			Value:      strings.TrimSpace(o.Value),
		})
	}
	return out
}

func decodeProducts(res *resty.Response) ([]Product, error) {
	list, err := core.DecodeJSON[[]productJson](res)
	if err != nil {
		return nil, err
	}
	products := make([]Product, len(list))
	for i, p := range list {
		products[i] = p.product()
	}
	return products, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func (c *Client) GetProduct(ctx context.Context, productID int) (Product, error) {
	ctx, span := tracer.Start(ctx, "client:GetProduct")
	defer span.End()
	span.SetAttributes(attribute.Int("product_id", productID))

	res, err := c.core.Get(ctx, "/Handlers/Products/GetProduct.ashx", url.Values{
		"ProductID": {strconv.Itoa(productID)},
		"BrandID":   {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch product")
		return Product{}, err
	}
	product, err := core.DecodeJSON[productJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode product")
		return Product{}, err
	}
	if product.ID == 0 {
		err = fmt.Errorf("product %d not found", productID)
		span.SetStatus(codes.Error, err.Error())
		return Product{}, err
	}
	return product.product(), nil
}

// ProductsForRange lists the products in a range.
func (c *Client) ProductsForRange(ctx context.Context, rangeID int) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:ProductsForRange")
	defer span.End()

	form := c.core.NewForm()
	form.Set("RangeID", strconv.Itoa(rangeID))
	res, err := c.core.Post(ctx, "/Handlers/Products/getProductsForRange.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch products")
		return nil, err
	}
	return decodeProducts(res)
}

// SearchProducts finds products whose name, SKU or barcode contain text.
func (c *Client) SearchProducts(ctx context.Context, text string) ([]Product, error) {
	ctx, span := tracer.Start(ctx, "client:SearchProducts")
	defer span.End()

	form := c.core.NewForm()
	form.Set("SearchText", text)
	res, err := c.core.Post(ctx, "/Handlers/Products/SearchProducts.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search products")
		return nil, err
	}
	return decodeProducts(res)
}

// CheckBarcodeInUse reports whether any product already has barcode.
func (c *Client) CheckBarcodeInUse(ctx context.Context, barcode string) (bool, error) {
	ctx, span := tracer.Start(ctx, "client:CheckBarcodeInUse")
	defer span.End()

	form := c.core.NewForm()
	form.Set("Barcode", barcode)
	res, err := c.core.Post(ctx, "/Handlers/Products/CheckBarcodeInUse.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to check barcode")
		return false, err
	}

	switch strings.ToLower(core.Text(res)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	err = &core.HandlerError{Handler: "CheckBarcodeInUse", Message: core.Text(res)}
	span.RecordError(err)
	span.SetStatus(codes.Error, "unexpected reply")
	return false, err
}

type NewProduct struct {
	RangeID     int
	Name        string
	SKU         string
	Barcode     string
	Description string
	BasePrice   float64
	// one of the rates in VATRates
	VATRate float64
}

// AddProduct creates a product in an existing range and returns its ID.
func (c *Client) AddProduct(ctx context.Context, product NewProduct) (int, error) {
	ctx, span := tracer.Start(ctx, "client:AddProduct")
	defer span.End()

	vatID, err := VATRateID(product.VATRate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid product")
		return 0, err
	}
	if product.RangeID <= 0 {
		err = fmt.Errorf("a product must belong to a range")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	form := c.core.NewForm()
	form.Set("RangeID", strconv.Itoa(product.RangeID))
	form.Set("ProductName", product.Name)
	form.Set("ManufacturerSKU", product.SKU)
	form.Set("Barcode", product.Barcode)
	form.Set("Description", product.Description)
	form.Set("BasePrice", formatPrice(product.BasePrice))
	form.Set("VatRateID", strconv.Itoa(vatID))

	res, err := c.core.Post(ctx, "/Handlers/Products/AddProduct.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add product")
		return 0, err
	}
	id, err := core.ExpectID("AddProduct", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product was not created")
		return 0, err
	}
	return id, nil
}

// update posts a single product detail change and expects an
// acknowledgement.
func (c *Client) update(ctx context.Context, name string, form url.Values) error {
	ctx, span := tracer.Start(ctx, "client:"+name)
	defer span.End()

	res, err := c.core.Post(ctx, "/Handlers/ProductDetails/"+name+".ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update product")
		return err
	}
	err = core.ExpectSuccess(name, res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update rejected")
		return err
	}
	return nil
}

// productForm returns a form addressing productIDs, at least one product is
// required.
func (c *Client) productForm(productIDs ...int) (url.Values, error) {
	if len(productIDs) == 0 {
		return nil, ErrNoProducts
	}
	form := c.core.NewForm()
	if len(productIDs) == 1 {
		form.Set("ProductID", strconv.Itoa(productIDs[0]))
	}
	form.Set("ProductIDs", core.JoinIDs(productIDs))
	return form, nil
}

func (c *Client) SetProductName(ctx context.Context, productID int, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("product name cannot be empty")
	}
	form, err := c.productForm(productID)
	if err != nil {
		return err
	}
	form.Set("Name", name)
	return c.update(ctx, "UpdateProductName", form)
}

func (c *Client) SetProductBarcode(ctx context.Context, productID int, barcode string) error {
	form, err := c.productForm(productID)
	if err != nil {
		return err
	}
	form.Set("Barcode", barcode)
	return c.update(ctx, "UpdateProductBarcode", form)
}

func (c *Client) SetProductDescription(ctx context.Context, productIDs []int, description string) error {
	form, err := c.productForm(productIDs...)
	if err != nil {
		return err
	}
	form.Set("Description", description)
	return c.update(ctx, "UpdateDescription", form)
}

func (c *Client) SetProductBasePrice(ctx context.Context, productIDs []int, price float64) error {
	if price < 0 {
		return fmt.Errorf("price cannot be negative: %v", price)
	}
	form, err := c.productForm(productIDs...)
	if err != nil {
		return err
	}
	form.Set("Price", formatPrice(price))
	return c.update(ctx, "UpdateBasePrice", form)
}

// SetProductVATRate sets the VAT rate (a percentage) of every product in
// productIDs.
func (c *Client) SetProductVATRate(ctx context.Context, productIDs []int, percent float64) error {
	vatID, err := VATRateID(percent)
	if err != nil {
		return err
	}
	form, err := c.productForm(productIDs...)
	if err != nil {
		return err
	}
	form.Set("VatRateID", strconv.Itoa(vatID))
	return c.update(ctx, "UpdateVatRate", form)
}

// Scope is a product's shipping dimensions, weight is in grams and
// lengths in centimetres.
type Scope struct {
	ProductIDs  []int
	Weight      int
	Height      float64
	Length      float64
	Width       float64
	LargeLetter bool
}

func (c *Client) SetProductScope(ctx context.Context, scope Scope) error {
	form, err := c.productForm(scope.ProductIDs...)
	if err != nil {
		return err
	}
	form.Set("Weight", strconv.Itoa(scope.Weight))
	form.Set("Height", strconv.FormatFloat(scope.Height, 'f', -1, 64))
	form.Set("Length", strconv.FormatFloat(scope.Length, 'f', -1, 64))
	form.Set("Width", strconv.FormatFloat(scope.Width, 'f', -1, 64))
	form.Set("LargeLetterCompatible", strconv.FormatBool(scope.LargeLetter))
	return c.update(ctx, "UpdateProductScope", form)
}

func (c *Client) SetProductHandlingTime(ctx context.Context, productIDs []int, days int) error {
	if days < 0 {
		return fmt.Errorf("handling time cannot be negative: %d", days)
	}
	form, err := c.productForm(productIDs...)
	if err != nil {
		return err
	}
	form.Set("HandlingTime", strconv.Itoa(days))
	return c.update(ctx, "UpdateHandlingTime", form)
}

// UpdateStockLevel sets the stock level of a product, old must match the
// level the back office currently holds.
func (c *Client) UpdateStockLevel(ctx context.Context, productID, newLevel, oldLevel int) error {
	ctx, span := tracer.Start(ctx, "client:UpdateStockLevel")
	defer span.End()

	form, err := c.productForm(productID)
	if err != nil {
		return err
	}
	form.Set("newStockLevel", strconv.Itoa(newLevel))
	form.Set("oldStockLevel", strconv.Itoa(oldLevel))
	res, err := c.core.Post(ctx, "/Handlers/Products/UpdateProductStockLevel.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to update stock level")
		return err
	}
	err = core.ExpectSuccess("UpdateProductStockLevel", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "stock level rejected")
		return err
	}
	return nil
}
