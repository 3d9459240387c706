package customers

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/customers")

// MatchThreshold is the Jaro-Winkler similarity a customer's name must reach
// for FindCustomer to accept it. It allows a misspelt surname but not a
// different first name ("John Smith" scores 0.87 against "Jane Smith").
const MatchThreshold = 0.92

var ErrNoCustomer = errors.New("no matching customer")

type Client struct {
	core *core.Client
}

func NewClient(c *core.Client) *Client {
	return &Client{core: c}
}

type Customer struct {
	ID      int
	Name    string
	Company string
	Email   string
	Phone   string
}

type customerJson struct {
	ID      core.Int `json:"CustomerID"`
	Name    string   `json:"CustomerName"`
	Company string   `json:"CompanyName"`
	Email   string   `json:"Email"`
	Phone   string   `json:"Telephone"`
}

func (c customerJson) customer() Customer {
	return Customer{
		ID:      int(c.ID),
		Name:    strings.TrimSpace(c.Name),
		Company: strings.TrimSpace(c.Company),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
	}
}

func (c *Client) Search(ctx context.Context, text string) ([]Customer, error) {
	ctx, span := tracer.Start(ctx, "client:SearchCustomers")
	defer span.End()

	form := c.core.NewForm()
	form.Set("SearchText", text)
	res, err := c.core.Post(ctx, "/Handlers/Customers/SearchCustomers.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to search customers")
		return nil, err
	}
	list, err := core.DecodeJSON[[]customerJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode customers")
		return nil, err
	}

	customers := make([]Customer, len(list))
	for i, c := range list {
		customers[i] = c.customer()
	}
	span.SetAttributes(attribute.Int("results", len(customers)))
	return customers, nil
}

// FindCustomer searches for name and returns the result whose name is
// closest to it.
func (c *Client) FindCustomer(ctx context.Context, name string) (Customer, error) {
	customers, err := c.Search(ctx, name)
	if err != nil {
		return Customer{}, err
	}

	names := make([]string, len(customers))
	for i, customer := range customers {
		names[i] = customer.Name
	}
	best, score := textutil.BestMatch(name, names)
	if best < 0 || score < MatchThreshold {
		return Customer{}, fmt.Errorf("%w: '%s'", ErrNoCustomer, name)
	}
	slog.DebugContext(ctx, "matched customer", "name", name, "match", customers[best].Name, "score", score)
	return customers[best], nil
}

type NewCustomer struct {
	Name    string
	Company string
	Email   string
	Phone   string
}

func (c *Client) AddCustomer(ctx context.Context, customer NewCustomer) (int, error) {
	ctx, span := tracer.Start(ctx, "client:AddCustomer")
	defer span.End()

	if strings.TrimSpace(customer.Name) == "" {
		err := fmt.Errorf("customer name cannot be empty")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	form := c.core.NewForm()
	form.Set("CustomerName", customer.Name)
	form.Set("CompanyName", customer.Company)
	form.Set("Email", customer.Email)
	form.Set("Telephone", customer.Phone)
	res, err := c.core.Post(ctx, "/Handlers/Customers/AddCustomer.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add customer")
		return 0, err
	}
	id, err := core.ExpectID("AddCustomer", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "customer was not created")
		return 0, err
	}
	return id, nil
}

type Address struct {
	ID       int
	Name     string
	Company  string
	Line1    string
	Line2    string
	Town     string
	County   string
	Postcode string
	Country  string
}

type addressJson struct {
	ID       core.Int `json:"AddressID"`
	Name     string   `json:"FullName"`
	Company  string   `json:"Company"`
	Line1    string   `json:"Address1"`
	Line2    string   `json:"Address2"`
	Town     string   `json:"Town"`
	County   string   `json:"County"`
	Postcode string   `json:"Postcode"`
	Country  string   `json:"Country"`
}

func (c *Client) Addresses(ctx context.Context, customerID int) ([]Address, error) {
	ctx, span := tracer.Start(ctx, "client:Addresses")
	defer span.End()
	span.SetAttributes(attribute.Int("customer_id", customerID))

	res, err := c.core.Get(ctx, "/Handlers/Customers/GetAddresses.ashx", url.Values{
		"CustomerID": {strconv.Itoa(customerID)},
		"BrandID":    {strconv.Itoa(c.core.BrandID)},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch addresses")
		return nil, err
	}
	list, err := core.DecodeJSON[[]addressJson](res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode addresses")
		return nil, err
	}

	addresses := make([]Address, len(list))
	for i, a := range list {
		addresses[i] = Address{
			ID:       int(a.ID),
			Name:     strings.TrimSpace(a.Name),
			Company:  strings.TrimSpace(a.Company),
			Line1:    strings.TrimSpace(a.Line1),
			Line2:    strings.TrimSpace(a.Line2),
			Town:     strings.TrimSpace(a.Town),
			County:   strings.TrimSpace(a.County),
			Postcode: strings.ToUpper(strings.TrimSpace(a.Postcode)),
			Country:  strings.TrimSpace(a.Country),
		}
	}
	return addresses, nil
}

// AddAddress adds an address to a customer, the ID field of address is
// ignored.
func (c *Client) AddAddress(ctx context.Context, customerID int, address Address) (int, error) {
	ctx, span := tracer.Start(ctx, "client:AddAddress")
	defer span.End()

	if address.Line1 == "" || address.Postcode == "" {
		err := fmt.Errorf("an address needs at least a first line and a postcode")
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	form := c.core.NewForm()
	form.Set("CustomerID", strconv.Itoa(customerID))
	form.Set("FullName", address.Name)
	form.Set("Company", address.Company)
	form.Set("Address1", address.Line1)
	form.Set("Address2", address.Line2)
	form.Set("Town", address.Town)
	form.Set("County", address.County)
	form.Set("Postcode", address.Postcode)
	form.Set("Country", address.Country)
	res, err := c.core.Post(ctx, "/Handlers/Customers/AddAddress.ashx", form)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to add address")
		return 0, err
	}
	id, err := core.ExpectID("AddAddress", res)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "address was not created")
		return 0, err
	}
	return id, nil
}
