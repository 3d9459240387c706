package customers

import (
	"context"
	"testing"

	"ccapi/lib/ccapi/core"
	"ccapi/lib/testutil"

	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Client, *testutil.FakeServer) {
	t.Cleanup(testutil.Setup(t, "ccapi/customers"))

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

const searchReply = `[
	{"CustomerID": "55", "CustomerName": "Jane Smith", "Email": "jane@example.com"},
	{"CustomerID": "56", "CustomerName": "Janet Smithers", "CompanyName": "Smithers Ltd"}
]`

func TestFindCustomer(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Customers/SearchCustomers.ashx", searchReply)

	customer, err := client.FindCustomer(ctx, "jane smith")
	require.NoError(t, err)
	require.Equal(t, Customer{ID: 55, Name: "Jane Smith", Email: "jane@example.com"}, customer)
	require.Equal(t, "jane smith", srv.Last(t, "/Handlers/Customers/SearchCustomers.ashx").Form.Get("SearchText"))

	customer, err = client.FindCustomer(ctx, "Janet Smithers Ltd")
	require.NoError(t, err)
	require.Equal(t, 56, customer.ID)

	customer, err = client.FindCustomer(ctx, "Jane Smyth")
	require.NoError(t, err)
	require.Equal(t, 55, customer.ID)

	_, err = client.FindCustomer(ctx, "Oliver Twist")
	require.ErrorIs(t, err, ErrNoCustomer)
	_, err = client.FindCustomer(ctx, "John Smith")
	require.ErrorIs(t, err, ErrNoCustomer)
	_, err = client.FindCustomer(ctx, "Jane Smith 2")
	require.ErrorIs(t, err, ErrNoCustomer)

	srv.Reply("/Handlers/Customers/SearchCustomers.ashx", `[]`)
	_, err = client.FindCustomer(ctx, "Jane Smith")
	require.ErrorIs(t, err, ErrNoCustomer)
}

func TestAddCustomer(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Customers/AddCustomer.ashx", "Success^^57")

	_, err := client.AddCustomer(ctx, NewCustomer{})
	require.Error(t, err)

	id, err := client.AddCustomer(ctx, NewCustomer{Name: "Oliver Twist", Email: "oliver@example.com"})
	require.NoError(t, err)
	require.Equal(t, 57, id)
	require.Equal(t, "oliver@example.com", srv.Last(t, "/Handlers/Customers/AddCustomer.ashx").Form.Get("Email"))
}

func TestAddresses(t *testing.T) {
	client, srv := setup(t)
	ctx := context.Background()
	srv.Reply("/Handlers/Customers/GetAddresses.ashx", `[{"AddressID": "70", "FullName": "Jane Smith", "Address1": "1 High Street", "Town": "Bath", "Postcode": "ba1 1aa ", "Country": "United Kingdom"}]`)
	srv.Reply("/Handlers/Customers/AddAddress.ashx", "71")

	addresses, err := client.Addresses(ctx, 55)
	require.NoError(t, err)
	require.Equal(t, []Address{{
		ID:       70,
		Name:     "Jane Smith",
		Line1:    "1 High Street",
		Town:     "Bath",
		Postcode: "BA1 1AA",
		Country:  "United Kingdom",
	}}, addresses)

	_, err = client.AddAddress(ctx, 55, Address{Line1: "2 High Street"})
	require.Error(t, err)

	id, err := client.AddAddress(ctx, 55, Address{Line1: "2 High Street", Town: "Bath", Postcode: "BA1 1AB"})
	require.NoError(t, err)
	require.Equal(t, 71, id)
	require.Equal(t, "55", srv.Last(t, "/Handlers/Customers/AddAddress.ashx").Form.Get("CustomerID"))
}
