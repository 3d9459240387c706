package core

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"ccapi/lib/testutil"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, srv *testutil.FakeServer, password string) *Client {
	client, err := NewClient(context.Background(), ClientOptions{
		BaseUrl:           srv.URL,
		Username:          testutil.FakeUsername,
		Password:          password,
		RequestsPerSecond: -1,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(context.Background(), ClientOptions{BaseUrl: "https://example.com"})
	require.NoError(t, err)
	require.Equal(t, DefaultBrandID, client.BrandID)
	require.Equal(t, "341", client.NewForm().Get("BrandID"))
	require.False(t, client.LoggedIn())

	_, err = NewClient(context.Background(), ClientOptions{BaseUrl: "not a url"})
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	defer testutil.Setup(t, "ccapi/core")()

	srv := testutil.NewFakeServer(t)
	client := newTestClient(t, srv, testutil.FakePassword)

	err := client.Login(context.Background())
	require.NoError(t, err)
	require.True(t, client.LoggedIn())
	require.Equal(t, 1, srv.Logins())
}

func TestLoginFailed(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newTestClient(t, srv, "wrong")

	err := client.Login(context.Background())
	require.ErrorIs(t, err, ErrLoginFailed)
	require.False(t, client.LoggedIn())
}

func TestLoginFormMissing(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.MissingLoginForm = true
	client := newTestClient(t, srv, testutil.FakePassword)

	err := client.Login(context.Background())
	require.ErrorIs(t, err, ErrLoginFormMissing)
}

func TestPostLogsInLazily(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Reply("/Handlers/Test/Echo.ashx", "Success")
	client := newTestClient(t, srv, testutil.FakePassword)

	form := client.NewForm()
	form.Set("Name", "Crew Neck")
	res, err := client.Post(context.Background(), "/Handlers/Test/Echo.ashx", form)
	require.NoError(t, err)
	require.NoError(t, ExpectSuccess("Echo", res))
	require.Equal(t, 1, srv.Logins())

	req := srv.Last(t, "/Handlers/Test/Echo.ashx")
	require.Equal(t, http.MethodPost, req.Method)
	require.Equal(t, "Crew Neck", req.Form.Get("Name"))
	require.Equal(t, "341", req.Form.Get("BrandID"))
	require.NotEmpty(t, req.Form.Get("d"))
}

func TestSessionRenewedOnce(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Reply("/Handlers/Test/Echo.ashx", "OK")
	client := newTestClient(t, srv, testutil.FakePassword)
	require.NoError(t, client.Login(context.Background()))

	srv.ExpireSessions()
	_, err := client.Get(context.Background(), "/Handlers/Test/Echo.ashx", nil)
	require.NoError(t, err)
	require.Equal(t, 2, srv.Logins())
	require.Len(t, srv.Requests("/Handlers/Test/Echo.ashx"), 1)
}

func TestSessionExpired(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Handle("/Handlers/Test/Expire.ashx", func(testutil.Request) testutil.Reply {
		return testutil.Reply{Redirect: "/login.aspx?ReturnUrl=%2fHandlers%2fTest%2fExpire.ashx"}
	})
	client := newTestClient(t, srv, testutil.FakePassword)

	_, err := client.Post(context.Background(), "/Handlers/Test/Expire.ashx", nil)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, 2, srv.Logins())
	require.Len(t, srv.Requests("/Handlers/Test/Expire.ashx"), 2)
}

func TestResponseError(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	client := newTestClient(t, srv, testutil.FakePassword)

	_, err := client.Get(context.Background(), "/Handlers/Test/Missing.ashx", nil)
	var resErr *ResponseError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, http.StatusNotFound, resErr.StatusCode)
	require.Equal(t, "/Handlers/Test/Missing.ashx", resErr.Handler)
}

func TestConcurrentLogin(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Reply("/Handlers/Test/Echo.ashx", "OK")
	client := newTestClient(t, srv, testutil.FakePassword)

	errs := make(chan error, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Post(context.Background(), "/Handlers/Test/Echo.ashx", nil)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, srv.Logins())
}

func TestPostMultipart(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Reply("/Handlers/Test/Upload.ashx", "Success^^77")
	client := newTestClient(t, srv, testutil.FakePassword)

	form := client.NewForm()
	form.Set("ProductID", "12")
	res, err := client.PostMultipart(context.Background(), "/Handlers/Test/Upload.ashx", form, Upload{
		Field:    "file",
		Filename: "front.jpg",
		Contents: []byte("jpeg"),
	})
	require.NoError(t, err)
	id, err := ExpectID("Upload", res)
	require.NoError(t, err)
	require.Equal(t, 77, id)

	req := srv.Last(t, "/Handlers/Test/Upload.ashx")
	require.Equal(t, "12", req.Form.Get("ProductID"))
	require.Equal(t, []byte("jpeg"), req.Files["file"])
}

func TestHandlerReplies(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Reply("/Handlers/Test/Failed.ashx", "Error^^Barcode in use")
	srv.Reply("/Handlers/Test/Empty.ashx", "")
	srv.Reply("/Handlers/Test/ID.ashx", " 4521 \n")
	client := newTestClient(t, srv, testutil.FakePassword)
	ctx := context.Background()

	res, err := client.Post(ctx, "/Handlers/Test/Failed.ashx", nil)
	require.NoError(t, err)
	err = ExpectSuccess("Failed", res)
	var handlerErr *HandlerError
	require.True(t, errors.As(err, &handlerErr))
	require.Equal(t, "Error^^Barcode in use", handlerErr.Message)

	res, err = client.Post(ctx, "/Handlers/Test/Empty.ashx", nil)
	require.NoError(t, err)
	_, err = ExpectID("Empty", res)
	require.Error(t, err)

	res, err = client.Post(ctx, "/Handlers/Test/ID.ashx", nil)
	require.NoError(t, err)
	id, err := ExpectID("ID", res)
	require.NoError(t, err)
	require.Equal(t, 4521, id)
}
