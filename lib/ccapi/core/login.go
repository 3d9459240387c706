package core

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ccapi/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const loginPage = "/login.aspx"

func isLoginRedirect(res *resty.Response) bool {
	if res.StatusCode() < 300 || res.StatusCode() >= 400 {
		return false
	}
	location := strings.ToLower(res.Header().Get("Location"))
	return strings.Contains(location, "login.aspx")
}

// LoggedIn reports whether a login has succeeded on this client.
func (c *Client) LoggedIn() bool {
	c.loginLock.Lock()
	defer c.loginLock.Unlock()
	return c.loggedIn
}

func (c *Client) currentSession() int {
	c.loginLock.Lock()
	defer c.loginLock.Unlock()
	return c.session
}

// Login posts the login form, replacing any existing session.
func (c *Client) Login(ctx context.Context) error {
	c.loginLock.Lock()
	defer c.loginLock.Unlock()
	return c.login(ctx)
}

// renew logs in again unless another caller already replaced the session
// identified by previous.
func (c *Client) renew(ctx context.Context, previous int) error {
	c.loginLock.Lock()
	defer c.loginLock.Unlock()
	if c.loggedIn && c.session != previous {
		return nil
	}
	return c.login(ctx)
}

// must be called with loginLock held
func (c *Client) login(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "client:Login")
	defer span.End()

	c.loggedIn = false

	res, err := c.Http.R().
		SetContext(ctx).
		Get(loginPage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	if res.IsError() {
		err = &ResponseError{Handler: loginPage, StatusCode: res.StatusCode(), Body: res.String()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch login page")
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse login page")
		return err
	}

	form := doc.Find("form").First()
	fields := htmlutil.HiddenInputs(form)
	if fields.Get("__VIEWSTATE") == "" {
		span.SetStatus(codes.Error, ErrLoginFormMissing.Error())
		return ErrLoginFormMissing
	}
	fields.Set("txtusername", c.username)
	fields.Set("txtpassword", c.password)
	fields.Set("btnlogin", form.Find("[name=btnlogin]").AttrOr("value", "Login"))

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(fields).
		Post(loginPage)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post login form")
		return err
	}

	switch {
	case res.StatusCode() >= 300 && res.StatusCode() < 400 && !isLoginRedirect(res):
	case res.StatusCode() >= 400:
		err = &ResponseError{Handler: loginPage, StatusCode: res.StatusCode(), Body: res.String()}
		span.RecordError(err)
		span.SetStatus(codes.Error, "login form rejected")
		return err
	default:
		span.SetStatus(codes.Error, ErrLoginFailed.Error())
		return fmt.Errorf("%w (status %d)", ErrLoginFailed, res.StatusCode())
	}

	c.loggedIn = true
	c.session++
	slog.DebugContext(ctx, "logged in", "base_url", c.BaseUrl.String(), "session", c.session)
	return nil
}
