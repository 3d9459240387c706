package core

import (
	"bytes"
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

func cacheBuster() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Upload is a file sent with PostMultipart.
type Upload struct {
	Field    string
	Filename string
	Contents []byte
}

// Post sends form to handler as application/x-www-form-urlencoded.
func (c *Client) Post(ctx context.Context, handler string, form url.Values) (*resty.Response, error) {
	return c.do(ctx, handler, func(ctx context.Context) (*resty.Response, error) {
		return c.Http.R().
			SetContext(ctx).
			SetQueryParam("d", cacheBuster()).
			SetFormDataFromValues(form).
			Post(handler)
	})
}

// Get requests handler with query appended to the url.
func (c *Client) Get(ctx context.Context, handler string, query url.Values) (*resty.Response, error) {
	return c.do(ctx, handler, func(ctx context.Context) (*resty.Response, error) {
		return c.Http.R().
			SetContext(ctx).
			SetQueryParamsFromValues(query).
			SetQueryParam("d", cacheBuster()).
			Get(handler)
	})
}

// PostMultipart sends form and file to handler as multipart/form-data.
func (c *Client) PostMultipart(ctx context.Context, handler string, form url.Values, file Upload) (*resty.Response, error) {
	return c.do(ctx, handler, func(ctx context.Context) (*resty.Response, error) {
		return c.Http.R().
			SetContext(ctx).
			SetQueryParam("d", cacheBuster()).
			SetMultipartFormData(flatten(form)).
			SetFileReader(file.Field, file.Filename, bytes.NewReader(file.Contents)).
			Post(handler)
	})
}

func flatten(form url.Values) map[string]string {
	out := make(map[string]string, len(form))
	for key := range form {
		out[key] = form.Get(key)
	}
	return out
}

// do performs send, logging in first if needed. When the vendor redirects
// to the login page the session is renewed and send is repeated once.
func (c *Client) do(ctx context.Context, handler string, send func(ctx context.Context) (*resty.Response, error)) (*resty.Response, error) {
	ctx, span := tracer.Start(ctx, "client:request")
	defer span.End()
	span.SetAttributes(attribute.String("handler", handler))

	if !c.LoggedIn() {
		err := c.renew(ctx, c.currentSession())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to login")
			return nil, err
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		session := c.currentSession()
		res, err := send(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to make request")
			return nil, err
		}

		if isLoginRedirect(res) {
			if attempt > 0 {
				break
			}
			span.AddEvent("session expired")
			err = c.renew(ctx, session)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed to renew session")
				return nil, err
			}
			continue
		}

		if res.StatusCode() < 200 || res.StatusCode() >= 300 {
			err = &ResponseError{
				Handler:    handler,
				StatusCode: res.StatusCode(),
				Body:       res.String(),
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "unexpected status")
			return nil, err
		}
		return res, nil
	}

	span.SetStatus(codes.Error, ErrSessionExpired.Error())
	return nil, ErrSessionExpired
}
