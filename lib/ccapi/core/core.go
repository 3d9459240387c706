package core

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"sync"
	"time"

	"ccapi/lib/restyutil"
	"ccapi/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("ccapi/lib/ccapi/core")

const (
	DefaultBrandID           = 341
	DefaultTimeout           = time.Second * 30
	DefaultRequestsPerSecond = 5
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

type ClientOptions struct {
	BaseUrl  string
	Username string
	Password string
	// defaults to DefaultBrandID
	BrandID int
	// defaults to DefaultTimeout
	Timeout time.Duration
	// defaults to DefaultRequestsPerSecond, a negative value disables the limit
	RequestsPerSecond float64
	// wraps the transport so that requests pass the Cloudflare browser check
	CloudflareBypass bool
	// if set, request/response pairs are written here while debug logging is on
	Output restyutil.InstrumentOutput
}

type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client
	BrandID int

	username string
	password string

	loginLock sync.Mutex
	loggedIn  bool
	// incremented on every successful login
	session int
}

func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	_, span := tracer.Start(ctx, "NewClient")
	defer span.End()

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("invalid base url '%s'", opts.BaseUrl)
	}

	if opts.BrandID == 0 {
		opts.BrandID = DefaultBrandID
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}

	client := resty.New()
	client.SetBaseURL(baseUrl.String())
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("user-agent", userAgent)
	// a redirect to the login page is how the vendor reports an expired
	// session, so redirects are returned to the caller as is.
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))
	client.SetTimeout(opts.Timeout)

	if opts.RequestsPerSecond > 0 {
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(client, "ccapi/lib/ccapi/http")
	restyutil.InstrumentClient(client, opts.Output)

	return &Client{
		BaseUrl:  baseUrl,
		Http:     client,
		BrandID:  opts.BrandID,
		username: opts.Username,
		password: opts.Password,
	}, nil
}

// NewForm returns form values carrying the client's brand ID.
func (c *Client) NewForm() url.Values {
	return url.Values{
		"BrandID": {strconv.Itoa(c.BrandID)},
	}
}
