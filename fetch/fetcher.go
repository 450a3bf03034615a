package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// ErrDisallowed is returned when robots.txt forbids fetching a URL.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Page is a fetched document. A Page is returned for every HTTP status;
// callers decide which statuses they accept.
type Page struct {
	URL        string
	StatusCode int
	Body       []byte
}

// Fetcher retrieves a single page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// StatusError reports a page that came back with an unwanted HTTP status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
}

// IsStatus reports whether err is a *StatusError carrying code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Timeout time.Duration
	// UserAgent is called once per request. Nil leaves the resty default.
	UserAgent func() string
	// CloudflareBypass wraps the transport with browser-like TLS and headers.
	CloudflareBypass bool
}

// HTTPFetcher fetches pages over one reusable resty client.
type HTTPFetcher struct {
	client    *resty.Client
	userAgent func() string
}

// NewHTTPFetcher builds a fetcher with its own connection pool and cookie handling.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := resty.New()
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	return &HTTPFetcher{client: client, userAgent: opts.UserAgent}
}

// StaticUserAgent returns a provider that always yields ua.
func StaticUserAgent(ua string) func() string {
	return func() string { return ua }
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	req := f.client.R().SetContext(ctx)
	if f.userAgent != nil {
		req.SetHeader("User-Agent", f.userAgent())
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	return &Page{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
