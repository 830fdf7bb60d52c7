package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/hyperifyio/emailextract/internal/cache"
	"github.com/hyperifyio/emailextract/internal/source"
)

// DefaultTimeout bounds a whole request: connect, headers and body.
const DefaultTimeout = 10 * time.Second

const DefaultRedirectMaxHops = 10

// Client issues single-attempt GET requests with a bounded wait. There are no
// retries.
type Client struct {
	HTTPClient *http.Client
	// UserAgent is sent only when set; otherwise Go's default applies.
	UserAgent string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
	// RedirectMaxHops is the number of redirects followed before giving up.
	// Zero means DefaultRedirectMaxHops.
	RedirectMaxHops int
	// Cache, when set, stores bodies and revalidates them with conditional
	// headers on later runs.
	Cache *cache.HTTPCache
}

// Page is a successfully fetched response body decoded to UTF-8.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
	FromCache   bool
}

// StatusError reports a final response outside the 2xx range.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return source.ErrUnreachable }

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Get fetches rawURL. Every failure wraps source.ErrUnreachable.
func (c *Client) Get(ctx context.Context, rawURL string) (Page, error) {
	var etag, lastMod string
	if c.Cache != nil {
		if meta, err := c.Cache.LoadMeta(ctx, rawURL); err == nil && meta != nil {
			etag = meta.ETag
			lastMod = meta.LastModified
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	raw, ct, status, hdr, err := c.do(ctx, rawURL, etag, lastMod)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %w", source.ErrUnreachable, err)
	}

	fromCache := false
	if status == http.StatusNotModified && c.Cache != nil {
		cached, cerr := c.Cache.LoadBody(ctx, rawURL)
		if cerr != nil {
			return Page{}, fmt.Errorf("%w: not modified but cache body missing: %w", source.ErrUnreachable, cerr)
		}
		if meta, merr := c.Cache.LoadMeta(ctx, rawURL); merr == nil && ct == "" {
			ct = meta.ContentType
		}
		raw, fromCache = cached, true
	} else if status == http.StatusNotModified {
		return Page{}, &StatusError{URL: rawURL, StatusCode: status}
	} else if c.Cache != nil {
		_ = c.Cache.Save(ctx, rawURL, ct, hdr.Get("ETag"), hdr.Get("Last-Modified"), raw)
	}

	body, err := decodeBody(raw, ct)
	if err != nil {
		return Page{}, fmt.Errorf("%w: decode body: %w", source.ErrUnreachable, err)
	}
	return Page{URL: rawURL, ContentType: ct, Body: body, FromCache: fromCache}, nil
}

func (c *Client) do(ctx context.Context, rawURL, etag, lastMod string) ([]byte, string, int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", 0, nil, fmt.Errorf("new request: %w", err)
	}
	if !isHTTPScheme(req.URL) {
		return nil, "", 0, nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if lastMod != "" {
		req.Header.Set("If-Modified-Since", lastMod)
	}

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, "", 0, nil, err
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusNotModified {
		return nil, ct, resp.StatusCode, resp.Header, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", resp.StatusCode, resp.Header, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", resp.StatusCode, resp.Header, fmt.Errorf("read body: %w", err)
	}
	return b, ct, resp.StatusCode, resp.Header, nil
}

// decodeBody converts raw to UTF-8 using the declared charset, falling back
// to sniffing <meta> tags and finally to windows-1252 as browsers do.
func decodeBody(raw []byte, contentType string) ([]byte, error) {
	// charset.NewReader reports io.EOF for an empty body; empty is valid.
	if len(raw) == 0 {
		return []byte{}, nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	limit := c.RedirectMaxHops
	if limit <= 0 {
		limit = DefaultRedirectMaxHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > limit {
			return errors.New("too many redirects")
		}
		if !isHTTPScheme(req.URL) {
			return errors.New("redirect to unsupported scheme")
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}
