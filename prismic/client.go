// Package prismic is a small client for the Prismic REST API v2.
// It resolves the master ref, runs predicate searches with a field
// projection and follows next_page cursors.
package prismic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/spacetraveling/metrics"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "spacetraveling"
	maxErrorBody     = 4 << 10
	sourceName       = "prismic"
)

// Client queries a single Prismic repository.
type Client struct {
	endpoint    *url.URL
	accessToken string
	userAgent   string
	http        *http.Client
	timeout     time.Duration
	logger      *slog.Logger
	recorder    metrics.Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithAccessToken sets the token sent with every request.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. An injected http.Client is
// copied rather than modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client for the API endpoint, e.g.
// https://your-repo.cdn.prismic.io/api/v2.
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("prismic: parse endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("prismic: endpoint %q must be an absolute http(s) URL", endpoint)
	}
	c := &Client{
		endpoint:  u,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    slog.New(slog.DiscardHandler),
		recorder:  metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultTimeout}
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

// MasterRef returns the ref of the currently published content.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	u := *c.endpoint
	u.RawQuery = c.withToken(url.Values{}).Encode()

	var info apiInfo
	if err := c.get(ctx, "api", u.String(), &info); err != nil {
		return "", err
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", ErrNoMasterRef
}

// Query runs a search against the master ref.
func (c *Client) Query(ctx context.Context, predicates []Predicate, opts QueryOptions) (*Response, error) {
	ref, err := c.MasterRef(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ref", ref)
	if len(predicates) > 0 {
		params.Set("q", encodeQuery(predicates))
	}
	if len(opts.Fetch) > 0 {
		params.Set("fetch", strings.Join(opts.Fetch, ","))
	}
	if opts.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Orderings != "" {
		params.Set("orderings", opts.Orderings)
	}
	if opts.Lang != "" {
		params.Set("lang", opts.Lang)
	}

	u := *c.endpoint
	u.Path += "/documents/search"
	u.RawQuery = c.withToken(params).Encode()

	var resp Response
	if err := c.get(ctx, "search", u.String(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueryCursor fetches the page a previous Response.NextPage points at.
func (c *Client) QueryCursor(ctx context.Context, cursor string) (*Response, error) {
	u, err := url.Parse(cursor)
	if err != nil || u.Scheme != c.endpoint.Scheme || !strings.EqualFold(u.Host, c.endpoint.Host) ||
		!strings.HasPrefix(u.Path, c.endpoint.Path) {
		return nil, ErrForeignCursor
	}
	q := u.Query()
	if q.Get("access_token") == "" {
		u.RawQuery = c.withToken(q).Encode()
	}

	var resp Response
	if err := c.get(ctx, "cursor", u.String(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) withToken(v url.Values) url.Values {
	if c.accessToken != "" {
		v.Set("access_token", c.accessToken)
	}
	return v
}

func (c *Client) get(ctx context.Context, op, rawURL string, out any) (err error) {
	start := time.Now()
	defer func() {
		c.recorder.ObserveQuery(sourceName, op, time.Since(start), err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("prismic: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "prismic request",
		"op", op,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrUpstream, op, err)
	}
	return nil
}

// errorMessage extracts a readable message from an error body.
func errorMessage(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
