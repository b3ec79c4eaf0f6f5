// Package siteapi is the HTTP client for the upstream siting service: the
// curated facility catalog, the candidate location feed, and per-coordinate
// property details. Payloads are returned as decoded JSON (any) because the
// upstream schema drifts; canonicalization happens in the caller.
package siteapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	catalogPath    = "/alldatacenters"
	candidatesPath = "/api/possible-datacenters"
	detailsPath    = "/api/property-details"
)

// CandidatesCacheKey is the payload-cache key the candidate feed is read
// through. Importers write locally-sourced feeds under it so cached reads
// serve them as the live candidate list.
const CandidatesCacheKey = candidatesPath

// Client talks to the siting service.
type Client interface {
	// Catalog fetches the curated site catalog.
	Catalog(ctx context.Context) (any, error)

	// Candidates fetches the dynamic candidate location feed.
	Candidates(ctx context.Context) (any, error)

	// PropertyDetails fetches detail fields for one coordinate pair.
	PropertyDetails(ctx context.Context, lat, lng float64) (map[string]any, error)
}

// PayloadCache stores raw response bodies keyed by request. Implementations
// decide freshness; a miss is (nil, false, nil).
type PayloadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte) error
}

// Option configures the client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps requests per second against the upstream.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithCache reads responses through the given payload cache.
func WithCache(cache PayloadCache) Option {
	return func(c *client) {
		c.cache = cache
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      PayloadCache
}

// NewClient creates a siting-service client for the given base URL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Catalog(ctx context.Context) (any, error) {
	return c.getAny(ctx, catalogPath, nil)
}

func (c *client) Candidates(ctx context.Context) (any, error) {
	return c.getAny(ctx, candidatesPath, nil)
}

func (c *client) PropertyDetails(ctx context.Context, lat, lng float64) (map[string]any, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}

	payload, err := c.getAny(ctx, detailsPath, params)
	if err != nil {
		return nil, err
	}

	details, ok := payload.(map[string]any)
	if !ok {
		return nil, eris.Wrapf(ErrSchema, "siteapi: details for (%f, %f) is not an object", lat, lng)
	}
	return details, nil
}

// getAny fetches and decodes one endpoint, consulting the payload cache
// first when one is configured.
func (c *client) getAny(ctx context.Context, path string, params url.Values) (any, error) {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if c.cache != nil {
		if body, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			return decode(body, key)
		}
	}

	body, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	payload, err := decode(body, key)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		// Cache writes are best effort; a failed write never fails the read.
		_ = c.cache.Put(ctx, key, body)
	}
	return payload, nil
}

func (c *client) fetch(ctx context.Context, pathAndQuery string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "siteapi: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathAndQuery, nil)
	if err != nil {
		return nil, eris.Wrap(err, "siteapi: build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrapf(ErrTransport, "siteapi: %s: %v", pathAndQuery, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrTransport, "siteapi: %s returned status %d", pathAndQuery, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(ErrTransport, "siteapi: %s read body: %v", pathAndQuery, err)
	}
	return body, nil
}

func decode(body []byte, key string) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, eris.Wrapf(ErrEmpty, "siteapi: %s", key)
	}

	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, eris.Wrapf(ErrSchema, "siteapi: %s: %v", key, err)
	}
	return payload, nil
}
