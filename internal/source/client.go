// Package source reads the external catalog API. Every endpoint returns a
// JSON array of objects; records keep their original bytes for lineage.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/fakestore-raw-loader/internal/domain/batch"
)

// SourceSystem names the origin of records fetched by this package.
const SourceSystem = "FakeStoreAPI"

// Endpoints served by the catalog API.
const (
	EndpointUsers    = "users"
	EndpointProducts = "products"
	EndpointCarts    = "carts"
)

// maxBodySize bounds a single response body.
const maxBodySize = 64 << 20

// FetchError indicates a failed read from a source endpoint: transport
// failure, timeout, unacceptable status, or a body of unexpected shape.
type FetchError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Archiver keeps a copy of every fetched body.
type Archiver interface {
	Save(ctx context.Context, batchID, name string, body []byte) error
}

// Config holds the source API settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client fetches records from the catalog API. It performs exactly one
// request per call and never retries.
type Client struct {
	baseURL string
	http    *http.Client
	archive Archiver
}

// NewClient returns a Client. A nil rt uses http.DefaultTransport; a nil
// archive disables archiving.
func NewClient(cfg Config, rt http.RoundTripper, archive Archiver) *Client {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Transport: rt,
			Timeout:   cfg.Timeout,
		},
		archive: archive,
	}
}

// fetch performs a single GET of endpoint and splits the body into records.
func (c *Client) fetch(ctx context.Context, endpoint string) ([]jx.Raw, error) {
	u, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: errors.Wrap(err, "build url")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: errors.Wrap(err, "create request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: errors.Wrap(err, "send request")}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Err:        errors.New("unacceptable response status"),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: errors.Wrap(err, "read body")}
	}
	if len(body) > maxBodySize {
		return nil, &FetchError{Endpoint: endpoint, Err: errors.Errorf("body exceeds %d bytes", maxBodySize)}
	}

	if c.archive != nil {
		if err := c.archive.Save(ctx, batch.IDFromContext(ctx), endpoint, body); err != nil {
			return nil, &FetchError{Endpoint: endpoint, Err: errors.Wrap(err, "archive body")}
		}
	}

	records, err := splitArray(body)
	if err != nil {
		return nil, &FetchError{Endpoint: endpoint, Err: err}
	}
	return records, nil
}

// decodeAll fetches endpoint and decodes each record with fn.
func decodeAll[T any](ctx context.Context, c *Client, endpoint string, fn func(jx.Raw) (T, error)) ([]T, error) {
	records, err := c.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for i, r := range records {
		v, err := fn(r)
		if err != nil {
			return nil, &FetchError{Endpoint: endpoint, Err: errors.Wrapf(err, "decode record %d", i)}
		}
		out = append(out, v)
	}
	return out, nil
}

// Users fetches all customer records.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	return decodeAll(ctx, c, EndpointUsers, decodeUser)
}

// Products fetches all product records and the price book built from them.
func (c *Client) Products(ctx context.Context) ([]Product, PriceBook, error) {
	products, err := decodeAll(ctx, c, EndpointProducts, decodeProduct)
	if err != nil {
		return nil, nil, err
	}
	return products, NewPriceBook(products), nil
}

// Carts fetches all cart records.
func (c *Client) Carts(ctx context.Context) ([]Cart, error) {
	return decodeAll(ctx, c, EndpointCarts, decodeCart)
}
