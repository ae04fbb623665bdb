// Package eodhd fetches market data from the EOD Historical Data API (https://eodhd.com).
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/matkaise/openfolio-sub000/cache"
)

// DefaultBaseURL is the address of the EODHD API.
const DefaultBaseURL = "https://eodhd.com/api"

// Client queries the EODHD API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient returns a client for apiKey. When store is not nil, successful responses are kept in
// it for the rest of the day.
func NewClient(apiKey string, store cache.Store) *Client {
	c := &Client{apiKey: apiKey, baseURL: DefaultBaseURL, http: new(http.Client)}
	if store != nil {
		c.http.Transport = &cachingTransport{base: http.DefaultTransport, store: store}
	}
	return c
}

// WithBaseURL returns a copy of c querying another server.
func (c *Client) WithBaseURL(base string) *Client {
	x := *c
	x.baseURL = base
	return &x
}

// jwget performs an HTTP GET request on path with query and unmarshals the JSON response body
// into data.
func (c *Client) jwget(ctx context.Context, path string, query url.Values, data any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("fmt", "json")
	query.Set("api_token", c.apiKey)
	addr := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}
