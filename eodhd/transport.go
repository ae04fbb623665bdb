package eodhd

import (
	"bufio"
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httputil"

	"github.com/matkaise/openfolio-sub000/cache"
	"github.com/matkaise/openfolio-sub000/date"
)

// cachingTransport keeps the successful responses in a store, one entry per request and per day.
type cachingTransport struct {
	base  http.RoundTripper
	store cache.Store
	today func() date.Date // nil is date.Today
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response first. If no response of the day is found, it proceeds with the actual HTTP request
// and caches the new response if it's successful.
func (c *cachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	today := date.Today
	if c.today != nil {
		today = c.today
	}
	// One key per day, so that entries expire every day.
	day := date.NewRange(today(), date.Daily).Identifier()
	key, err := cache.Fingerprint("eodhd", day, req.Method, req.URL.String())
	if err != nil {
		return nil, err
	}

	ctx := req.Context()
	if content, err := c.store.Get(ctx, key); err == nil {
		if resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req); err == nil {
			return resp, nil
		}
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	slog.Debug("eodhd", "method", req.Method, "path", req.URL.Path, "status", resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return resp, nil
	}
	if err := c.store.Set(ctx, key, content); err != nil {
		slog.Warn("eodhd cache write failed (ignored)", "err", err)
	}
	return resp, nil
}
