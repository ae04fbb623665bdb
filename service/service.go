// Package service runs the valuation engine behind a result cache.
//
// Every result is stored under a fingerprint of the inputs and of the query, so repeated reports
// over unchanged data skip the replay. The engine warnings are logged and counted.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	portfolio "github.com/matkaise/openfolio-sub000"
	"github.com/matkaise/openfolio-sub000/cache"
	"github.com/matkaise/openfolio-sub000/date"
	"github.com/matkaise/openfolio-sub000/metrics"
)

// Query selects the history a report is computed on.
type Query struct {
	Range       portfolio.RangeKey `json:"range"`
	Granularity date.Period        `json:"granularity"`
	Now         date.Date          `json:"now"`
	Portfolios  []string           `json:"portfolios,omitempty"`
}

// Service computes reports for one set of inputs.
type Service struct {
	in    portfolio.Inputs
	key   string // fingerprint of in
	store cache.Store
	log   *slog.Logger
}

// New returns a Service over in. A nil store disables caching, a nil logger uses slog.Default.
func New(in portfolio.Inputs, store cache.Store, logger *slog.Logger) (*Service, error) {
	key, err := cache.Fingerprint("inputs", in)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{in: in, key: key, store: store, log: logger}, nil
}

// Inputs returns the inputs of the service.
func (s *Service) Inputs() portfolio.Inputs { return s.in }

// History returns the history selected by q. With explicit cash accounts the invested capital is
// reconciled with the observed balances.
func (s *Service) History(ctx context.Context, q Query) ([]portfolio.HistoryPoint, error) {
	return cached(ctx, s, "history", []any{q}, func() ([]portfolio.HistoryPoint, []portfolio.Warning) {
		in := s.in.ForPortfolios(q.Portfolios...)
		points, warnings := portfolio.ComputeHistory(in, portfolio.HistoryOptions{
			Range:       q.Range,
			Granularity: q.Granularity,
			Now:         q.Now,
		})
		metrics.HistoryPoints.Observe(float64(len(points)))
		return portfolio.NormalizeFunding(points, in), warnings
	})
}

// Holdings values the current holdings with the given quotes, or with the latest known prices when
// quotes is nil.
func (s *Service) Holdings(ctx context.Context, portfolios []string, quotes map[string]float64) (portfolio.HoldingsReport, error) {
	if quotes == nil {
		quotes = LatestQuotes(s.in)
	}
	return cached(ctx, s, "holdings", []any{portfolios, quotes}, func() (portfolio.HoldingsReport, []portfolio.Warning) {
		r := portfolio.ComputeHoldings(s.in.ForPortfolios(portfolios...), quotes)
		return r, r.Warnings
	})
}

// ReturnKind selects a return model.
type ReturnKind string

const (
	TWR ReturnKind = "twr"
	MWR ReturnKind = "mwr"
)

// ParseReturnKind parses "twr" or "mwr".
func ParseReturnKind(s string) (ReturnKind, error) {
	switch k := ReturnKind(s); k {
	case TWR, MWR:
		return k, nil
	}
	return "", fmt.Errorf("unknown return model %q, want twr or mwr", s)
}

// Returns computes the return series of the history selected by q.
func (s *Service) Returns(ctx context.Context, kind ReturnKind, q Query, includeDividends bool) ([]portfolio.SeriesPoint, error) {
	points, err := s.History(ctx, q)
	if err != nil {
		return nil, err
	}
	opts := s.returnOptions(q)
	opts.IncludeDividends = includeDividends
	defer metrics.Observe("returns", time.Now())
	if kind == MWR {
		return portfolio.BuildMWRSeries(points, opts), nil
	}
	return portfolio.CalculateTWRSeries(points, opts), nil
}

func (s *Service) returnOptions(q Query) portfolio.ReturnOptions {
	return portfolio.ReturnOptions{
		Inception: s.in.ForPortfolios(q.Portfolios...).Inception(),
		FullRange: q.Range == portfolio.Max,
	}
}

// Analysis computes the analysis metrics over the full daily history up to now.
func (s *Service) Analysis(ctx context.Context, now date.Date, portfolios []string, opts portfolio.AnalysisOptions) (portfolio.AnalysisMetrics, error) {
	points, err := s.History(ctx, Query{Range: portfolio.Max, Granularity: date.Daily, Now: now, Portfolios: portfolios})
	if err != nil {
		return portfolio.AnalysisMetrics{}, err
	}
	return cached(ctx, s, "analysis", []any{now, portfolios, opts}, func() (portfolio.AnalysisMetrics, []portfolio.Warning) {
		return portfolio.Analyze(points, opts), nil
	})
}

// ErrUnknownBenchmark is returned when a benchmark is neither declared nor a known security.
var ErrUnknownBenchmark = errors.New("unknown benchmark")

// Benchmark computes the money weighted return the portfolio cash flows would have earned in the
// named benchmark, over the history selected by q.
func (s *Service) Benchmark(ctx context.Context, name string, q Query) ([]portfolio.SeriesPoint, error) {
	b, ok := s.in.Benchmark(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBenchmark, name)
	}
	points, err := s.History(ctx, q)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "benchmark", []any{name, q}, func() ([]portfolio.SeriesPoint, []portfolio.Warning) {
		return portfolio.BenchmarkMWR(b, points, s.in, s.returnOptions(q))
	})
}

// LatestQuotes returns the latest known price of every security.
func LatestQuotes(in portfolio.Inputs) map[string]float64 {
	quotes := make(map[string]float64)
	for i := range in.Securities {
		sec := &in.Securities[i]
		if sec.Prices.Len() == 0 {
			continue
		}
		_, price := sec.Prices.Latest()
		quotes[sec.ISIN] = price
	}
	return quotes
}

// cached returns the result of compute, from the cache when it was already computed for the same
// inputs and parts. Cache failures are logged and the result is computed anyway.
func cached[T any](ctx context.Context, s *Service, op string, parts []any, compute func() (T, []portfolio.Warning)) (T, error) {
	key, err := cache.Fingerprint(op, append([]any{s.key}, parts...)...)
	if err != nil {
		var zero T
		return zero, err
	}
	log := s.log.With("op", op, "key", key)

	if s.store != nil {
		data, err := s.store.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			uerr := json.Unmarshal(data, &v)
			if uerr == nil {
				metrics.Lookup(op, true)
				log.Debug("cache hit")
				return v, nil
			}
			log.Warn("discarding unreadable cache entry", "err", uerr)
		case !errors.Is(err, cache.ErrNotFound):
			log.Warn("cache lookup failed", "err", err)
		}
		metrics.Lookup(op, false)
	}

	start := time.Now()
	v, warnings := compute()
	metrics.Observe(op, start)
	log.Debug("computed", "duration", time.Since(start))
	for _, w := range warnings {
		metrics.Warnings.WithLabelValues(string(w.Kind)).Inc()
		log.Warn(w.Message, "kind", w.Kind, "subject", w.Subject)
	}

	if s.store != nil {
		data, err := json.Marshal(v)
		if err == nil {
			err = s.store.Set(ctx, key, data)
		}
		if err != nil {
			log.Warn("cache write failed", "err", err)
		}
	}
	return v, nil
}
