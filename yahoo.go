package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/matkaise/openfolio-sub000/date"
)

// YahooChart is the content of a Yahoo Finance chart document.
type YahooChart struct {
	Symbol   string
	Currency string
	Prices   date.History[float64]
	Splits   date.History[float64]
}

/*
	{
	  "chart": {
	    "result": [{
	      "meta": {"currency": "USD", "symbol": "AAPL", "gmtoffset": -14400},
	      "timestamp": [1718025000, 1718111400],
	      "events": {"splits": {"1598880600": {"date": 1598880600, "numerator": 4, "denominator": 1}}},
	      "indicators": {"quote": [{"close": [193.12, null]}]}
	    }],
	    "error": null
	  }
	}
*/

// DecodeYahooChart extracts the split adjusted closes and the splits of a chart document.
// Days without close are skipped.
func DecodeYahooChart(r io.Reader) (*YahooChart, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("decoding yahoo chart: %w", err)
	}
	chart := new(YahooChart)
	chart.Symbol, _ = firstMatch[string](jobj, "$.chart.result[0].meta.symbol")
	chart.Currency, _ = firstMatch[string](jobj, "$.chart.result[0].meta.currency")
	offset, _ := firstMatch[float64](jobj, "$.chart.result[0].meta.gmtoffset")

	day := func(ts float64) date.Date {
		return date.Of(time.Unix(int64(ts)+int64(offset), 0).UTC())
	}

	timestamps, err := jsonpath.Get("$.chart.result[0].timestamp", jobj)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart without timestamps: %w", err)
	}
	closes, err := jsonpath.Get("$.chart.result[0].indicators.quote[0].close", jobj)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart without closes: %w", err)
	}
	ts, _ := timestamps.([]any)
	cs, _ := closes.([]any)
	if len(ts) != len(cs) {
		return nil, fmt.Errorf("yahoo chart has %d timestamps for %d closes", len(ts), len(cs))
	}
	for i := range ts {
		t, okT := ts[i].(float64)
		c, okC := cs[i].(float64)
		if !okT || !okC || c <= 0 {
			continue
		}
		chart.Prices.Append(day(t), c)
	}
	if chart.Prices.Len() == 0 {
		return nil, fmt.Errorf("yahoo chart for %q has no close", chart.Symbol)
	}

	// Splits are optional.
	if splits, err := jsonpath.Get("$.chart.result[0].events.splits[*]", jobj); err == nil {
		list, _ := splits.([]any)
		for _, s := range list {
			m, ok := s.(map[string]any)
			if !ok {
				continue
			}
			t, _ := m["date"].(float64)
			num, _ := m["numerator"].(float64)
			den, _ := m["denominator"].(float64)
			if t == 0 || num <= 0 || den <= 0 {
				continue
			}
			chart.Splits.Append(day(t), num/den)
		}
	}
	return chart, nil
}

// firstMatch returns the first value at path, because jsonpath is never clear about whether it returns
// a list of 1 answer, or a single answer.
func firstMatch[T any](jobj any, path string) (T, bool) {
	var zero T
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return zero, false
	}
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	v, ok := jval.(T)
	return v, ok
}

// Merge adds the chart prices and splits into the security, chart values win on common dates.
// It returns the number of prices merged.
func (c *YahooChart) Merge(s *Security) int {
	n := 0
	for on, v := range c.Prices.Values() {
		s.Prices.Append(on, v)
		n++
	}
	for on, v := range c.Splits.Values() {
		s.Splits.Append(on, v)
	}
	if s.Currency == "" {
		s.Currency = c.Currency
	}
	return n
}
