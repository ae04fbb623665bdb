package portfolio

import (
	"strings"
	"testing"
)

const sampleChart = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "AAPL", "gmtoffset": -14400},
      "timestamp": [1735914600, 1736173800, 1736260200],
      "events": {"splits": {"1736173800": {"date": 1736173800, "numerator": 4, "denominator": 1, "splitRatio": "4:1"}}},
      "indicators": {"quote": [{"close": [243.36, null, 242.21]}]}
    }],
    "error": null
  }
}`

func TestDecodeYahooChart(t *testing.T) {
	chart, err := DecodeYahooChart(strings.NewReader(sampleChart))
	if err != nil {
		t.Fatalf("DecodeYahooChart() unexpected error: %v", err)
	}
	if chart.Symbol != "AAPL" || chart.Currency != "USD" {
		t.Errorf("DecodeYahooChart() = %s %s, want AAPL USD", chart.Symbol, chart.Currency)
	}
	if got, want := chart.Prices.Len(), 2; got != want {
		t.Fatalf("Prices.Len() = %d, want %d", got, want)
	}
	// 2025-01-03 14:30 UTC is 10:30 in New York.
	if v, ok := chart.Prices.Get(d("2025-01-03")); !ok || v != 243.36 {
		t.Errorf("Prices.Get(2025-01-03) = %v, %v, want 243.36", v, ok)
	}
	if v, ok := chart.Splits.Get(d("2025-01-06")); !ok || v != 4 {
		t.Errorf("Splits.Get(2025-01-06) = %v, %v, want 4", v, ok)
	}
}

func TestYahooChart_Merge(t *testing.T) {
	chart, err := DecodeYahooChart(strings.NewReader(sampleChart))
	if err != nil {
		t.Fatalf("DecodeYahooChart() unexpected error: %v", err)
	}
	s := &Security{ISIN: "US0378331005", Prices: series("2025-01-02", 240, "2025-01-03", 1)}
	if got, want := chart.Merge(s), 2; got != want {
		t.Errorf("Merge() = %d, want %d", got, want)
	}
	if got, want := s.Prices.Len(), 3; got != want {
		t.Errorf("Prices.Len() after Merge = %d, want %d", got, want)
	}
	if v, _ := s.Prices.Get(d("2025-01-03")); v != 243.36 {
		t.Errorf("Merge() kept %v on 2025-01-03, want the chart value", v)
	}
	if s.Currency != "USD" {
		t.Errorf("Merge() currency = %q, want USD", s.Currency)
	}
}

func TestDecodeYahooChart_Invalid(t *testing.T) {
	if _, err := DecodeYahooChart(strings.NewReader(`{"chart": {"result": []}}`)); err == nil {
		t.Errorf("DecodeYahooChart() expected an error for an empty result")
	}
}
