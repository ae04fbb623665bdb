// Package portfolio is a valuation and performance engine for personal portfolios.
//
// Given a ledger of transactions, the split and price histories of the securities, FX rate tables
// and optionally the balance histories of the cash accounts, it:
//   - Reconstructs the value, invested capital and dividends of the portfolio at every date of a
//     daily or weekly grid (ComputeHistory), replaying each timeline once with forward cursors.
//   - Values the current holdings with their cost basis and realized gains (ComputeHoldings).
//   - Derives time weighted and money weighted return series for any sub range
//     (CalculateTWRSeries, BuildMWRSeries).
//   - Computes volatility, Sharpe ratio, drawdowns and monthly returns (Analyze).
//   - Replays the portfolio cash flows into a benchmark (SynthesizeBenchmark).
//
// The engine is pure: it does no I/O, never reads the clock and returns the same output for the
// same inputs. Data gaps are worked around and reported as Warnings instead of errors.
//
// All conversions go through the pivot currency of the FX tables, EUR by default.
package portfolio
