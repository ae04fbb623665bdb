package renderer

import (
	"bytes"
	"fmt"

	portfolio "github.com/matkaise/openfolio-sub000"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders a portfolio history in base currency.
func HistoryMarkdown(base string, points []portfolio.HistoryPoint, ws []portfolio.Warning) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(points) == 0 {
		doc.H1("History")
		doc.PlainText("No transactions.")
		return doc.String()
	}
	doc.H1(fmt.Sprintf("History from %s to %s", points[0].Date, points[len(points)-1].Date))

	table := md.TableSet{
		Alignment: right(4),
		Header:    []string{"Date", "Value", "Invested", "Gain", "Dividends"},
		Rows:      [][]string{},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			p.Date.String(),
			portfolio.M(p.Value, base).String(),
			portfolio.M(p.Invested, base).String(),
			portfolio.M(p.Value-p.Invested, base).SignedString(),
			portfolio.M(p.Dividend, base).String(),
		})
	}
	doc.Table(table)

	out := bytes.NewBufferString(doc.String() + "\n")
	warnings(out, ws)
	return out.String()
}

// SeriesMarkdown renders a cumulative return series.
func SeriesMarkdown(title string, series []portfolio.SeriesPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	if len(series) == 0 {
		doc.PlainText("No data.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: right(1),
		Header:    []string{"Date", "Return"},
		Rows:      [][]string{},
	}
	for _, p := range series {
		table.Rows = append(table.Rows, []string{p.Date.String(), p.Value.SignedString()})
	}
	doc.Table(table)
	return doc.String()
}
