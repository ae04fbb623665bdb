package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	portfolio "github.com/matkaise/openfolio-sub000"
	md "github.com/nao1215/markdown"
)

// AnalysisMarkdown renders the risk and return metrics, and the monthly returns grid.
func AnalysisMarkdown(m portfolio.AnalysisMetrics) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Analysis")
	maxDrawdown := m.MaxDrawdown.SignedString()
	if !m.MaxDrawdownDate.IsZero() {
		maxDrawdown += fmt.Sprintf(" (%s)", m.MaxDrawdownDate)
	}
	doc.Table(md.TableSet{
		Alignment: right(1),
		Header:    []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Return", m.TotalReturn.SignedString()},
			{"Annualized Return", m.AnnualizedReturn.SignedString()},
			{"Volatility", m.Volatility.String()},
			{"Sharpe Ratio", strconv.FormatFloat(m.SharpeRatio, 'f', 2, 64)},
			{"Max Drawdown", maxDrawdown},
		},
	})

	if len(m.AvailableYears) == 0 {
		return doc.String()
	}
	doc.H2("Monthly Returns")
	header := []string{"Year"}
	for month := time.January; month <= time.December; month++ {
		header = append(header, month.String()[:3])
	}
	table := md.TableSet{Alignment: right(12), Header: header, Rows: [][]string{}}
	for _, year := range m.AvailableYears {
		row := []string{strconv.Itoa(year)}
		for month := 1; month <= 12; month++ {
			cell := ""
			if p, ok := m.MonthlyReturns[fmt.Sprintf("%d-%02d", year, month)]; ok {
				cell = p.SignedString()
			}
			row = append(row, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}
