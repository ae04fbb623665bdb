package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	portfolio "github.com/matkaise/openfolio-sub000"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the current holdings, largest first.
func HoldingsMarkdown(r portfolio.HoldingsReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Holdings")
	doc.Table(md.TableSet{
		Alignment: right(1),
		Header:    []string{md.Bold("Total Value"), md.Bold(portfolio.M(r.Value, r.Base).String())},
		Rows: [][]string{
			{"Invested", portfolio.M(r.Invested, r.Base).String()},
			{"Unrealized Gain", portfolio.M(r.Value-r.Invested, r.Base).SignedString()},
			{"Realized Gain", portfolio.M(r.RealizedPnL, r.Base).SignedString()},
		},
	})

	if len(r.Holdings) > 0 {
		doc.H2("Positions")
		table := md.TableSet{
			Alignment: right(6),
			Header:    []string{"Security", "Quantity", "Price", "Value", "Invested", "Return", "Return %"},
			Rows:      [][]string{},
		}
		for _, h := range r.Holdings {
			name := h.ISIN
			if h.Name != "" && h.Name != h.ISIN {
				name = fmt.Sprintf("%s (%s)", h.Name, h.ISIN)
			}
			price := portfolio.M(h.Price, h.Currency).String()
			if h.PriceSource == portfolio.AveragePrice {
				price += "*"
			}
			table.Rows = append(table.Rows, []string{
				name,
				strconv.FormatFloat(h.Quantity, 'f', -1, 64),
				price,
				portfolio.M(h.Value, r.Base).String(),
				portfolio.M(h.InvestedBase, r.Base).String(),
				portfolio.M(h.TotalReturn, r.Base).SignedString(),
				h.TotalReturnPct.SignedString(),
			})
		}
		doc.Table(table)
		doc.PlainText("Prices marked with * are average buy prices, no quote was available.")
	}

	out := bytes.NewBufferString(doc.String() + "\n")
	warnings(out, r.Warnings)
	return out.String()
}
