package renderer

import (
	"bytes"
	"fmt"
	"io"

	portfolio "github.com/matkaise/openfolio-sub000"
	md "github.com/nao1215/markdown"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// warnings writes the warnings section, only if there is any warning.
func warnings(w io.Writer, ws []portfolio.Warning) {
	ConditionalBlock(w, func(w io.Writer) bool {
		doc := md.NewMarkdown(w)
		doc.H2("Warnings")
		items := make([]string, 0, len(ws))
		for _, x := range ws {
			item := fmt.Sprintf("%s %s: %s", md.Code(string(x.Kind)), x.Subject, x.Message)
			if !x.Date.IsZero() {
				item += fmt.Sprintf(" (%s)", x.Date)
			}
			items = append(items, item)
		}
		doc.BulletList(items...)
		io.WriteString(w, doc.String()+"\n")
		return len(ws) > 0
	})
}

// right returns n right aligned columns after a left aligned one.
func right(n int) []md.TableAlignment {
	a := []md.TableAlignment{md.AlignLeft}
	for range n {
		a = append(a, md.AlignRight)
	}
	return a
}
