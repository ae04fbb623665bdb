package portfolio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Project is the document exchanged with the persistence layer: the raw transactions and the
// market data of one or more portfolios.
type Project struct {
	BaseCurrency string           `json:"baseCurrency,omitempty"`
	Transactions []RawTransaction `json:"transactions"`
	Securities   []Security       `json:"securities"`
	CashAccounts []CashAccount    `json:"cashAccounts,omitempty"`
	Fx           FxData           `json:"fx"`
	Benchmarks   []Benchmark      `json:"benchmarks,omitempty"`
}

// DecodeProject reads a project document.
func DecodeProject(r io.Reader) (*Project, error) {
	var p Project
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding project: %w", err)
	}
	p.BaseCurrency = strings.ToUpper(p.BaseCurrency)
	p.Fx.Base = strings.ToUpper(p.Fx.Base)
	return &p, nil
}

// LoadProject reads the project document at path.
func LoadProject(path string) (*Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := DecodeProject(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// EncodeProject writes the project document, indented for version control.
func EncodeProject(w io.Writer, p *Project) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// SaveProject writes the project document at path.
func SaveProject(path string, p *Project) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeProject(f, p); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Inputs normalizes the project into engine inputs.
//
// The inputs are always returned, with an error listing the transactions that were skipped.
func (p *Project) Inputs() (Inputs, error) {
	base := p.BaseCurrency
	if base == "" {
		base = p.Fx.Base
	}
	if base == "" {
		base = DefaultPivot
	}
	txs, err := NormalizeTransactions(p.Transactions, base)
	return Inputs{
		BaseCurrency: base,
		Transactions: txs,
		Securities:   p.Securities,
		CashAccounts: p.CashAccounts,
		Fx:           p.Fx,
		Benchmarks:   p.Benchmarks,
	}, err
}

// Security returns the project security with that ISIN, adding an empty one when missing.
func (p *Project) Security(isin, currency string) *Security {
	for i := range p.Securities {
		if p.Securities[i].ISIN == isin {
			return &p.Securities[i]
		}
	}
	p.Securities = append(p.Securities, Security{ISIN: isin, Name: isin, Currency: currency})
	return &p.Securities[len(p.Securities)-1]
}

// EncodeHistory writes the points as json lines, one point per line.
func EncodeHistory(w io.Writer, points []HistoryPoint) error {
	enc := json.NewEncoder(w)
	for _, p := range points {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}
