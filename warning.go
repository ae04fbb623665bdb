package portfolio

import (
	"fmt"

	"github.com/matkaise/openfolio-sub000/date"
)

// WarningKind classifies the data gaps the engine worked around.
type WarningKind string

const (
	MissingFx       WarningKind = "missing-fx"
	FxBeforeHistory WarningKind = "fx-before-history"
	InvalidFx       WarningKind = "invalid-fx"
	MissingPrice    WarningKind = "missing-price"
	PriceBefore     WarningKind = "price-before-history"
	MissingQuote    WarningKind = "missing-quote"
	InvalidSplit    WarningKind = "invalid-split"
	UnknownSecurity WarningKind = "unknown-security"
)

// Warning reports a fallback the engine applied instead of failing.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Subject string      `json:"subject"`
	Date    date.Date   `json:"date"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Kind, w.Subject, w.Message)
}

// diagnostics collects warnings, keeping the first occurrence of each kind and subject.
type diagnostics struct {
	list []Warning
	seen map[string]bool
}

func (d *diagnostics) add(kind WarningKind, subject string, on date.Date, format string, args ...any) {
	key := string(kind) + "/" + subject
	if d.seen[key] {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	d.seen[key] = true
	d.list = append(d.list, Warning{Kind: kind, Subject: subject, Date: on, Message: fmt.Sprintf(format, args...)})
}

func (d *diagnostics) warnings() []Warning { return d.list }
