package cmd

import (
	"flag"
	"io"

	"github.com/matkaise/openfolio-sub000/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of the flags whose values are known.
var predictors = map[string]complete.Predictor{
	"project":   predict.Files("*.json"),
	"cache":     predict.Files("*"),
	"log-level": predict.Set{"debug", "info", "warn", "error"},
	"r":         predict.Set{"1M", "6M", "YTD", "1Y", "3Y", "5Y", "MAX"},
	"g":         predict.Set{"daily", "weekly"},
	"m":         predict.Set{"twr", "mwr"},
}

// Complete answers the shell completion requests for the program name, and exits when it did.
// It must be called after Register and before parsing the flags.
//
// Install it with COMP_INSTALL=1 folio.
func Complete(name string, top *flag.FlagSet) {
	completionTree(top).Complete(name)
}

// completionTree describes the subcommands and their flags.
func completionTree(top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(top),
	}
	for _, c := range commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		f.SetOutput(io.Discard)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f)}
		if c.Name() == "topic" {
			sub.Args = predict.Set(topicNames())
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	m := map[string]complete.Predictor{}
	f.VisitAll(func(fl *flag.Flag) {
		p, ok := predictors[fl.Name]
		switch {
		case ok:
		case isBool(fl):
			p = predict.Nothing
		default:
			p = predict.Something
		}
		m[fl.Name] = p
	})
	return m
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

func topicNames() []string {
	names, err := docs.GetAllTopics()
	if err != nil {
		return nil
	}
	return append(names, "readme", "*")
}
