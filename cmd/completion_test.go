package cmd

import (
	"flag"
	"testing"

	"github.com/google/subcommands"
)

func TestCompletionTree(t *testing.T) {
	commands = nil
	top := flag.NewFlagSet("folio", flag.ContinueOnError)
	c := &Config{}
	c.SetFlags(top)
	Register(subcommands.NewCommander(top, "folio"), c)

	tree := completionTree(top)
	for _, name := range []string{"history", "holdings", "returns", "analysis", "benchmark", "import-yahoo", "serve", "topic"} {
		if _, ok := tree.Sub[name]; !ok {
			t.Errorf("completion tree misses subcommand %q", name)
		}
	}
	if _, ok := tree.Flags["project"]; !ok {
		t.Errorf("completion tree misses global flag -project")
	}
	if _, ok := tree.Sub["returns"].Flags["m"]; !ok {
		t.Errorf("completion tree misses returns flag -m")
	}
	if tree.Sub["topic"].Args == nil {
		t.Errorf("completion tree has no topic predictor")
	}
}
