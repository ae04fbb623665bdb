// Command folio values a portfolio and reports its performance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/matkaise/openfolio-sub000/cmd"
)

func main() {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	cfg.SetFlags(flag.CommandLine)
	cmd.Register(commander, cfg)
	cmd.Complete(name, flag.CommandLine)

	flag.Parse()
	cmd.InitLogger(cfg.LogLevel, os.Stderr, false)
	os.Exit(int(commander.Execute(context.Background())))
}
