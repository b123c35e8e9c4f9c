// Command reiz-query runs a single structural query against a
// configured backend and prints the matches as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/reizio/reiz/config"
	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/privacy"
	"github.com/reizio/reiz/query"
	"github.com/reizio/reiz/schemagen"
	"github.com/reizio/reiz/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run always returns 0 (spec.md §6: "Query CLI: 0 always; errors are
// reported on stderr") — unlike reiz-ingest, a failed query is not a
// process-level failure the caller's exit-code handling needs to see.
func run(args []string) int {
	cfg, err := config.LoadQuery(extractConfigFlag(args))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 0
	}

	fs := flag.NewFlagSet("reiz-query", flag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	limit := fs.Int("limit", 0, "max rows to return (0 = unlimited)")
	offset := fs.Int("offset", 0, "rows to skip before the first returned match")
	maxLimit := fs.Int("max-limit", 0, "reject queries whose -limit exceeds this (0 = no cap)")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 0
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: reiz-query [-config FILE] [-limit N] [-offset N] QUERY")
		return 0
	}

	model, err := grammar.Default()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 0
	}
	fieldDB := schemagen.Generate(model)

	ctx := context.Background()
	drv, err := store.Open(ctx, cfg.Dialect, cfg.DSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 0
	}
	defer drv.Close()

	pool := store.NewPool(drv, 1)
	opts := query.Options{}
	if *limit > 0 {
		opts.Limit = limit
	}
	if *offset > 0 {
		opts.Offset = offset
	}

	var policy privacy.Policy
	if *maxLimit > 0 {
		policy = privacy.Policy{privacy.RequireLimit(*maxLimit)}
	}

	results, err := query.Run(ctx, pool, model, fieldDB, query.NewPrepared(), policy, rest[0], opts)
	if err != nil {
		slog.Error("query", "error", err)
		fmt.Fprintln(os.Stderr, err)
		return 0
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return 0
}

// extractConfigFlag scans args for -config/--config by hand, ahead of
// the flag.FlagSet that needs the YAML it names to set up the rest of
// its own flags' defaults.
func extractConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}
