// Command reiz-ingest runs the ingest pipeline over a dataset file
// against a configured backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reizio/reiz"
	"github.com/reizio/reiz/config"
	"github.com/reizio/reiz/grammar"
	"github.com/reizio/reiz/ingest"
	"github.com/reizio/reiz/schemagen"
	"github.com/reizio/reiz/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// The config path has to be known before the rest of the flags are
	// registered, since the YAML it names supplies their defaults — so
	// it's pulled out of args by hand ahead of the real flag.Parse.
	cfg, err := config.LoadIngest(extractConfigFlag(args))
	if err != nil {
		slog.Error("load config", "error", err)
		return 2
	}

	fs := flag.NewFlagSet("reiz-ingest", flag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	root := fs.String("root", ".", "root directory each project's files are resolved under")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "usage: reiz-ingest [-config FILE] [-root DIR] DATASET.json")
		return 2
	}

	datasetPath := rest[0]
	dataset, err := loadDataset(datasetPath)
	if err != nil {
		slog.Error("load dataset", "path", datasetPath, "error", err)
		return 2
	}

	model, err := grammar.Default()
	if err != nil {
		slog.Error("load grammar", "error", err)
		return 1
	}
	fieldDB := schemagen.Generate(model)

	ctx := context.Background()
	drv, err := store.Open(ctx, cfg.Dialect, cfg.DSN)
	if err != nil {
		slog.Error("open backend", "error", err)
		return 2
	}
	defer drv.Close()

	pool := store.NewPool(drv, cfg.Workers)
	caches, err := loadCaches(ctx, cfg, drv)
	if err != nil {
		slog.Error("load caches", "error", err)
		return 2
	}

	ing := ingest.NewDriver(pool, caches, model, fieldDB)
	opts := ingest.Options{
		Workers:            cfg.Workers,
		HardLimit:          cfg.HardLimit,
		MaxFilesPerProject: cfg.MaxFilesPerProject,
		FastMode:           cfg.FastMode,
		FastModeThreshold:  cfg.FastModeThreshold,
	}

	files := func(_ context.Context, project reiz.Project) ([]string, error) {
		return walkProjectFiles(filepath.Join(*root, project.Name))
	}

	stats, err := ingest.Ingest(ctx, ing, dataset, files, opts)
	if cfg.SnapshotPath != "" {
		if serr := caches.SaveSnapshot(cfg.SnapshotPath); serr != nil {
			slog.Error("save cache snapshot", "error", serr)
		}
	}
	if err != nil {
		slog.Error("ingest", "error", err)
		return 1
	}

	slog.Info("ingest complete", "inserted", stats.Inserted, "cached", stats.Cached, "skipped", stats.Skipped, "failed", stats.Failed)
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

func loadDataset(path string) (reiz.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dataset reiz.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, err
	}
	return dataset, nil
}

func loadCaches(ctx context.Context, cfg config.Ingest, drv *store.Driver) (*store.Caches, error) {
	if cfg.SnapshotPath != "" {
		if caches, err := store.LoadSnapshot(cfg.SnapshotPath); err == nil {
			return caches, nil
		}
	}
	caches := store.NewCaches()
	if err := caches.Refresh(ctx, drv); err != nil {
		return nil, err
	}
	return caches, nil
}

func walkProjectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".go" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
