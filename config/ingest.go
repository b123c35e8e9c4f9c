package config

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"
)

// Ingest holds the defaults a `reiz-ingest` run reads from a YAML
// config file before flag.Parse layers any overrides on top.
type Ingest struct {
	DSN                string `yaml:"dsn"`
	Dialect            string `yaml:"dialect"`
	Workers            int    `yaml:"workers"`
	HardLimit          int    `yaml:"hard_limit"`
	MaxFilesPerProject int    `yaml:"max_files_per_project"`
	FastMode           bool   `yaml:"fast_mode"`
	FastModeThreshold  int    `yaml:"fast_mode_threshold"`
	SnapshotPath       string `yaml:"snapshot_path"`
}

// LoadIngest reads path as YAML into an Ingest. A missing path is not
// an error: it returns a zero-valued Ingest, letting flags (or their
// own defaults) supply everything.
func LoadIngest(path string) (Ingest, error) {
	var cfg Ingest
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// RegisterFlags binds fs to cfg's fields, using cfg's current values
// (typically just loaded from YAML) as each flag's default, so a flag
// the caller doesn't pass leaves the YAML-loaded value untouched.
func (cfg *Ingest) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "backend data source name")
	fs.StringVar(&cfg.Dialect, "dialect", cfg.Dialect, "backend dialect: postgres, mysql, or sqlite")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "project-level worker count (0 = CPUs/2+1)")
	fs.IntVar(&cfg.HardLimit, "hard-limit", cfg.HardLimit, "stop after this many files inserted (0 = unlimited)")
	fs.IntVar(&cfg.MaxFilesPerProject, "max-files-per-project", cfg.MaxFilesPerProject, "cap files considered per project (0 = unlimited)")
	fs.BoolVar(&cfg.FastMode, "fast-mode", cfg.FastMode, "skip oversized files instead of parsing them")
	fs.IntVar(&cfg.FastModeThreshold, "fast-mode-threshold", cfg.FastModeThreshold, "fast-mode size cap in bytes (0 = default ~6KB)")
	fs.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "path to a warm-restart cache snapshot")
}
