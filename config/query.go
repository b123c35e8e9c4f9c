package config

import (
	"flag"
	"os"

	"gopkg.in/yaml.v3"
)

// Query holds the defaults a `reiz-query` run reads from a YAML
// config file before flag.Parse layers any overrides on top.
type Query struct {
	DSN     string `yaml:"dsn"`
	Dialect string `yaml:"dialect"`
}

// LoadQuery reads path as YAML into a Query. A missing path returns a
// zero-valued Query rather than an error.
func LoadQuery(path string) (Query, error) {
	var cfg Query
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
// as each flag's default.
func (cfg *Query) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "backend data source name")
	fs.StringVar(&cfg.Dialect, "dialect", cfg.Dialect, "backend dialect: postgres, mysql, or sqlite")
}
