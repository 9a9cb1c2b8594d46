// Package config loads the application configuration.  Database
// credentials, the logical database map and pipeline paths live in a YAML
// file (config.yaml by default); secrets and per-host settings can be
// overridden through environment variables, which a .env file may provide
// via godotenv.  Every recognized option is an explicit typed field with a
// documented default — there are no silent string-keyed fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Logical database keys recognized in the `databases` map.  Each key
// addresses one MySQL database of the layered model.
const (
	DBStaging   = "staging"   // landing zone for raw scrapes
	DBWarehouse = "warehouse" // dimensional model (dims + facts)
	DBDatamart  = "datamart"  // read-optimized aggregates
	DBControl   = "control"   // durable run log
)

// Config holds all runtime configuration values.
type Config struct {
	MySQL     MySQLConfig       `yaml:"mysql"`     // shared connection parameters
	Databases map[string]string `yaml:"databases"` // logical key -> database name
	Pipeline  PipelineConfig    `yaml:"pipeline"`  // ETL-specific settings
}

// MySQLConfig holds the connection parameters shared by all four logical
// databases.  Only the database name differs per key.
type MySQLConfig struct {
	Host     string `yaml:"host"`     // default "localhost"
	Port     string `yaml:"port"`     // default "3306"
	User     string `yaml:"user"`     // default "root"
	Password string `yaml:"password"` // default empty; prefer MYSQL_PASSWORD
}

// PipelineConfig holds paths and endpoints used by the ETL stages.
type PipelineConfig struct {
	SourceURL         string `yaml:"source_url"`          // default "https://boxofficevietnam.com/"
	RawDataPath       string `yaml:"raw_data_path"`       // default "data/raw"
	AggregateDataPath string `yaml:"aggregate_data_path"` // default "data/aggregate"
}

// DBConfig is a resolved connection target for one logical database.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Load reads the YAML file at path, applies defaults for absent options
// and environment overrides for the MySQL credentials.  A missing file is
// an error: the database map has no safe default.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.MySQL.Host == "" {
		cfg.MySQL.Host = "localhost"
	}
	if cfg.MySQL.Port == "" {
		cfg.MySQL.Port = "3306"
	}
	if cfg.MySQL.User == "" {
		cfg.MySQL.User = "root"
	}
	if cfg.Pipeline.SourceURL == "" {
		cfg.Pipeline.SourceURL = "https://boxofficevietnam.com/"
	}
	if cfg.Pipeline.RawDataPath == "" {
		cfg.Pipeline.RawDataPath = "data/raw"
	}
	if cfg.Pipeline.AggregateDataPath == "" {
		cfg.Pipeline.AggregateDataPath = "data/aggregate"
	}

	// Environment overrides, so credentials can stay out of the file.
	cfg.MySQL.Host = getenv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getenv("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getenv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getenv("MYSQL_PASSWORD", cfg.MySQL.Password)

	if len(cfg.Databases) == 0 {
		return nil, fmt.Errorf("config %s: databases map is empty", path)
	}
	for _, key := range []string{DBStaging, DBWarehouse, DBDatamart, DBControl} {
		if cfg.Databases[key] == "" {
			return nil, fmt.Errorf("config %s: missing database name for key %q", path, key)
		}
	}
	return cfg, nil
}

// DB resolves the connection target for a logical database key.  Unknown
// keys are an error rather than a silent fallback.
func (c *Config) DB(key string) (DBConfig, error) {
	name, ok := c.Databases[key]
	if !ok || name == "" {
		return DBConfig{}, fmt.Errorf("unknown database key: %q", key)
	}
	return DBConfig{
		Host:     c.MySQL.Host,
		Port:     c.MySQL.Port,
		User:     c.MySQL.User,
		Password: c.MySQL.Password,
		Name:     name,
	}, nil
}

// getenv returns the environment value for key, or def when unset/empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
