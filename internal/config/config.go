package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/tally-dev/tally/internal/categories"
	"github.com/tally-dev/tally/internal/ledgerfile"
	"github.com/tally-dev/tally/internal/model"
)

// FileName is the default name of the config file.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration. Fields with an
// env tag can be overridden from the environment.
type Config struct {
	Ledger     LedgerConfig     `yaml:"ledger"`
	Categories CategoriesConfig `yaml:"categories"`
	Log        LogConfig        `yaml:"log"`
	Git        GitConfig        `yaml:"git"`
}

// LedgerConfig locates the ledger file and picks its layout.
type LedgerConfig struct {
	File   string `yaml:"file" env:"TALLY_FILE"`     // relative paths resolve against the config's directory
	Schema string `yaml:"schema" env:"TALLY_SCHEMA"` // "categorized" or "basic"
}

// CategoriesConfig lists the categories offered for each kind.
type CategoriesConfig struct {
	Strict  bool     `yaml:"strict"`
	Expense []string `yaml:"expense"`
	Income  []string `yaml:"income"`
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string `yaml:"level" env:"TALLY_LOG_LEVEL"`
}

// GitConfig controls snapshot commits of the ledger file.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"TALLY_GIT_AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when the file does not
// exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			File:   "transactions.csv",
			Schema: ledgerfile.Categorized.String(),
		},
		Categories: CategoriesConfig{
			Expense: categories.DefaultExpense(),
			Income:  categories.DefaultIncome(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
	}
}

// LoadDotEnv loads variables from a .env file into the process
// environment without overriding ones already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any TALLY_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Validate checks that the schema and log level are recognised.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Ledger.File) == "" {
		problems = append(problems, "ledger.file must not be empty")
	}
	if _, err := ledgerfile.ParseSchema(c.Ledger.Schema); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Log.Level != "" {
		if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Schema returns the configured ledger layout.
func (c *Config) Schema() ledgerfile.Schema {
	s, _ := ledgerfile.ParseSchema(c.Ledger.Schema)
	return s
}

// LedgerPath resolves the ledger file against the directory of configPath.
func (c *Config) LedgerPath(configPath string) string {
	if filepath.IsAbs(c.Ledger.File) {
		return c.Ledger.File
	}
	return filepath.Join(filepath.Dir(configPath), c.Ledger.File)
}

// Catalog builds the category catalog described by the config.
func (c *Config) Catalog() *categories.Catalog {
	return categories.New(map[model.Kind][]string{
		model.KindExpense: c.Categories.Expense,
		model.KindIncome:  c.Categories.Income,
	}, c.Categories.Strict)
}
