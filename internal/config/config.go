package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input
	DataPath   string `mapstructure:"data_path" yaml:"data_path"`
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`

	// Views
	SortBy           string `mapstructure:"sort_by" yaml:"sort_by"` // key|count
	SkipMissingViews bool   `mapstructure:"skip_missing_views" yaml:"skip_missing_views"`

	// Chart
	ChartWidthIn  float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	MarkerSize    float64 `mapstructure:"marker_size" yaml:"marker_size"`

	// HTTP server
	ListenAddr      string `mapstructure:"listen_addr" yaml:"listen_addr"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
}

const (
	SortByKey   = "key"
	SortByCount = "count"
)

// Validate checks values that would otherwise fail late in the pipeline.
func (c *Global) Validate() error {
	if strings.TrimSpace(c.DataPath) == "" {
		return fmt.Errorf("data_path must not be empty")
	}
	switch c.SortBy {
	case SortByKey, SortByCount:
	default:
		return fmt.Errorf("invalid sort_by: %s (use key or count)", c.SortBy)
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if c.ChartWidthIn <= 0 || c.ChartHeightIn <= 0 {
		return fmt.Errorf("chart size must be positive, got %gx%g", c.ChartWidthIn, c.ChartHeightIn)
	}
	if c.MarkerSize <= 0 {
		return fmt.Errorf("marker_size must be positive, got %g", c.MarkerSize)
	}
	return nil
}

// ParseDelimiter maps a configured delimiter to a rune. Empty means auto-detect.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %q (use ',' | ';' | 'tab' | '|')", s)
	}
}

func defaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".trafficdash", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.trafficdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := defaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	return load(cfgFile, true)
}

// LoadFile loads defaults and the config file only, ignoring TRAFFICDASH_* env.
// It is the base that edits are saved on top of.
func LoadFile(cfgFile string) (*Global, error) {
	return load(cfgFile, false)
}

func load(cfgFile string, env bool) (*Global, error) {
	v := viper.New()
	if env {
		v.SetEnvPrefix("TRAFFICDASH")
		v.AutomaticEnv()
	}

	// Defaults
	v.SetDefault("data_path", "output.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("sort_by", SortByKey)
	v.SetDefault("skip_missing_views", true)
	v.SetDefault("chart_width_in", 6.4)
	v.SetDefault("chart_height_in", 4.8)
	v.SetDefault("marker_size", 100.0)
	v.SetDefault("listen_addr", ":8501")
	v.SetDefault("read_timeout_sec", 10)
	v.SetDefault("write_timeout_sec", 30)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := defaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read; a missing file falls back to defaults
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
