// Package config loads and validates the depviz TOML configuration, with
// environment variable overrides for deployment settings and credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that unmarshals from TOML strings like "1h"
// or "90s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Config struct {
	Jira   Jira   `toml:"jira"`
	Cache  Cache  `toml:"cache"`
	Build  Build  `toml:"build"`
	Server Server `toml:"server"`
	Log    Log    `toml:"log"`
}

type Jira struct {
	Server   string `toml:"server"`
	Email    string `toml:"email"`
	APIToken string `toml:"api_token"`

	// Custom field names for dates and estimates; instance-specific.
	StartDateField   string `toml:"start_date_field"`
	EndDateField     string `toml:"end_date_field"`
	StoryPointsField string `toml:"story_points_field"`

	Timeout    Duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
}

type Cache struct {
	// Backend selects the durable store: "file" or "sqlite".
	Backend    string   `toml:"backend"`
	Dir        string   `toml:"dir"`  // file backend root
	Path       string   `toml:"path"` // sqlite database path
	DefaultTTL Duration `toml:"default_ttl"`
}

type Build struct {
	MaxDepth   int `toml:"max_depth"`
	Workers    int `toml:"workers"`
	MaxResults int `toml:"max_results"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Log struct {
	Level      string `toml:"level"`
	FetchCalls bool   `toml:"fetch_calls"`
}

// Default returns the baseline configuration. Credentials are empty and
// must come from the file or environment.
func Default() Config {
	return Config{
		Jira: Jira{
			StartDateField:   "customfield_10015",
			EndDateField:     "customfield_10016",
			StoryPointsField: "customfield_10005",
			Timeout:          Duration{15 * time.Second},
			MaxRetries:       1,
		},
		Cache: Cache{
			Backend:    "file",
			Dir:        "cache",
			Path:       "cache/depviz.db",
			DefaultTTL: Duration{time.Hour},
		},
		Build: Build{
			MaxDepth:   10,
			Workers:    4,
			MaxResults: 50,
		},
		Server: Server{Addr: "127.0.0.1:8000"},
		Log:    Log{Level: "info"},
	}
}

// Load reads configuration from path (skipped when the file does not
// exist), then applies DEPVIZ_* environment overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DEPVIZ_JIRA_SERVER"); v != "" {
		cfg.Jira.Server = v
	}
	if v := os.Getenv("DEPVIZ_JIRA_EMAIL"); v != "" {
		cfg.Jira.Email = v
	}
	if v := os.Getenv("DEPVIZ_JIRA_API_TOKEN"); v != "" {
		cfg.Jira.APIToken = v
	}
	if v := os.Getenv("DEPVIZ_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("DEPVIZ_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("DEPVIZ_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("DEPVIZ_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Cache.DefaultTTL = Duration{d}
		}
	}
	if v := os.Getenv("DEPVIZ_BUILD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Build.Workers = n
		}
	}
	if v := os.Getenv("DEPVIZ_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DEPVIZ_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DEPVIZ_LOG_FETCH_CALLS"); v != "" {
		cfg.Log.FetchCalls, _ = strconv.ParseBool(v)
	}
}

// Validate rejects settings that would fail at first use.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("cache backend must be \"file\" or \"sqlite\", got %q", c.Cache.Backend)
	}
	if c.Build.MaxDepth < 1 {
		return fmt.Errorf("build max_depth must be at least 1, got %d", c.Build.MaxDepth)
	}
	if c.Build.Workers < 1 {
		return fmt.Errorf("build workers must be at least 1, got %d", c.Build.Workers)
	}
	if c.Build.MaxResults < 1 {
		return fmt.Errorf("build max_results must be at least 1, got %d", c.Build.MaxResults)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}
