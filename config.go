package envedit

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultBroadcastTimeout bounds how long a change broadcast waits for
// recipients before giving up.
const DefaultBroadcastTimeout = 100 * time.Millisecond

// Config holds the settings a host process reads from its environment.
type Config struct {
	PathVariable     string        `env:"EDITENV_PATH_VARIABLE"     envDefault:"Path"`
	BroadcastTimeout time.Duration `env:"EDITENV_BROADCAST_TIMEOUT" envDefault:"100ms"`
	RuleEngine       string        `env:"EDITENV_RULE_ENGINE"       envDefault:"expr"`
	LogLevel         string        `env:"EDITENV_LOG_LEVEL"         envDefault:"info"`
	ActivityChannel  string        `env:"EDITENV_ACTIVITY_CHANNEL"  envDefault:"environment"`
	LogJournal       bool          `env:"EDITENV_LOG_JOURNAL"`
	Store            string        `env:"EDITENV_STORE"             envDefault:"registry"`
	StorePath        string        `env:"EDITENV_STORE_PATH"`
}

const (
	StoreRegistry = "registry"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		PathVariable:     PathVariable,
		BroadcastTimeout: DefaultBroadcastTimeout,
		RuleEngine:       EngineExpr,
		LogLevel:         "info",
		ActivityChannel:  "environment",
		Store:            StoreRegistry,
	}
}

// LoadConfigFromEnv parses Config from EDITENV_* variables.
func LoadConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("envedit: parse env: %w", err)
	}
	if strings.TrimSpace(cfg.PathVariable) == "" {
		cfg.PathVariable = PathVariable
	}
	if cfg.BroadcastTimeout <= 0 {
		cfg.BroadcastTimeout = DefaultBroadcastTimeout
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	switch cfg.Store {
	case "":
		cfg.Store = StoreRegistry
	case StoreRegistry, StoreMemory:
	case StoreSQLite:
		if strings.TrimSpace(cfg.StorePath) == "" {
			return DefaultConfig(), fmt.Errorf("envedit: EDITENV_STORE_PATH is required for the sqlite store")
		}
	default:
		return DefaultConfig(), fmt.Errorf("envedit: unknown store %q", cfg.Store)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options converts the configuration into editor options.
func (c Config) Options() []Option {
	return []Option{WithPathVariable(c.PathVariable)}
}
