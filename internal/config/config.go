// internal/config/config.go
//
// Process configuration.
// Values come from the environment (optionally seeded from a .env file)
// and are parsed once into a typed Config. Custom game modes may be added
// from a YAML file named by COWBULL_MODES.

package config

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/cowbull-server/internal/game"
	"github.com/robalobadob/cowbull-server/internal/store"
)

// Config is the full server configuration.
type Config struct {
	Port     string `env:"PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Persister     string `env:"PERSISTER" envDefault:"memory"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"cowbull:game:"`
	RedisLock     bool   `env:"REDIS_LOCK" envDefault:"false"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./data/cowbull.db"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	FileDir       string `env:"FILE_DIR" envDefault:"/tmp"`

	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	ModesFile      string        `env:"COWBULL_MODES"`
	ClientOrigin   string        `env:"CLIENT_ORIGIN" envDefault:"*"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// descriptions documents each variable for the env command.
var descriptions = map[string]string{
	"PORT":            "HTTP listen port",
	"LOG_LEVEL":       "zerolog level: trace, debug, info, warn, error",
	"PERSISTER":       "session store: memory, redis, sqlite, postgres or file",
	"REDIS_HOST":      "redis host (PERSISTER=redis)",
	"REDIS_PORT":      "redis port (PERSISTER=redis)",
	"REDIS_DB":        "redis database number (PERSISTER=redis)",
	"REDIS_PASSWORD":  "redis password (PERSISTER=redis)",
	"REDIS_PREFIX":    "prefix for redis session keys",
	"REDIS_LOCK":      "serialize guesses across instances with a redis lock",
	"SQLITE_PATH":     "database file (PERSISTER=sqlite)",
	"POSTGRES_DSN":    "connection string (PERSISTER=postgres)",
	"FILE_DIR":        "directory for <key>.cow files (PERSISTER=file)",
	"SESSION_TTL":     "lifetime of a stored game",
	"COWBULL_MODES":   "YAML file of additional game modes",
	"CLIENT_ORIGIN":   "allowed CORS origin",
	"REQUEST_TIMEOUT": "per-request handler timeout",
}

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	known := false
	for _, b := range store.Backends {
		if c.Persister == b {
			known = true
			break
		}
	}
	switch {
	case !known:
		return fmt.Errorf("%w: PERSISTER %q is not one of %v", game.ErrConfig, c.Persister, store.Backends)
	case c.SessionTTL < time.Second:
		return fmt.Errorf("%w: SESSION_TTL must be at least 1s, got %s", game.ErrConfig, c.SessionTTL)
	case c.Persister == store.BackendPostgres && c.PostgresDSN == "":
		return fmt.Errorf("%w: POSTGRES_DSN is required with PERSISTER=postgres", game.ErrConfig)
	}
	return nil
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// RedisAddr joins host and port.
func (c *Config) RedisAddr() string {
	return net.JoinHostPort(c.RedisHost, strconv.Itoa(c.RedisPort))
}

// StoreOptions maps the persister settings onto store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Persister,
		RedisAddr:     c.RedisAddr(),
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
		SQLitePath:    c.SQLitePath,
		PostgresDSN:   c.PostgresDSN,
		FileDir:       c.FileDir,
	}
}

// TTLSeconds is SessionTTL in whole seconds, as stamped on sessions.
func (c *Config) TTLSeconds() int { return int(c.SessionTTL / time.Second) }

// Registry builds the mode registry: built-ins plus ModesFile, if set.
func (c *Config) Registry() (*game.Registry, error) {
	var custom []game.Mode
	if c.ModesFile != "" {
		var err error
		if custom, err = LoadModes(c.ModesFile); err != nil {
			return nil, err
		}
	}
	return game.NewRegistry(custom...)
}

// Variable describes one environment variable.
type Variable struct {
	Name        string
	Default     string
	Description string
}

// Variables lists every recognised environment variable, sorted by name.
func Variables() ([]Variable, error) {
	params, err := env.GetFieldParams(&Config{})
	if err != nil {
		return nil, err
	}
	out := make([]Variable, 0, len(params))
	for _, p := range params {
		out = append(out, Variable{
			Name:        p.Key,
			Default:     p.DefaultValue,
			Description: descriptions[p.Key],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
