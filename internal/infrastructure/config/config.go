package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// OpsAddr is where /health and /metrics are served. Empty disables the
	// ops server and the demo exits once the walk-through is done.
	OpsAddr string `env:"OPS_ADDR"`

	Notify NotifyConfig
	SMTP   SMTPConfig
	Redis  RedisConfig
}

type NotifyConfig struct {
	Workers  int           `env:"NOTIFY_WORKERS,   default=4"`
	Buffer   int           `env:"NOTIFY_BUFFER,    default=64"`
	From     string        `env:"NOTIFY_FROM,      default=noreply@eto-telco.com"`
	TrackURL string        `env:"NOTIFY_TRACK_URL, default=https://eto-telco.com/track"`
	DedupTTL time.Duration `env:"NOTIFY_DEDUP_TTL, default=1h"`
}

type SMTPConfig struct {
	Host string `env:"SMTP_HOST, default=smtp.gmail.com"`
	Port int    `env:"SMTP_PORT, default=587"`
}

// RedisConfig points at the notice dedup store. An empty Addr disables dedup.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// DedupEnabled reports whether a Redis address was configured.
func (c *Config) DedupEnabled() bool {
	return c.Redis.Addr != ""
}

// Load reads an optional .env file from the working directory, then the
// process environment. Variables already set in the environment win.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return loadFrom(ctx, envconfig.OsLookuper())
}

func loadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
