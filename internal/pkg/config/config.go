package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	VisitsBackendPostgres = "postgres"
	VisitsBackendMongo    = "mongo"
)

// Config is the full application configuration, read from the environment.
type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`

	JWT      JWTConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Visits   VisitsConfig
	Admin    AdminConfig
}

// JWTConfig holds the token signing settings.
type JWTConfig struct {
	Key      string        `env:"JWT_KEY, required"`
	Issuer   string        `env:"JWT_ISSUER,   default=marketplace-api"`
	Audience string        `env:"JWT_AUDIENCE, default=marketplace-clients"`
	TTL      time.Duration `env:"JWT_TTL,      default=3h"`
}

// PostgresConfig holds the relational store settings.
type PostgresConfig struct {
	DSN          string `env:"POSTGRES_DSN, required"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS, default=25"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS, default=10"`
}

// MongoConfig holds the document store settings used by visit history.
type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=marketplace"`
}

// RedisConfig is optional; an empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

// VisitsConfig selects where visits are stored and how they are recorded.
type VisitsConfig struct {
	Backend     string        `env:"VISITS_BACKEND,     default=postgres"`
	DedupWindow time.Duration `env:"VISIT_DEDUP_WINDOW, default=0s"`
	// Workers is the number of goroutines recording views from publication reads.
	Workers     int           `env:"VISIT_WORKERS,      default=4"`
}

// AdminConfig seeds an administrator at startup when Username and Password are set.
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
	Email    string `env:"ADMIN_EMAIL"`
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks the values envconfig cannot express.
func (c *Config) Validate() error {
	if len(c.JWT.Key) < 32 {
		return fmt.Errorf("JWT_KEY must be at least 32 bytes, got %d", len(c.JWT.Key))
	}
	switch c.Visits.Backend {
	case VisitsBackendPostgres, VisitsBackendMongo:
	default:
		return fmt.Errorf("VISITS_BACKEND must be %q or %q, got %q", VisitsBackendPostgres, VisitsBackendMongo, c.Visits.Backend)
	}
	if c.Visits.DedupWindow < 0 {
		return fmt.Errorf("VISIT_DEDUP_WINDOW cannot be negative")
	}
	if c.Visits.DedupWindow > 0 && c.Redis.Addr == "" {
		return fmt.Errorf("VISIT_DEDUP_WINDOW requires REDIS_ADDR")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration from l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
