package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY":      testKey,
		"POSTGRES_DSN": "postgres://localhost/marketplace",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.JWT.Issuer != "marketplace-api" || cfg.JWT.Audience != "marketplace-clients" || cfg.JWT.TTL != 3*time.Hour {
		t.Fatalf("unexpected jwt defaults: %+v", cfg.JWT)
	}
	if cfg.Visits.Backend != VisitsBackendPostgres || cfg.Visits.DedupWindow != 0 || cfg.Visits.Workers != 4 {
		t.Fatalf("unexpected visit defaults: %+v", cfg.Visits)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default")
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
	if cfg.IsProduction() {
		t.Fatalf("development is not production")
	}
}

func TestLoadFrom_Rejects(t *testing.T) {
	base := func() map[string]string {
		return map[string]string{"JWT_KEY": testKey, "POSTGRES_DSN": "postgres://localhost/marketplace"}
	}

	cases := map[string]struct {
		mutate func(map[string]string)
		want   string
	}{
		"missing key":      {func(m map[string]string) { delete(m, "JWT_KEY") }, "JWT_KEY"},
		"short key":        {func(m map[string]string) { m["JWT_KEY"] = "short" }, "at least 32 bytes"},
		"missing dsn":      {func(m map[string]string) { delete(m, "POSTGRES_DSN") }, "POSTGRES_DSN"},
		"unknown backend":  {func(m map[string]string) { m["VISITS_BACKEND"] = "cassandra" }, "VISITS_BACKEND"},
		"window w/o redis": {func(m map[string]string) { m["VISIT_DEDUP_WINDOW"] = "5m" }, "REDIS_ADDR"},
		"negative window":  {func(m map[string]string) { m["VISIT_DEDUP_WINDOW"] = "-1m" }, "negative"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			env := base()
			tc.mutate(env)
			_, err := LoadFrom(context.Background(), envconfig.MapLookuper(env))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadFrom_DedupWithRedis(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_KEY":            testKey,
		"POSTGRES_DSN":       "postgres://localhost/marketplace",
		"REDIS_ADDR":         "localhost:6379",
		"VISIT_DEDUP_WINDOW": "10m",
		"VISITS_BACKEND":     "mongo",
	}))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Visits.DedupWindow != 10*time.Minute || cfg.Visits.Backend != VisitsBackendMongo {
		t.Fatalf("unexpected visits config: %+v", cfg.Visits)
	}
}
