package config

import (
	"testing"
	"time"
)

func TestResolveDefaultsAuto(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{"dsn picks postgres", Config{DBDriver: "auto", PostgresDSN: "postgres://x"}, "postgres"},
		{"path picks sqlite", Config{DBDriver: "auto", SQLitePath: "/tmp/x.db"}, "sqlite"},
		{"nothing picks none", Config{DBDriver: "auto"}, "none"},
		{"empty behaves like auto", Config{PostgresDSN: "postgres://x"}, "postgres"},
		{"dsn wins over path", Config{DBDriver: "auto", PostgresDSN: "postgres://x", SQLitePath: "/tmp/x.db"}, "postgres"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.cfg.ResolveDefaults(); err != nil {
				t.Fatalf("ResolveDefaults: %v", err)
			}
			if c.cfg.DBDriver != c.want {
				t.Fatalf("DBDriver = %q, want %q", c.cfg.DBDriver, c.want)
			}
		})
	}
}

func TestResolveDefaultsValidation(t *testing.T) {
	bad := Config{DBDriver: "oracle"}
	if err := bad.ResolveDefaults(); err == nil {
		t.Fatal("unsupported driver accepted")
	}

	noDSN := Config{DBDriver: "postgres"}
	if err := noDSN.ResolveDefaults(); err == nil {
		t.Fatal("postgres without DSN accepted")
	}

	noPath := Config{DBDriver: "sqlite"}
	if err := noPath.ResolveDefaults(); err == nil {
		t.Fatal("sqlite without path accepted")
	}
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("BOTSTORE_SQLITE_PATH", "/tmp/botstore-test.db")
	t.Setenv("BOTSTORE_REDIS_ADDR", "localhost:6379")
	t.Setenv("BOTSTORE_MEMORY_TTL_SECONDS", "60")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("RedisAddr = %q", cfg.RedisAddr)
	}
	if cfg.MemoryTTL() != time.Minute {
		t.Fatalf("MemoryTTL = %v", cfg.MemoryTTL())
	}
	// Untouched settings keep their defaults.
	if cfg.RedisTTLSeconds != 259200 || cfg.DurableTTLSeconds != 2592000 {
		t.Fatalf("ttl defaults = %d, %d", cfg.RedisTTLSeconds, cfg.DurableTTLSeconds)
	}
	if cfg.HTTPPort != 8085 {
		t.Fatalf("HTTPPort = %d", cfg.HTTPPort)
	}
}

func TestGetHTTPAddr(t *testing.T) {
	cfg := NewForTesting()
	if got := cfg.GetHTTPAddr(); got != ":8085" {
		t.Fatalf("GetHTTPAddr = %q", got)
	}
}
