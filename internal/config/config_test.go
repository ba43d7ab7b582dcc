package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Expected address 0.0.0.0:8080, got %s", cfg.Address())
	}
	if cfg.StoreBackend != BackendMemory {
		t.Errorf("Expected memory backend, got %s", cfg.StoreBackend)
	}
	if cfg.RoundDuration != 120*time.Second {
		t.Errorf("Expected 120s round, got %v", cfg.RoundDuration)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("Expected 1h TTL, got %v", cfg.SessionTTL)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected default Redis address, got %s", cfg.Redis.Addr)
	}
	if len(cfg.Cassandra.Hosts) != 1 || cfg.Cassandra.Hosts[0] != "localhost:9042" {
		t.Errorf("Expected default Cassandra host, got %v", cfg.Cassandra.Hosts)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "cassandra")
	t.Setenv("ROUND_DURATION", "90s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CASSANDRA_HOSTS", "cass-1:9042, cass-2:9042")
	t.Setenv("CASSANDRA_TIMEOUT", "2s")
	t.Setenv("SQLITE_PATH", "/tmp/sessions.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || cfg.StoreBackend != BackendCassandra {
		t.Errorf("Unexpected config %+v", cfg)
	}
	if cfg.RoundDuration != 90*time.Second {
		t.Errorf("Expected 90s round, got %v", cfg.RoundDuration)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("Expected Redis DB 3, got %d", cfg.Redis.DB)
	}
	if len(cfg.Cassandra.Hosts) != 2 || cfg.Cassandra.Timeout != 2*time.Second {
		t.Errorf("Unexpected Cassandra config %+v", cfg.Cassandra)
	}
	if cfg.SQLite.Path != "/tmp/sessions.db" {
		t.Errorf("Expected SQLite path from env, got %s", cfg.SQLite.Path)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown backend", key: "STORE_BACKEND", value: "mongo"},
		{name: "zero round", key: "ROUND_DURATION", value: "0s"},
		{name: "bad duration", key: "ROUND_DURATION", value: "soon"},
		{name: "no workers", key: "VERIFY_WORKERS", value: "0"},
		{name: "bad redis db", key: "REDIS_DB", value: "first"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
