package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ezcoin.yaml")
	yamlDoc := []byte(`
addr: ":9090"
store: memory
starting_grant: 20
payment_delay: 500ms
jwt_secret: from-file-secret-0123456789
allow_origins: ["https://eznote.app"]
`)
	if err := os.WriteFile(path, yamlDoc, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("EZCOIN_CONFIG_FILE", path)
	t.Setenv("EZCOIN_STARTING_GRANT", "75")
	t.Setenv("EZCOIN_LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Addr != ":9090" || cfg.Store != "memory" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.StartingGrant != 75 {
		t.Errorf("StartingGrant = %d, env should override the file", cfg.StartingGrant)
	}
	if cfg.PaymentDelay != 500*time.Millisecond {
		t.Errorf("PaymentDelay = %s", cfg.PaymentDelay)
	}
	if cfg.ShutdownTimeout != 10*time.Second || cfg.MaxCommitRetries != 3 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "https://eznote.app" {
		t.Errorf("AllowOrigins = %v", cfg.AllowOrigins)
	}
	if cfg.slogLevel().String() != "DEBUG" {
		t.Errorf("level = %s", cfg.slogLevel())
	}

	engine := cfg.Engine()
	if engine.StartingGrant != 75 || engine.PaymentDelay != 500*time.Millisecond {
		t.Errorf("engine config = %+v", engine)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		ok   bool
	}{
		{"auth without secret", map[string]string{}, false},
		{"auth disabled", map[string]string{"EZCOIN_DISABLE_AUTH": "true"}, true},
		{"unknown store", map[string]string{"EZCOIN_DISABLE_AUTH": "true", "EZCOIN_STORE": "redis"}, false},
		{"negative grant", map[string]string{"EZCOIN_DISABLE_AUTH": "true", "EZCOIN_STARTING_GRANT": "-1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EZCOIN_CONFIG_FILE", "")
			t.Setenv("EZCOIN_JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			if (err == nil) != tt.ok {
				t.Errorf("err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	cfg := defaultConfig()
	cfg.DataPath = filepath.Join(t.TempDir(), "ezcoin.db")

	s, err := openStore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.Ping(t.Context()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}
