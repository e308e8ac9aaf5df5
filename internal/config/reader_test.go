package config

import (
	"os"
	"testing"
	"time"
)

// unsetenv clears keys for the duration of the test
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		key := key
		if old, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, old) })
		}
		os.Unsetenv(key)
	}
}

func TestEnvReaderDefaults(t *testing.T) {
	unsetenv(t,
		"PROJEXIS_ENV",
		"PROJEXIS_API_URL",
		"PROJEXIS_HTTP_TIMEOUT",
		"PROJEXIS_MENTION_POLL",
		"PROJEXIS_MESSAGES_POLL",
	)

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.Env != EnvProd {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProd)
	}
	if cfg.API.URL != "http://localhost:5000/api" {
		t.Errorf("API.URL = %q", cfg.API.URL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("API.Timeout = %v", cfg.API.Timeout)
	}
	if cfg.Poll.Mentions != 15*time.Second || cfg.Poll.Messages != 5*time.Second {
		t.Errorf("Poll = %+v", cfg.Poll)
	}
}

func TestEnvReaderOverrides(t *testing.T) {
	t.Setenv("PROJEXIS_ENV", "local")
	t.Setenv("PROJEXIS_API_URL", "https://pm.example.com/api")
	t.Setenv("PROJEXIS_MENTION_POLL", "1m")

	cfg, err := NewEnvReader().Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if cfg.Env != EnvLocal || cfg.API.URL != "https://pm.example.com/api" || cfg.Poll.Mentions != time.Minute {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestEnvReaderUnknownEnv(t *testing.T) {
	t.Setenv("PROJEXIS_ENV", "staging")
	if _, err := NewEnvReader().Read(); err == nil {
		t.Fatal("expected error for unknown env")
	}
}
