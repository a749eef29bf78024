package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
app:
  server:
    cors: "http://localhost:3000,https://example.com"
    http:
      read_timeout_seconds: 15
database:
  pool:
    max_conns: 8
mail:
  timeout_seconds: 10
instrument:
  enabled: false
  trace_sample_ratio: 0.25
  log_mask_fields: ""
`

func TestNewViperFromBytes(t *testing.T) {

	// Arrange
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Act & Assert
	if got := cfg.GetSecond("app.server.http.read_timeout_seconds"); got != 15*time.Second {
		t.Fatalf("read timeout = %v", got)
	}
	if got := cfg.GetInt32("database.pool.max_conns"); got != 8 {
		t.Fatalf("max conns = %d", got)
	}
	if got := cfg.GetInt("mail.timeout_seconds"); got != 10 {
		t.Fatalf("mail timeout = %d", got)
	}
	if cfg.GetBool("instrument.enabled") {
		t.Fatal("instrument.enabled should be false")
	}
	if got := cfg.GetFloat64("instrument.trace_sample_ratio"); got != 0.25 {
		t.Fatalf("ratio = %v", got)
	}
	if got := cfg.GetArray("app.server.cors"); len(got) != 2 || got[1] != "https://example.com" {
		t.Fatalf("cors = %v", got)
	}
	if got := cfg.GetArray("instrument.log_mask_fields"); len(got) != 0 {
		t.Fatalf("empty array = %v", got)
	}
	if err := cfg.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewViperFromBytesRequiresType(t *testing.T) {
	if _, err := NewViperFromBytes(" ", []byte(sampleYAML)); err == nil {
		t.Fatal("expected error for blank config type")
	}
}

func TestNewViperEnvOverride(t *testing.T) {

	// Arrange
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("database:\n  url: postgres://file\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DATABASE_URL", "postgres://env")

	// Act
	cfg, err := NewViper(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Assert
	if got := cfg.GetString("database.url"); got != "postgres://env" {
		t.Fatalf("database.url = %q, want env override", got)
	}
}
