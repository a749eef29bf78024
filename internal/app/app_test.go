package app

import (
	"testing"
	"time"

	"github.com/shandysiswandi/gomailer/internal/pkg/config"
)

func TestConfigPath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		local string
		want  string
	}{
		{name: "explicit path", path: "/etc/gomailer.yaml", local: "true", want: "/etc/gomailer.yaml"},
		{name: "local", local: "true", want: "./config/config.yaml"},
		{name: "default", want: "/config/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", tt.path)
			t.Setenv("LOCAL", tt.local)

			if got := configPath(); got != tt.want {
				t.Fatalf("configPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConnectBackoff(t *testing.T) {

	// Arrange
	cfg, err := config.NewViperFromBytes("yaml", []byte(`
database:
  connect_retry:
    max_retries: 2
    base_delay_seconds: 1
    max_delay_seconds: 1
`))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	a := &App{config: cfg}

	// Act
	b := a.connectBackoff()

	// Assert
	for i := 0; i < 2; i++ {
		d, stop := b.Next()
		if stop {
			t.Fatalf("attempt %d stopped early", i+1)
		}
		if d > time.Second {
			t.Fatalf("attempt %d delay = %s, want capped at 1s", i+1, d)
		}
	}
	if _, stop := b.Next(); !stop {
		t.Fatal("expected backoff to stop after max retries")
	}
}
