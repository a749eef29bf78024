package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/rs/cors"
	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"github.com/shandysiswandi/gomailer/internal/pkg/router"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

// fatal logs and exits; wiring failures leave nothing to serve.
func fatal(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	os.Exit(1)
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

func (a *App) initConfig() {
	path := configPath()

	cfg, err := config.NewViper(path)
	if err != nil {
		fatal("failed to init config", err, "path", path)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // TZ is best effort
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		fatal("failed to init instrumentation", err)
	}

	a.ins = ins
}

func (a *App) initLibraries() {
	a.uuid = uid.NewUUID()

	v, err := validator.NewV10Validator()
	if err != nil {
		fatal("failed to init validation v10 validator", err)
	}
	a.validator = v
}

func (a *App) initMail() {
	a.mailFactory = mail.NewSMTPFactory(a.config.GetSecond("mail.timeout_seconds"))
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()
				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
	}
}
