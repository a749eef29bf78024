package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"github.com/shandysiswandi/gomailer/internal/pkg/router"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	validator validator.Validator
	uuid      uid.StringID

	// resources
	dbConn      *pgxpool.Pool
	mailFactory mail.Factory

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initDatabase()
	app.initMail()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
