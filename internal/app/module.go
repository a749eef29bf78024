package app

import (
	"log/slog"
	"os"

	"github.com/shandysiswandi/gomailer/internal/notification"
)

func (a *App) initModules() {
	if err := notification.New(notification.Dependency{
		DBConn:      a.dbConn,
		Config:      a.config,
		Instrument:  a.ins,
		Validator:   a.validator,
		Router:      a.router,
		MailFactory: a.mailFactory,
	}); err != nil {
		slog.Error("failed to init module notification", "error", err)
		os.Exit(1)
	}
}
