package notification

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/gomailer/internal/notification/inbound"
	"github.com/shandysiswandi/gomailer/internal/notification/outbound/db"
	"github.com/shandysiswandi/gomailer/internal/notification/outbound/email"
	"github.com/shandysiswandi/gomailer/internal/notification/usecase"
	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"github.com/shandysiswandi/gomailer/internal/pkg/router"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

type Dependency struct {
	DBConn      *pgxpool.Pool
	Config      config.Config
	Instrument  instrument.Instrumentation
	Validator   validator.Validator
	Router      *router.Router
	MailFactory mail.Factory
}

func New(dep Dependency) error {
	dbNotif := db.NewDB(dep.DBConn, dep.Config.GetSecond("database.query_timeout_seconds"), dep.Instrument)
	repoMail := email.New(dep.MailFactory, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:     dbNotif,
		RepoMail:   repoMail,
		Validator:  dep.Validator,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
