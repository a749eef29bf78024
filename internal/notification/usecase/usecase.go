package usecase

import (
	"context"

	"github.com/shandysiswandi/gomailer/internal/notification/entity"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// repoDB provides the active mail configuration. Implementations must not
// cache: every call reflects the current stored state.
type repoDB interface {
	FindActiveConfig(ctx context.Context) (*entity.MailConfig, error)
}

// repoMail delivers one envelope using the given server configuration.
type repoMail interface {
	Send(ctx context.Context, cfg entity.MailConfig, env entity.Envelope) error
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Validator  validator.Validator
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	ins := dep.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Usecase{
		repoDB:    dep.RepoDB,
		repoMail:  dep.RepoMail,
		validator: dep.Validator,
		ins:       ins,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
