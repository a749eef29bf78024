package email

import (
	"context"
	"errors"

	"github.com/shandysiswandi/gomailer/internal/notification/entity"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/mail"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Mail struct {
	factory mail.Factory
	ins     instrument.Instrumentation
}

func New(factory mail.Factory, ins instrument.Instrumentation) *Mail {
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Mail{factory: factory, ins: ins}
}

// Send opens a transport for cfg and delivers env through it once.
func (m *Mail) Send(ctx context.Context, cfg entity.MailConfig, env entity.Envelope) (err error) {
	ctx, span := m.ins.Tracer("notification.outbound.email").Start(ctx, "Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	span.SetAttributes(
		attribute.String("smtp.host", cfg.Host),
		attribute.Int("smtp.port", cfg.Port),
		attribute.Bool("smtp.ssl", cfg.UseSSL),
		attribute.Bool("smtp.starttls", cfg.UseTLS),
	)

	client, err := m.factory(mail.SMTPConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.FromEmail,
		UseSSL:   cfg.UseSSL,
		UseTLS:   cfg.UseTLS,
	})
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, client.Close())
	}()

	return client.Send(ctx, mail.Message{
		From:     env.From,
		To:       []string{env.To},
		Subject:  env.Subject,
		TextBody: env.Body,
	})
}
