package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/gomailer/internal/notification/entity"
	"github.com/shandysiswandi/gomailer/internal/pkg/goerror"
	"go.opentelemetry.io/otel/codes"
)

var (
	// ErrNoActiveConfig is returned when no mail configuration row is active.
	ErrNoActiveConfig = errors.New("no active mail configuration")
	// ErrDeliveryFailure is returned when the SMTP transport fails. The
	// transport error is joined to it.
	ErrDeliveryFailure = errors.New("failed to deliver email")
)

type (
	SendNotificationInput struct {
		ToMail  string `json:"tomail" validate:"notblank,email"`
		Subject string `json:"subject" validate:"notblank"`
		Body    string `json:"body" validate:"notblank"`
	}
)

// SendNotification validates the input, loads the active mail configuration
// and performs a single delivery attempt. Subject and body are sent as given.
func (s *Usecase) SendNotification(ctx context.Context, in SendNotificationInput) error {
	ctx, span := s.startSpan(ctx, "SendNotification")
	defer span.End()

	in.ToMail = strings.TrimSpace(in.ToMail)

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	cfg, err := s.repoDB.FindActiveConfig(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no active mail configuration found")
		span.SetStatus(codes.Error, ErrNoActiveConfig.Error())
		return goerror.NewServerMsg(ErrNoActiveConfig, ErrNoActiveConfig.Error())
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo find active mail config", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return goerror.NewServer(err)
	}

	env := entity.Envelope{
		From:    cfg.FromEmail,
		To:      in.ToMail,
		Subject: in.Subject,
		Body:    in.Body,
	}

	if err := s.repoMail.Send(ctx, *cfg, env); err != nil {
		slog.ErrorContext(ctx, "failed to send notification email",
			"config_id", cfg.ID,
			"provider", cfg.Provider,
			"host", cfg.Host,
			"port", cfg.Port,
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return goerror.NewServerMsg(
			errors.Join(ErrDeliveryFailure, err),
			fmt.Sprintf("%s: %v", ErrDeliveryFailure, err),
		)
	}

	slog.InfoContext(ctx, "notification email sent", "config_id", cfg.ID, "provider", cfg.Provider)

	return nil
}
