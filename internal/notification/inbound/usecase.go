package inbound

import (
	"context"

	"github.com/shandysiswandi/gomailer/internal/notification/usecase"
)

type uc interface {
	SendNotification(ctx context.Context, in usecase.SendNotificationInput) error
}
