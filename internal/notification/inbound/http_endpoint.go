package inbound

import (
	"github.com/shandysiswandi/gomailer/internal/notification/usecase"
	"github.com/shandysiswandi/gomailer/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// SendNotification sends one plain-text email through the active mail configuration.
// @Summary Send notification email
// @Description Sends a single email to the given recipient using the active mail configuration.
// @Tags Notification
// @Accept json
// @Produce plain
// @Param request body SendNotificationRequest true "Notification payload"
// @Success 200 {string} string "Email sent successfully!"
// @Failure 400 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/sendNotification [post]
func (h *HTTPEndpoint) SendNotification(r *router.Request) (router.Text, error) {
	var req SendNotificationRequest
	if err := r.DecodeBody(&req); err != nil {
		return "", err
	}

	err := h.uc.SendNotification(r.Context(), usecase.SendNotificationInput{
		ToMail:  req.ToMail,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		return "", err
	}

	return router.Text("Email sent successfully!"), nil
}
