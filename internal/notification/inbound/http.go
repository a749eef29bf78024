package inbound

import (
	"github.com/shandysiswandi/gomailer/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/sendNotification", end.SendNotification)
}
