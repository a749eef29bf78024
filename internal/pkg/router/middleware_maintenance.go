package router

import (
	"net/http"

	"github.com/shandysiswandi/gomailer/internal/pkg/config"
)

func middlewareMaintenance(cfg config.Config) Middleware {
	endpoints := map[string]struct{}{}
	if cfg != nil {
		endpoints = configSet(cfg.GetArray("app.maintenance.endpoints"), nil)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := matchedRoutePath(r)
			if _, blocked := endpoints[route]; blocked {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
