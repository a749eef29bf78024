package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is echoed on every response.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted from proxies that do not set HeaderCorrelationID.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

func incomingCorrelationID(r *http.Request) string {
	for _, h := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := r.Header.Get(h)
		if strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		if len(v) > maxCorrelationIDLen {
			v = v[:maxCorrelationIDLen]
		}
		return v
	}
	return ""
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := incomingCorrelationID(r)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), cid)))
		})
	}
}
