package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/goerror"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"github.com/shandysiswandi/gomailer/internal/pkg/uid"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message" example:"Validation error"`
	Error   map[string]string `json:"error,omitempty"`
}

// Text is written as a text/plain 200 response.
type Text string

// Handler returns the text body on success. Errors are written as JSON.
type Handler func(r *Request) (Text, error)

// Config holds dependencies required to build a Router.
type Config struct {
	// Config supplies maintenance endpoints and log mask fields. Optional.
	Config config.Config
	// UUID generates correlation ids for requests that carry none. Optional.
	UUID uid.StringID
	// Instrument defaults to a noop implementation.
	Instrument instrument.Instrumentation
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// NewRouter builds the application router with the standard middleware chain:
// recover, client ip, correlation id, observability, maintenance.
func NewRouter(cfg Config) *Router {
	ins := cfg.Instrument
	if ins == nil {
		ins = instrument.NewNoop()
	}

	return &Router{
		hr: &httprouter.Router{
			RedirectTrailingSlash:  true,
			RedirectFixedPath:      true,
			HandleMethodNotAllowed: true,
			HandleOPTIONS:          true,
			SaveMatchedRoutePath:   true,
			NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
			}),
			MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
			}),
		},
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Config, ins),
			middlewareMaintenance(cfg.Config),
		},
	}
}

// POST registers a POST endpoint.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	chain := append(append([]Middleware{}, r.mws...), mws...)

	r.hr.Handler(method, path, Chain(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if setter, ok := w.(interface{ SetError(error) }); ok {
				setter.SetError(err)
			}
			writeError(req, w, err)
			return
		}
		writeResponse(w, resp)
	}), chain...))
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

func writeError(req *http.Request, w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		slog.ErrorContext(req.Context(), "unhandled error reached router", "error", err)
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}

	var verr validator.V10ValidationError
	if errors.As(err, &verr) {
		resp.Error = verr.Values()
	}

	writeJSON(w, resp, gerr.StatusCode())
}

func writeResponse(w http.ResponseWriter, resp Text) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(resp)); err != nil {
		slog.Error("server: failed to write text response", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
