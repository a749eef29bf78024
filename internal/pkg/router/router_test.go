package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/goerror"
	"github.com/shandysiswandi/gomailer/internal/pkg/validator"
)

type staticID string

func (s staticID) Generate() string { return string(s) }

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	var cfg config.Config
	if yaml != "" {
		v, err := config.NewViperFromBytes("yaml", []byte(yaml))
		if err != nil {
			t.Fatalf("config: %v", err)
		}
		cfg = v
	}

	return NewRouter(Config{Config: cfg, UUID: staticID("cid-fixed")})
}

func serve(r *Router, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterTextResponse(t *testing.T) {

	// Arrange
	r := newTestRouter(t, "")
	r.POST("/echo", func(*Request) (Text, error) {
		return Text("Email sent successfully!"), nil
	})

	// Act
	rec := serve(r, http.MethodPost, "/echo", `{}`, nil)

	// Assert
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("Content-Type = %q", ct)
	}
	if rec.Body.String() != "Email sent successfully!" {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if got := rec.Header().Get(HeaderCorrelationID); got != "cid-fixed" {
		t.Fatalf("correlation id = %q", got)
	}
}

func TestRouterErrorCodec(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantFields []string
	}{
		{
			name:       "validator error",
			err:        goerror.NewInvalidInput(validator.V10ValidationError{"tomail": "tomail must be a valid email address"}),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation error",
			wantFields: []string{"tomail"},
		},
		{
			name:       "invalid format",
			err:        goerror.NewInvalidFormat(),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid request body",
		},
		{
			name:       "server error with message",
			err:        goerror.NewServerMsg(errors.New("dial tcp: refused"), "failed to deliver email"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "failed to deliver email",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {

			// Arrange
			r := newTestRouter(t, "")
			r.POST("/fail", func(*Request) (Text, error) { return "", tt.err })

			// Act
			rec := serve(r, http.MethodPost, "/fail", `{}`, nil)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Message != tt.wantMsg {
				t.Fatalf("message = %q, want %q", resp.Message, tt.wantMsg)
			}
			for _, f := range tt.wantFields {
				if resp.Error[f] == "" {
					t.Fatalf("missing field %q in %v", f, resp.Error)
				}
			}
		})
	}
}

func TestRequestDecodeBody(t *testing.T) {
	type payload struct {
		ToMail string `json:"tomail"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"tomail":"a@b.com"}`},
		{name: "unknown field ignored", body: `{"tomail":"a@b.com","cc":"x"}`},
		{name: "trailing data", body: `{"tomail":"a@b.com"}{}`, wantErr: true},
		{name: "malformed", body: `{"tomail":`, wantErr: true},
		{name: "empty", body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))}

			var dst payload
			err := req.DecodeBody(&dst)

			if tt.wantErr {
				var gerr *goerror.Error
				if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidFormat {
					t.Fatalf("err = %v, want invalid format", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if dst.ToMail != "a@b.com" {
				t.Fatalf("decoded = %+v", dst)
			}
		})
	}
}

func TestRouterMaintenance(t *testing.T) {
	r := newTestRouter(t, "app:\n  maintenance:\n    endpoints: \"/api/sendNotification, \"\n")
	called := false
	r.POST("/api/sendNotification", func(*Request) (Text, error) {
		called = true
		return Text("ok"), nil
	})

	rec := serve(r, http.MethodPost, "/api/sendNotification", `{}`, nil)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run under maintenance")
	}
}

func TestRouterRecoversPanic(t *testing.T) {
	r := newTestRouter(t, "")
	r.POST("/panic", func(*Request) (Text, error) {
		panic("boom")
	})

	rec := serve(r, http.MethodPost, "/panic", `{}`, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRouterFallbacks(t *testing.T) {
	r := newTestRouter(t, "")
	r.POST("/api/sendNotification", func(*Request) (Text, error) { return Text("ok"), nil })

	if rec := serve(r, http.MethodGet, "/", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("/ status = %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/missing", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("/missing status = %d", rec.Code)
	}
	if rec := serve(r, http.MethodGet, "/api/sendNotification", "", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /api/sendNotification status = %d", rec.Code)
	}
}

func TestCorrelationIDFromHeader(t *testing.T) {
	r := newTestRouter(t, "")
	r.POST("/ping", func(*Request) (Text, error) { return Text("pong"), nil })

	rec := serve(r, http.MethodPost, "/ping", "", map[string]string{HeaderRequestID: "  upstream-id  "})

	if got := rec.Header().Get(HeaderCorrelationID); got != "upstream-id" {
		t.Fatalf("correlation id = %q", got)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { order = append(order, "handler") }), mw("a"), nil, mw("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,handler" {
		t.Fatalf("order = %v", order)
	}
}
