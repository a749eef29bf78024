package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
	"github.com/shandysiswandi/gomailer/internal/pkg/config"
	"github.com/shandysiswandi/gomailer/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxLoggedBodyBytes = 8 * 1024 // 8KB
	maskedValue        = "***"
)

// responseRecorder captures what the handler wrote so it can be logged and
// attached to the span once the request is done.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
	err    error
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// SetError lets the endpoint adapter hand the handler error to the middleware.
func (w *responseRecorder) SetError(err error) {
	w.err = err
}

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// configSet turns a comma separated config list into a set, dropping blanks.
func configSet(items []string, normalize func(string) string) map[string]struct{} {
	return lo.Keyify(lo.FilterMap(items, func(item string, _ int) (string, bool) {
		item = strings.TrimSpace(item)
		if normalize != nil {
			item = normalize(item)
		}
		return item, item != ""
	}))
}

// peekBody reads up to maxLoggedBodyBytes and puts them back in front of the
// remaining body.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // best effort for logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBodyBytes))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	return head
}

// maskJSON replaces the values of masked keys at any depth.
func maskJSON(v any, keys map[string]struct{}) any {
	switch val := v.(type) {
	case map[string]any:
		for k, inner := range val {
			if _, found := keys[strings.ToLower(k)]; found {
				val[k] = maskedValue
				continue
			}
			val[k] = maskJSON(inner, keys)
		}
		return val
	case []any:
		for i := range val {
			val[i] = maskJSON(val[i], keys)
		}
		return val
	default:
		return v
	}
}

func loggableBody(body []byte, keys map[string]struct{}) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return maskJSON(decoded, keys)
	}
	if !utf8.Valid(body) {
		return "<binary body omitted>"
	}
	if len(body) == maxLoggedBodyBytes {
		return string(body) + "...(truncated)"
	}
	return string(body)
}

func loggableHeaders(h http.Header, keys map[string]struct{}) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		if _, found := keys[strings.ToLower(k)]; found {
			out[k] = maskedValue
			continue
		}
		out[k] = h.Get(k)
	}
	return out
}

func middlewareObservability(cfg config.Config, ins instrument.Instrumentation) Middleware {
	maskKeys := map[string]struct{}{}
	if cfg != nil {
		maskKeys = configSet(cfg.GetArray("instrument.log_mask_fields"), strings.ToLower)
	}

	tracer := ins.Tracer("http.server")
	meter := ins.Meter("http.server")

	requests, err := meter.Int64Counter("http.server.requests", metric.WithDescription("Number of HTTP requests received"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}
	duration, err := meter.Float64Histogram("http.server.duration", metric.WithDescription("HTTP request duration in milliseconds"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()

			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"headers", loggableHeaders(r.Header, maskKeys),
				"body", loggableBody(peekBody(r), maskKeys),
			)

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			elapsed := time.Since(start)
			attrs := []attribute.KeyValue{
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			}

			span.SetAttributes(attrs...)
			span.SetAttributes(
				semconv.ServerAddressKey.String(r.Host),
				semconv.UserAgentOriginalKey.String(r.UserAgent()),
			)
			if rec.err != nil {
				span.RecordError(rec.err)
			}
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			if requests != nil {
				requests.Add(ctx, 1, metric.WithAttributes(attrs...))
			}
			if duration != nil {
				duration.Record(ctx, float64(elapsed.Milliseconds()), metric.WithAttributes(attrs...))
			}

			logAttrs := []any{
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.bytes,
				"latency_ms", elapsed.Milliseconds(),
			}
			if rec.err != nil {
				logAttrs = append(logAttrs, "error", rec.err)
			}
			slog.InfoContext(ctx, "response sent", logAttrs...)
		})
	}
}
