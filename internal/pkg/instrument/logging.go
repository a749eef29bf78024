package instrument

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const maskedValue = "***"

func initLogging(serviceName string, lp *sdklog.LoggerProvider, maskFields []string) {
	slog.SetDefault(slog.New(newLogHandler(os.Stdout, serviceName, lp, maskFields)))
}

// newLogHandler writes JSON lines to w and, when lp is set, mirrors every
// record to the OTLP log pipeline. Records get the service name and the
// correlation id from the context; attributes named in maskFields are masked.
func newLogHandler(w io.Writer, serviceName string, lp *sdklog.LoggerProvider, maskFields []string) slog.Handler {
	sinks := []slog.Handler{slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelInfo,
		AddSource:   true,
		ReplaceAttr: renameAttr,
	})}
	if lp != nil {
		sinks = append(sinks, otelslog.NewHandler(serviceName, otelslog.WithLoggerProvider(lp)))
	}

	keys := make(map[string]struct{}, len(maskFields))
	for _, f := range maskFields {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			keys[f] = struct{}{}
		}
	}

	return &logHandler{sinks: sinks, service: serviceName, maskKeys: keys}
}

// renameAttr shortens the built-in keys and trims source paths to the module
// relative internal/... form.
func renameAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", "internal/"+rel+":"+strconv.Itoa(src.Line))
	}
	return a
}

type logHandler struct {
	sinks    []slog.Handler
	service  string
	maskKeys map[string]struct{}
}

func (h *logHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *logHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.mask(a))
		return true
	})
	if cid := GetCorrelationID(ctx); cid != "" {
		out.AddAttrs(slog.String("_cID", cid))
	}
	out.AddAttrs(slog.String("service", h.service))

	var errs []error
	for _, s := range h.sinks {
		if s.Enabled(ctx, out.Level) {
			errs = append(errs, s.Handle(ctx, out.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *logHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		masked = append(masked, h.mask(a))
	}
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(masked) })
}

func (h *logHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *logHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, 0, len(h.sinks))
	for _, s := range h.sinks {
		sinks = append(sinks, fn(s))
	}
	return &logHandler{sinks: sinks, service: h.service, maskKeys: h.maskKeys}
}

func (h *logHandler) mask(a slog.Attr) slog.Attr {
	if len(h.maskKeys) == 0 {
		return a
	}
	if _, found := h.maskKeys[strings.ToLower(a.Key)]; found {
		return slog.String(a.Key, maskedValue)
	}

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		masked := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			masked = append(masked, h.mask(ga))
		}
		a.Value = slog.GroupValue(masked...)
	case slog.KindString:
		if s, ok := h.maskJSON([]byte(a.Value.String())); ok {
			a.Value = slog.StringValue(s)
		}
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case map[string]any, []any:
			a.Value = slog.AnyValue(h.maskValue(v))
		case map[string]string:
			m := make(map[string]any, len(v))
			for k, s := range v {
				m[k] = s
			}
			a.Value = slog.AnyValue(h.maskValue(m))
		case []byte:
			if s, ok := h.maskJSON(v); ok {
				a.Value = slog.StringValue(s)
			}
		}
	}
	return a
}

// maskJSON masks payload if it is a JSON object or array.
func (h *logHandler) maskJSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", false
	}
	b, err := json.Marshal(h.maskValue(decoded))
	if err != nil {
		return "", false
	}
	return string(b), true
}

func (h *logHandler) maskValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			if _, found := h.maskKeys[strings.ToLower(k)]; found {
				out[k] = maskedValue
				continue
			}
			out[k] = h.maskValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = h.maskValue(inner)
		}
		return out
	default:
		return v
	}
}
