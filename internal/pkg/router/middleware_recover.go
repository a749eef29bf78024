package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

// appFrames keeps the file:line entries of a goroutine dump that point into
// this module's internal packages.
func appFrames(stack []byte) []string {
	var frames []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}
		frame, _, _ := strings.Cut(line[idx+1:], " ")
		frames = append(frames, frame)
	}
	return frames
}

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:errorlint // sentinel panic value must be re-raised as is
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			if frames := appFrames(stack); len(frames) > 0 {
				slog.ErrorContext(r.Context(), "panic recovered", "because", rvr, "stack", frames)
			} else {
				slog.ErrorContext(r.Context(), "panic recovered", "because", rvr, "stack", string(stack))
			}

			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
