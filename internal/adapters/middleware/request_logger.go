package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	reqBodyLimit    = 8 * 1024 // 8KB
)

var redactedKeys = []string{"password", "authorization", "token", "secret"}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// RequestLogger logs every request once it completes and stores a
// request-scoped logger in the context for logging.FromCtx.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			l := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
			)

			var reqBody string
			var truncated bool
			if strings.Contains(r.Header.Get("Content-Type"), "application/json") && r.Body != nil {
				var head []byte
				head, truncated = peekBody(r, reqBodyLimit)
				// A cut body cannot be parsed for redaction, so it is not logged.
				if !truncated {
					reqBody = string(redactJSON(head))
				}
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(logging.WithCtx(r.Context(), l)))

			attrs := []any{
				"status", sw.status,
				"dur_ms", time.Since(start).Milliseconds(),
				"resp_bytes", sw.bytes,
			}
			if reqBody != "" {
				attrs = append(attrs, "req_body", reqBody)
			}
			if truncated {
				attrs = append(attrs, "req_body_truncated", true)
			}

			switch {
			case sw.status >= http.StatusInternalServerError:
				l.Error("http_request", attrs...)
			case sw.status >= http.StatusBadRequest:
				l.Warn("http_request", attrs...)
			default:
				l.Info("http_request", attrs...)
			}
		})
	}
}

// replayBody serves the bytes already read and then the rest of the
// original body. Close goes to the original.
type replayBody struct {
	io.Reader
	io.Closer
}

// peekBody reads up to n bytes of the request body for logging and puts
// them back in front of the unread remainder, so the handler still sees the
// whole body. It reports whether the body is longer than n.
func peekBody(r *http.Request, n int) ([]byte, bool) {
	var buf bytes.Buffer
	_, _ = io.CopyN(&buf, r.Body, int64(n+1))
	b := buf.Bytes()
	r.Body = replayBody{
		Reader: io.MultiReader(bytes.NewReader(b), r.Body),
		Closer: r.Body,
	}
	if len(b) > n {
		return b[:n], true
	}
	return b, false
}

func redactJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}
	var m any
	if err := json.Unmarshal(raw, &m); err != nil {
		return raw
	}
	out, err := json.Marshal(scrub(m))
	if err != nil {
		return raw
	}
	return out
}

func scrub(x any) any {
	switch v := x.(type) {
	case map[string]any:
		for k, val := range v {
			if isRedacted(k) {
				v[k] = "***redacted***"
				continue
			}
			v[k] = scrub(val)
		}
		return v
	case []any:
		for i := range v {
			v[i] = scrub(v[i])
		}
		return v
	default:
		return v
	}
}

func isRedacted(key string) bool {
	return slices.Contains(redactedKeys, strings.ToLower(key))
}
