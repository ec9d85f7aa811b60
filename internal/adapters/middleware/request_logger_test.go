package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

func TestRedactJSON(t *testing.T) {
	in := `{"class":"5A","username":"kumarn","Password":"kumarpw","nested":[{"token":"abc"}]}`

	var out map[string]any
	if err := json.Unmarshal(redactJSON([]byte(in)), &out); err != nil {
		t.Fatalf("redacted body is not JSON: %v", err)
	}
	if out["Password"] != "***redacted***" {
		t.Errorf("password not redacted: %v", out["Password"])
	}
	if out["username"] != "kumarn" {
		t.Errorf("username should be kept, got %v", out["username"])
	}
	nested := out["nested"].([]any)[0].(map[string]any)
	if nested["token"] != "***redacted***" {
		t.Errorf("nested token not redacted: %v", nested["token"])
	}

	if got := string(redactJSON([]byte("not json"))); got != "not json" {
		t.Errorf("non-JSON body should pass through, got %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenBody string
	var scoped bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seenBody = string(b)
		scoped = logging.FromCtx(r.Context()) != logging.Base()
		w.WriteHeader(http.StatusTeapot)
	})

	body := `{"username":"admin","password":"s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	RequestLogger(base)(next).ServeHTTP(rec, req)

	if seenBody != body {
		t.Errorf("handler should see the original body, got %q", seenBody)
	}
	if !scoped {
		t.Error("expected a request-scoped logger in the context")
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("expected a generated request id")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "WARN" || entry["status"] != float64(http.StatusTeapot) {
		t.Errorf("unexpected log entry %v", entry)
	}
	if strings.Contains(buf.String(), "s3cret") {
		t.Error("password leaked into the log")
	}
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.Header.Set(requestIDHeader, "req-42")
	rec := httptest.NewRecorder()

	RequestLogger(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "req-42" {
		t.Errorf("expected req-42, got %q", got)
	}
}

func TestRequestLogger_LargeBodyReachesHandlerWhole(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	type entry struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	roster := make([]entry, 300)
	for i := range roster {
		roster[i] = entry{Username: fmt.Sprintf("student%03d", i), Password: fmt.Sprintf("pw-%03d", i)}
	}
	body, err := json.Marshal(map[string]any{"students": roster})
	if err != nil {
		t.Fatal(err)
	}
	if len(body) <= reqBodyLimit {
		t.Fatalf("roster of %d bytes does not exceed the log limit", len(body))
	}

	var got struct {
		Students []entry `json:"students"`
	}
	var decodeErr error
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decodeErr = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/classes/5A/students", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	RequestLogger(base)(next).ServeHTTP(httptest.NewRecorder(), req)

	if decodeErr != nil {
		t.Fatalf("handler could not decode the roster: %v", decodeErr)
	}
	if len(got.Students) != 300 || got.Students[299].Username != "student299" {
		t.Errorf("expected the full roster, got %d students", len(got.Students))
	}

	var logged map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logged); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if logged["req_body_truncated"] != true {
		t.Errorf("expected the body to be marked truncated, got %v", logged)
	}
	if strings.Contains(buf.String(), "pw-000") {
		t.Error("roster password leaked into the log")
	}
}
