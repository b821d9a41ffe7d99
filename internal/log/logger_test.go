package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentRecords, Output: &buf})
	l.Info("Record created", FieldRecordID, "abc")
	l.Debug("hidden")

	out := buf.String()
	if !strings.Contains(out, "component=records") || !strings.Contains(out, "record_id=abc") {
		t.Fatalf("missing fields: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry must be filtered: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentAdvisor).Warn("slow")
	if !strings.Contains(buf.String(), "component=advisor") {
		t.Fatalf("expected advisor component: %s", buf.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := New(Config{Level: slog.LevelInfo, Component: ComponentHTTP, Output: &buf})

	h := Middleware(base)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).Info("inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Fatalf("request id not propagated: %s", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if l := FromContext(context.Background()); l == nil || l.Component() != "unknown" {
		t.Fatalf("unexpected fallback logger: %+v", l)
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentRecords).
		WithOperation(OpCreate).
		WithRecord("id1", "expense", "Lazer", 500).
		WithError(errors.New("boom")).
		WithError(nil)
	if f[FieldError] != "boom" || f[FieldAmountCents] != int64(500) || f[FieldOperation] != OpCreate {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != len(f)*2 {
		t.Fatal("ToSlice must hold key/value pairs")
	}
}
