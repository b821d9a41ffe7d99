package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMXResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		Status(http.StatusOK).
		BodyString("test").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("HX-Trigger") != "" {
		t.Error("HX-Trigger must not be set without triggers")
	}
}

func TestHTMXResponseBuilder_Triggers(t *testing.T) {
	w := httptest.NewRecorder()

	NewHTMXResponse().
		TriggerRecordsChanged("create", "abc").
		TriggerFormReset().
		TriggerSuccessNotification("Saída adicionada").
		Write(w)

	trigger := w.Header().Get("HX-Trigger")
	for _, part := range []string{
		`"records:changed"`,
		`"form:reset"`,
		`"show-notification"`,
		`"op":"create"`,
		`"id":"abc"`,
		`"type":"success"`,
		`"duration":3000`,
	} {
		if !strings.Contains(trigger, part) {
			t.Errorf("HX-Trigger missing %q: %s", part, trigger)
		}
	}
}

func TestHTMXResponseBuilder_BlockingNotification(t *testing.T) {
	w := httptest.NewRecorder()
	UnprocessableEntityError("<b>bad</b>").
		TriggerBlockingNotification("Por favor, preencha todos os campos.").
		Write(w)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Status code = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "&lt;b&gt;bad&lt;/b&gt;") {
		t.Errorf("message must be escaped: %s", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	trigger := w.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, `"duration":0`) || !strings.Contains(trigger, `"type":"warning"`) {
		t.Errorf("unexpected trigger %s", trigger)
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowedError("DELETE, POST").Write(w)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Status code = %d", w.Code)
	}
	if w.Header().Get("Allow") != "DELETE, POST" {
		t.Errorf("Allow = %q", w.Header().Get("Allow"))
	}
}
