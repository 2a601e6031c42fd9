package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"agentflow/models"
)

func TestSendNotificationSMS(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	notifier := &fakeNotifier{}
	r := newTestRouter(database, newTestBundle(notifier))

	body := []byte(`{"type":"sms","message":"test alert","urgency":"high"}`)
	w := performRequest(r, "POST", "/api/notifications/send", body, authHeader(t, agent))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("expected one dispatch, got %+v", notifier.calls)
	}
	call := notifier.calls[0]
	if call.Kind != "sms" || call.To != agent.Phone || call.Message != "test alert" {
		t.Fatalf("unexpected dispatch: %+v", call)
	}

	var resp struct {
		Urgency string `json:"urgency"`
		Type    string `json:"type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Urgency != models.URGENCY_HIGH || resp.Type != NOTIFICATION_TYPE_SMS {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSendNotificationCallCarriesAgentName(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim Rodriguez", "jim@example.com", "+15550101")
	notifier := &fakeNotifier{}
	r := newTestRouter(database, newTestBundle(notifier))

	body := []byte(`{"type":"call","message":"urgent client message"}`)
	w := performRequest(r, "POST", "/api/notifications/send", body, authHeader(t, agent))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(notifier.calls) != 1 || notifier.calls[0].Kind != "call" {
		t.Fatalf("expected one call, got %+v", notifier.calls)
	}
	if notifier.calls[0].AgentName != "Jim Rodriguez" {
		t.Fatalf("agent name not forwarded: %+v", notifier.calls[0])
	}
}

func TestSendNotificationMissingPhone(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Pat", "pat@example.com", "")
	notifier := &fakeNotifier{}
	r := newTestRouter(database, newTestBundle(notifier))

	for _, kind := range []string{"sms", "call"} {
		body := []byte(`{"type":"` + kind + `","message":"alert"}`)
		w := performRequest(r, "POST", "/api/notifications/send", body, authHeader(t, agent))
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404 without a phone, got %d", kind, w.Code)
		}
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("dispatched without a phone: %+v", notifier.calls)
	}

	// push does not need a phone number
	w := performRequest(r, "POST", "/api/notifications/send", []byte(`{"type":"push","message":"alert"}`), authHeader(t, agent))
	if w.Code != http.StatusOK {
		t.Fatalf("push: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendNotificationInvalidType(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	w := performRequest(r, "POST", "/api/notifications/send", []byte(`{"type":"fax","message":"alert"}`), authHeader(t, agent))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = performRequest(r, "POST", "/api/notifications/send", []byte(`{"type":"sms"}`), authHeader(t, agent))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing message, got %d", w.Code)
	}
}

func TestNotificationPreferencesRoundTrip(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	w := performRequest(r, "GET", "/api/notifications/preferences", nil, authHeader(t, agent))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Preferences struct {
			HighUrgency []string `json:"highUrgency"`
		} `json:"preferences"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Preferences.HighUrgency) == 0 {
		t.Fatalf("defaults missing: %s", w.Body.String())
	}

	update := []byte(`{"preferences":{"highUrgency":["sms"]}}`)
	w = performRequest(r, "PUT", "/api/notifications/preferences", update, authHeader(t, agent))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
