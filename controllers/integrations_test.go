package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"agentflow/models"
)

func TestConnectIntegrationCreates(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	body := []byte(`{"provider":"followupboss","authToken":"tok-1"}`)
	w := performRequest(r, "POST", "/api/integrations/connect", body, authHeader(t, agent))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var integration models.Integration
	if err := database.First(&integration).Error; err != nil {
		t.Fatalf("integration not created: %v", err)
	}
	if integration.UserID != agent.ID || integration.Provider != models.PROVIDER_FOLLOWUPBOSS || !integration.IsActive {
		t.Fatalf("unexpected integration: %+v", integration)
	}
	if strings.Contains(w.Body.String(), "tok-1") {
		t.Fatal("auth token leaked in response body")
	}
}

func TestConnectIntegrationReconnectUpserts(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	first := []byte(`{"provider":"kvcore","authToken":"tok-1"}`)
	if w := performRequest(r, "POST", "/api/integrations/connect", first, authHeader(t, agent)); w.Code != http.StatusCreated {
		t.Fatalf("first connect: expected 201, got %d", w.Code)
	}

	// disconnect, then reconnect with new credentials
	var integration models.Integration
	if err := database.First(&integration).Error; err != nil {
		t.Fatalf("load integration: %v", err)
	}
	path := fmt.Sprintf("/api/integrations/%d", integration.ID)
	if w := performRequest(r, "DELETE", path, nil, authHeader(t, agent)); w.Code != http.StatusOK {
		t.Fatalf("disconnect: expected 200, got %d", w.Code)
	}

	second := []byte(`{"provider":"kvcore","authToken":"tok-2"}`)
	w := performRequest(r, "POST", "/api/integrations/connect", second, authHeader(t, agent))
	if w.Code != http.StatusOK {
		t.Fatalf("reconnect: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if got := countRows(t, database, &models.Integration{}); got != 1 {
		t.Fatalf("reconnect duplicated the row: %d", got)
	}
	if err := database.First(&integration, integration.ID).Error; err != nil {
		t.Fatalf("reload integration: %v", err)
	}
	if !integration.IsActive || integration.AccessToken != "tok-2" {
		t.Fatalf("reconnect did not refresh the row: %+v", integration)
	}
}

func TestConnectIntegrationValidation(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	cases := []string{
		`{"authToken":"tok"}`,
		`{"provider":"followupboss"}`,
		`{"provider":"zillow","authToken":"tok"}`,
	}
	for i, body := range cases {
		w := performRequest(r, "POST", "/api/integrations/connect", []byte(body), authHeader(t, agent))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, w.Code, w.Body.String())
		}
	}
}

func TestGetIntegrationsScopedToCaller(t *testing.T) {
	database := newTestDB(t)
	agentA := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	agentB := seedAgent(t, database, "Pam", "pam@example.com", "+15550102")
	seedIntegration(t, database, agentA.ID, models.PROVIDER_FOLLOWUPBOSS)
	seedIntegration(t, database, agentB.ID, models.PROVIDER_HUBSPOT)
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	w := performRequest(r, "GET", "/api/integrations", nil, authHeader(t, agentA))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Integrations []models.Integration `json:"integrations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Integrations) != 1 || resp.Integrations[0].Provider != models.PROVIDER_FOLLOWUPBOSS {
		t.Fatalf("unexpected listing: %+v", resp.Integrations)
	}
}

func TestDisconnectIntegration(t *testing.T) {
	database := newTestDB(t)
	agentA := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	agentB := seedAgent(t, database, "Pam", "pam@example.com", "+15550102")
	integration := seedIntegration(t, database, agentA.ID, models.PROVIDER_FOLLOWUPBOSS)
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	// another agent cannot disconnect it
	path := fmt.Sprintf("/api/integrations/%d", integration.ID)
	if w := performRequest(r, "DELETE", path, nil, authHeader(t, agentB)); w.Code != http.StatusNotFound {
		t.Fatalf("foreign disconnect: expected 404, got %d", w.Code)
	}

	if w := performRequest(r, "DELETE", path, nil, authHeader(t, agentA)); w.Code != http.StatusOK {
		t.Fatalf("disconnect: expected 200, got %d", w.Code)
	}

	// soft delete: the row stays but is inactive
	var reloaded models.Integration
	if err := database.First(&reloaded, integration.ID).Error; err != nil {
		t.Fatalf("row removed on disconnect: %v", err)
	}
	if reloaded.IsActive {
		t.Fatal("disconnect did not clear the active flag")
	}

	if w := performRequest(r, "DELETE", "/api/integrations/9999", nil, authHeader(t, agentA)); w.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d", w.Code)
	}
}
