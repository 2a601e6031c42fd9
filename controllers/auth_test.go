package controllers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"agentflow/models"
)

func TestRegisterAndLogin(t *testing.T) {
	database := newTestDB(t)
	SetJWTSecret("test-secret")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	register := []byte(`{"name":"Jim","email":"jim@example.com","password":"hunter2","phone":"+15550101"}`)
	w := performRequest(r, "POST", "/api/auth/register", register, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "hunter2") {
		t.Fatal("password leaked in register response")
	}

	var user models.User
	if err := database.Where("email = ?", "jim@example.com").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if user.Password == "hunter2" {
		t.Fatal("password stored in plaintext")
	}

	login := []byte(`{"email":"jim@example.com","password":"hunter2"}`)
	w = performRequest(r, "POST", "/api/auth/login", login, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	w = performRequest(r, "GET", "/api/auth/profile", nil, map[string]string{"Authorization": "Bearer " + resp.Token})
	if w.Code != http.StatusOK {
		t.Fatalf("profile: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "jim@example.com") {
		t.Fatalf("profile missing user: %s", w.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	database := newTestDB(t)
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	cases := []string{
		`{"email":"a@b.com","password":"x"}`,
		`{"name":"Jim","password":"x"}`,
		`{"name":"Jim","email":"a@b.com"}`,
	}
	for i, body := range cases {
		w := performRequest(r, "POST", "/api/auth/register", []byte(body), nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, w.Code)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	database := newTestDB(t)
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	body := []byte(`{"name":"Jim","email":"jim@example.com","password":"hunter2"}`)
	if w := performRequest(r, "POST", "/api/auth/register", body, nil); w.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", w.Code)
	}
	w := performRequest(r, "POST", "/api/auth/register", body, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", w.Code)
	}
	if got := countRows(t, database, &models.User{}); got != 1 {
		t.Fatalf("expected 1 user, got %d", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	database := newTestDB(t)
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	register := []byte(`{"name":"Jim","email":"jim@example.com","password":"hunter2"}`)
	if w := performRequest(r, "POST", "/api/auth/register", register, nil); w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", w.Code)
	}

	for _, body := range []string{
		`{"email":"jim@example.com","password":"wrong"}`,
		`{"email":"nobody@example.com","password":"hunter2"}`,
	} {
		w := performRequest(r, "POST", "/api/auth/login", []byte(body), nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d for %s", w.Code, body)
		}
	}
}

func TestAuthMiddlewareStatusCodes(t *testing.T) {
	database := newTestDB(t)
	SetJWTSecret("test-secret")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	// no token at all
	w := performRequest(r, "GET", "/api/auth/profile", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", w.Code)
	}

	// garbage token
	w = performRequest(r, "GET", "/api/auth/profile", nil, map[string]string{"Authorization": "Bearer not.a.jwt"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("invalid token: expected 403, got %d", w.Code)
	}

	// token signed with the wrong secret
	bad, err := signHS256JWT("other-secret", map[string]any{"sub": int64(1), "email": "x@y.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w = performRequest(r, "GET", "/api/auth/profile", nil, map[string]string{"Authorization": "Bearer " + bad})
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong secret: expected 403, got %d", w.Code)
	}

	// valid signature but the user no longer exists
	ghost, err := signHS256JWT("test-secret", map[string]any{"sub": int64(999), "email": "x@y.com"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w = performRequest(r, "GET", "/api/auth/profile", nil, map[string]string{"Authorization": "Bearer " + ghost})
	if w.Code != http.StatusForbidden {
		t.Fatalf("unknown user: expected 403, got %d", w.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	database := newTestDB(t)
	agent := seedAgent(t, database, "Jim", "jim@example.com", "+15550101")
	SetJWTSecret("test-secret")
	r := newTestRouter(database, newTestBundle(&fakeNotifier{}))

	expired, err := signHS256JWT("test-secret", map[string]any{
		"sub":   agent.ID,
		"email": agent.Email,
		"iat":   0,
		"exp":   1,
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	w := performRequest(r, "GET", "/api/auth/profile", nil, map[string]string{"Authorization": "Bearer " + expired})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expired token: expected 403, got %d", w.Code)
	}
}
