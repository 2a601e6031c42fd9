package controllers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	dbpkg "agentflow/db"
	"agentflow/models"
	"agentflow/services"
	"agentflow/tools"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := dbpkg.AutoMigrate(database); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

type notifierCall struct {
	Kind      string // sms | call
	To        string
	Message   string
	AgentName string
}

// fakeNotifier records every dispatch so tests can assert on channel choice
// and message contents.
type fakeNotifier struct {
	calls []notifierCall
}

func (f *fakeNotifier) SendSMS(ctx context.Context, to string, message string) error {
	f.calls = append(f.calls, notifierCall{Kind: "sms", To: to, Message: message})
	return nil
}

func (f *fakeNotifier) MakeCall(ctx context.Context, to string, message string, agentName string) error {
	f.calls = append(f.calls, notifierCall{Kind: "call", To: to, Message: message, AgentName: agentName})
	return nil
}

func newTestBundle(notifier services.Notifier) *services.Bundle {
	return &services.Bundle{
		AI:         services.StubAI{},
		Classifier: tools.KeywordClassifier{},
		Notifier:   notifier,
		Speech:     services.StubSpeech{},
	}
}

// newTestRouter registers all routes the controller tests exercise against a
// fresh engine with the db and service bundle injected.
func newTestRouter(database *gorm.DB, bundle *services.Bundle) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	r.Use(services.SetToContext(bundle))

	r.POST("/webhooks/crm/:provider", HandleCRMWebhook)
	r.POST("/webhooks/twilio/sms", HandleTwilioSMS)
	r.POST("/webhooks/twilio/voice", HandleTwilioVoiceRecording)

	r.POST("/api/auth/register", Register)
	r.POST("/api/auth/login", Login)
	r.POST("/api/messages/incoming", ReceiveIncomingMessage)

	auth := r.Group("", AuthRequired())
	auth.GET("/api/auth/profile", Profile)
	auth.GET("/api/messages", GetMessages)
	auth.POST("/api/messages/generate-reply", GenerateReply)
	auth.POST("/api/notifications/send", SendNotification)
	auth.GET("/api/notifications/preferences", GetNotificationPreferences)
	auth.PUT("/api/notifications/preferences", UpdateNotificationPreferences)
	auth.POST("/api/integrations/connect", ConnectIntegration)
	auth.GET("/api/integrations", GetIntegrations)
	auth.DELETE("/api/integrations/:integrationId", DisconnectIntegration)
	auth.POST("/api/voice/receive-input", ReceiveVoiceInput)
	auth.POST("/api/voice/upload", ProcessAudioFile)
	auth.POST("/api/voice/generate-response", GenerateVoiceResponse)
	auth.GET("/api/voice/voices", GetVoices)
	auth.GET("/api/voice/sessions", GetVoiceSessions)

	return r
}

func performRequest(r *gin.Engine, method string, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedAgent(t *testing.T, database *gorm.DB, name string, email string, phone string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Password: "x", Phone: phone}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("seed agent: %v", err)
	}
	return user
}

func seedIntegration(t *testing.T, database *gorm.DB, userID int64, provider string) models.Integration {
	t.Helper()
	integration := models.Integration{UserID: userID, Provider: provider, AccessToken: "tok", IsActive: true}
	if err := database.Create(&integration).Error; err != nil {
		t.Fatalf("seed integration: %v", err)
	}
	return integration
}

func authHeader(t *testing.T, user models.User) map[string]string {
	t.Helper()
	SetJWTSecret("test-secret")
	token, err := signHS256JWT("test-secret", map[string]any{
		"sub":   user.ID,
		"email": user.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

func countRows(t *testing.T, database *gorm.DB, model any) int {
	t.Helper()
	var count int
	if err := database.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return count
}
