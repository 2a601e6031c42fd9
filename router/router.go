package router

import (
	"log"
	"net/http"
	"time"

	"agentflow/config"
	"agentflow/controllers"
	"agentflow/middleware"

	"github.com/gin-gonic/gin"
)

// Initialize wires all routes and middlewares: public webhooks, public auth,
// and bearer-token-guarded API routes.
func Initialize(r *gin.Engine, cfg config.Configuration) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())

	database := "sqlite3"
	if cfg.Database != "" {
		database = cfg.Database
	}
	ai := "stub"
	if cfg.OpenAI.ApiKey != "" {
		ai = "openai"
	}
	notifier := "stub"
	if cfg.Twilio.AccountSid != "" {
		notifier = "twilio"
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"message":   "AgentFlow API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services": gin.H{
				"database": database,
				"ai":       ai,
				"notifier": notifier,
			},
		})
	})

	// Webhooks (no auth: called by external providers)
	webhooks := r.Group("/webhooks")
	webhooks.POST("/crm/:provider", Logger(), controllers.HandleCRMWebhook)
	webhooks.POST("/twilio/sms", Logger(), controllers.HandleTwilioSMS)
	webhooks.POST("/twilio/voice", Logger(), controllers.HandleTwilioVoiceRecording)

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/auth/register", Logger(), controllers.Register)
	api.POST("/auth/login", Logger(), controllers.Login)
	api.POST("/messages/incoming", Logger(), controllers.ReceiveIncomingMessage)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	auth.GET("/auth/profile", Logger(), controllers.Profile)

	// Messages
	auth.GET("/messages", Logger(), controllers.GetMessages)
	auth.POST("/messages/generate-reply", Logger(), controllers.GenerateReply)

	// Notifications
	auth.POST("/notifications/send", Logger(), controllers.SendNotification)
	auth.GET("/notifications/preferences", Logger(), controllers.GetNotificationPreferences)
	auth.PUT("/notifications/preferences", Logger(), controllers.UpdateNotificationPreferences)

	// Integrations
	auth.POST("/integrations/connect", Logger(), controllers.ConnectIntegration)
	auth.GET("/integrations", Logger(), controllers.GetIntegrations)
	auth.DELETE("/integrations/:integrationId", Logger(), controllers.DisconnectIntegration)

	// Voice
	auth.POST("/voice/receive-input", Logger(), controllers.ReceiveVoiceInput)
	auth.POST("/voice/generate-response", Logger(), controllers.GenerateVoiceResponse)
	auth.GET("/voice/voices", Logger(), controllers.GetVoices)
	auth.POST("/voice/upload", Logger(), controllers.ProcessAudioFile)
	auth.GET("/voice/sessions", Logger(), controllers.GetVoiceSessions)

	log.Printf("Routes initialized")
}
