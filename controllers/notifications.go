package controllers

import (
	"log"
	"net/http"
	"strings"

	"agentflow/models"
	"agentflow/services"

	"github.com/gin-gonic/gin"
)

/************************************************
/**** MARK: NOTIFICATION TYPES ****/
/************************************************/
const NOTIFICATION_TYPE_CALL = "call"
const NOTIFICATION_TYPE_SMS = "sms"
const NOTIFICATION_TYPE_PUSH = "push"

type SendNotificationRequest struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Urgency string `json:"urgency"`
}

// POST /api/notifications/send
// Direct notification to the calling agent's own phone. A missing phone
// number is a 404 here, unlike webhook-triggered dispatch where it is only
// logged; both sites share dispatchNotification's channel policy.
func SendNotification(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req SendNotificationRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Type == "" || strings.TrimSpace(req.Message) == "" {
		RespondError(c, "type and message are required", http.StatusBadRequest)
		return
	}

	svc := services.Instance(c)
	if svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	var method string

	switch req.Type {
	case NOTIFICATION_TYPE_SMS:
		if strings.TrimSpace(agent.Phone) == "" {
			RespondError(c, "agent phone number not found", http.StatusNotFound)
			return
		}
		if err := svc.Notifier.SendSMS(ctx, agent.Phone, req.Message); err != nil {
			log.Printf("notification: sms error: %v", err)
			RespondError(c, "failed to send SMS", http.StatusInternalServerError)
			return
		}
		method = "SMS"

	case NOTIFICATION_TYPE_CALL:
		if strings.TrimSpace(agent.Phone) == "" {
			RespondError(c, "agent phone number not found", http.StatusNotFound)
			return
		}
		if err := svc.Notifier.MakeCall(ctx, agent.Phone, req.Message, agent.Name); err != nil {
			log.Printf("notification: call error: %v", err)
			RespondError(c, "failed to send Voice Call", http.StatusInternalServerError)
			return
		}
		method = "Voice Call"

	case NOTIFICATION_TYPE_PUSH:
		// push delivery has no provider yet; logged so the API shape is stable
		log.Printf("notification: push to agent %d: %s", agent.ID, req.Message)
		method = "Push Notification"

	default:
		RespondError(c, "invalid notification type", http.StatusBadRequest)
		return
	}

	urgency := req.Urgency
	if !models.IsValidUrgency(urgency) {
		urgency = models.URGENCY_MEDIUM
	}

	RespondSuccess(c, gin.H{
		"message": "Notification sent successfully via " + method,
		"type":    req.Type,
		"urgency": urgency,
	})
}

// GET /api/notifications/preferences
// Static defaults for now; per-agent persistence is not implemented.
func GetNotificationPreferences(c *gin.Context) {
	if _, ok := GetUserLogged(c); !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	RespondSuccess(c, gin.H{
		"preferences": gin.H{
			"highUrgency":   []string{NOTIFICATION_TYPE_CALL, NOTIFICATION_TYPE_SMS},
			"mediumUrgency": []string{NOTIFICATION_TYPE_SMS},
			"lowUrgency":    []string{NOTIFICATION_TYPE_PUSH},
			"workingHours": gin.H{
				"start":    "08:00",
				"end":      "20:00",
				"timezone": "America/New_York",
			},
		},
	})
}

type UpdatePreferencesRequest struct {
	Preferences map[string]any `json:"preferences"`
}

// PUT /api/notifications/preferences
func UpdateNotificationPreferences(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	log.Printf("notification: updated preferences for agent %d", agent.ID)

	RespondSuccess(c, gin.H{
		"message":     "Notification preferences updated successfully",
		"preferences": req.Preferences,
	})
}
