package controllers

import (
	"log"
	"net/http"
	"strings"
	"time"

	dbpkg "agentflow/db"
	"agentflow/models"
	"agentflow/services"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type IncomingMessageRequest struct {
	ContactID int64  `json:"contactId"`
	Message   string `json:"message"`
	Channel   string `json:"channel"`
	Timestamp string `json:"timestamp"`
}

// POST /api/messages/incoming
// Unauthenticated direct ingestion: classifies, stores, and escalates one
// inbound message for an existing contact.
func ReceiveIncomingMessage(c *gin.Context) {
	var req IncomingMessageRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	if req.ContactID == 0 || strings.TrimSpace(req.Message) == "" || req.Channel == "" {
		RespondError(c, "contactId, message, and channel are required", http.StatusBadRequest)
		return
	}
	if !models.IsValidChannel(req.Channel) {
		RespondError(c, "channel must be sms or email", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	svc := services.Instance(c)
	if db == nil || svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	var contact models.Contact
	if err := db.First(&contact, req.ContactID).Error; err != nil {
		RespondError(c, "contact not found", http.StatusNotFound)
		return
	}

	ctx := c.Request.Context()
	urgency := svc.Classifier.Classify(ctx, req.Message)

	message := models.Message{
		ContactID: contact.ID,
		AgentID:   contact.UserID,
		Content:   req.Message,
		Channel:   req.Channel,
		Direction: models.MESSAGE_DIRECTION_INBOUND,
		Urgency:   urgency,
		Status:    models.MESSAGE_STATUS_PENDING,
	}
	if ts := strings.TrimSpace(req.Timestamp); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			message.CreatedAt = &parsed
		}
	}

	if err := db.Create(&message).Error; err != nil {
		RespondError(c, "failed to store message", http.StatusInternalServerError)
		return
	}

	var agent models.User
	if err := db.First(&agent, contact.UserID).Error; err == nil {
		if err := dispatchNotification(ctx, svc, agent, urgency, contact.Name, req.Message); err != nil {
			log.Printf("incoming message: notification dispatch skipped: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message received successfully",
		"data":    message,
		"urgency": urgency,
	})
}

type GenerateReplyRequest struct {
	ContactID  int64  `json:"contactId"`
	Tone       string `json:"tone"`
	VoiceInput string `json:"voiceInput"`
	Context    string `json:"context"`
	Channel    string `json:"channel"`
}

// POST /api/messages/generate-reply
// Drafts a reply in the agent's voice from CRM context and the agent's
// spoken instruction.
func GenerateReply(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req GenerateReplyRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ContactID == 0 || strings.TrimSpace(req.VoiceInput) == "" || req.Channel == "" {
		RespondError(c, "contactId, voiceInput, and channel are required", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	svc := services.Instance(c)
	if db == nil || svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	var contact models.Contact
	if err := db.Where("id = ? AND user_id = ?", req.ContactID, agent.ID).First(&contact).Error; err != nil {
		RespondError(c, "contact not found", http.StatusNotFound)
		return
	}

	// latest inbound message provides the client context for the draft
	var recent []models.Message
	if err := db.
		Where("contact_id = ?", contact.ID).
		Order("created_at desc, id desc").
		Limit(5).
		Find(&recent).Error; err != nil && !gorm.IsRecordNotFoundError(err) {
		RespondError(c, "failed to fetch messages", http.StatusInternalServerError)
		return
	}

	lastClientMessage := ""
	for _, m := range recent {
		if m.Direction == models.MESSAGE_DIRECTION_INBOUND {
			lastClientMessage = m.Content
			break
		}
	}

	propertyInfo := strings.TrimSpace(req.Context)
	if propertyInfo == "" {
		propertyInfo = strings.TrimSpace(contact.PropertyInfo)
	}
	if propertyInfo == "" {
		propertyInfo = "Property details not available"
	}

	tone := req.Tone
	if tone == "" {
		tone = "casual"
	}

	draft, err := svc.AI.GenerateReply(c.Request.Context(), services.ReplyRequest{
		AgentName:    agent.Name,
		ContactName:  contact.Name,
		ContactRole:  contact.Role,
		PropertyInfo: propertyInfo,
		LastMessage:  lastClientMessage,
		VoiceInput:   req.VoiceInput,
		Tone:         tone,
		Channel:      req.Channel,
	})
	if err != nil {
		log.Printf("generate reply: ai error: %v", err)
		RespondError(c, "failed to generate reply", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"draft": draft})
}

// MessageListItem is one row of the message listing, joined with the
// contact's name and role.
type MessageListItem struct {
	ID          int64      `json:"id"`
	ContactID   int64      `json:"contact_id"`
	AgentID     int64      `json:"agent_id"`
	Content     string     `json:"content"`
	Channel     string     `json:"channel"`
	Direction   string     `json:"direction"`
	Urgency     string     `json:"urgency"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"created_at"`
	ContactName string     `json:"contact_name"`
	ContactRole string     `json:"contact_role"`
}

// GET /api/messages?contactId=
// Lists the caller's messages, newest first, restricted to the caller's own
// contacts.
func GetMessages(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	query := db.Table("messages").
		Select("messages.id, messages.contact_id, messages.agent_id, messages.content, messages.channel, messages.direction, messages.urgency, messages.status, messages.created_at, contacts.name AS contact_name, contacts.role AS contact_role").
		Joins("JOIN contacts ON contacts.id = messages.contact_id").
		Where("contacts.user_id = ?", agent.ID).
		Order("messages.created_at desc, messages.id desc")

	if contactID := strings.TrimSpace(c.Query("contactId")); contactID != "" {
		query = query.Where("messages.contact_id = ?", contactID)
	}

	var items []MessageListItem
	if err := query.Scan(&items).Error; err != nil {
		RespondError(c, "failed to fetch messages", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"messages": items})
}
