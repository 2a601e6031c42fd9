package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	dbpkg "agentflow/db"
	"agentflow/models"
	"agentflow/services"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

var (
	ErrNoActiveIntegration  = errors.New("no active integration for provider")
	ErrNoDeliverableChannel = errors.New("agent has no deliverable channel")
)

// InboundMessage is the canonical record every provider-specific normalizer
// produces. Downstream, equivalent data yields identical contact and message
// rows regardless of which CRM shape delivered it.
type InboundMessage struct {
	ContactID    string
	ContactName  string
	ContactEmail string
	ContactPhone string
	Message      string
	Channel      string // sms | email
	Source       string
}

// ContactUpsert carries the identifying fields the resolver matches on.
type ContactUpsert struct {
	ExternalID string
	Name       string
	Email      string
	Phone      string
	Source     string
}

// flexID accepts both string and numeric JSON ids (FollowUpBoss and HubSpot
// send numbers, kvCORE sends strings).
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// POST /webhooks/crm/:provider
func HandleCRMWebhook(c *gin.Context) {
	provider := strings.ToLower(strings.TrimSpace(c.Param("provider")))
	if !models.IsValidProvider(provider) {
		RespondError(c, "unsupported CRM provider", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	svc := services.Instance(c)
	if db == nil || svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	ctx := c.Request.Context()
	switch provider {
	case models.PROVIDER_FOLLOWUPBOSS:
		err = handleFollowUpBossWebhook(ctx, db, svc, raw)
	case models.PROVIDER_KVCORE:
		err = handleKvCoreWebhook(ctx, db, svc, raw)
	case models.PROVIDER_HUBSPOT:
		err = handleHubSpotWebhook(ctx, db, svc, raw)
	}

	if err != nil {
		log.Printf("webhook: %s processing error: %v", provider, err)
		RespondError(c, "failed to process webhook", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"message": "webhook processed successfully"})
}

// FollowUpBoss sends an event/data envelope.
type followUpBossPayload struct {
	Event string `json:"event"`
	Data  struct {
		Person struct {
			ID    flexID `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"person"`
		Message struct {
			Body string `json:"body"`
			Type string `json:"type"`
		} `json:"message"`
	} `json:"data"`
}

func handleFollowUpBossWebhook(ctx context.Context, db *gorm.DB, svc *services.Bundle, raw []byte) error {
	var payload followUpBossPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid followupboss payload: %w", err)
	}

	switch payload.Event {
	case "person.message.received":
		channel := models.MESSAGE_CHANNEL_EMAIL
		if payload.Data.Message.Type == "sms" {
			channel = models.MESSAGE_CHANNEL_SMS
		}
		return processIncomingMessage(ctx, db, svc, InboundMessage{
			ContactID:    string(payload.Data.Person.ID),
			ContactName:  payload.Data.Person.Name,
			ContactEmail: payload.Data.Person.Email,
			ContactPhone: payload.Data.Person.Phone,
			Message:      payload.Data.Message.Body,
			Channel:      channel,
			Source:       models.PROVIDER_FOLLOWUPBOSS,
		})

	case "person.created":
		return processNewContact(db, ContactUpsert{
			ExternalID: string(payload.Data.Person.ID),
			Name:       payload.Data.Person.Name,
			Email:      payload.Data.Person.Email,
			Phone:      payload.Data.Person.Phone,
			Source:     models.PROVIDER_FOLLOWUPBOSS,
		})
	}

	// unknown event types are acknowledged without action
	return nil
}

// kvCORE sends an EventType/Data envelope.
type kvCorePayload struct {
	EventType string `json:"EventType"`
	Data      struct {
		ContactID    flexID `json:"ContactId"`
		ContactName  string `json:"ContactName"`
		ContactEmail string `json:"ContactEmail"`
		ContactPhone string `json:"ContactPhone"`
		MessageBody  string `json:"MessageBody"`
		MessageType  string `json:"MessageType"`
	} `json:"Data"`
}

func handleKvCoreWebhook(ctx context.Context, db *gorm.DB, svc *services.Bundle, raw []byte) error {
	var payload kvCorePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid kvcore payload: %w", err)
	}

	switch payload.EventType {
	case "ContactMessage":
		channel := models.MESSAGE_CHANNEL_EMAIL
		if strings.EqualFold(payload.Data.MessageType, "sms") {
			channel = models.MESSAGE_CHANNEL_SMS
		}
		return processIncomingMessage(ctx, db, svc, InboundMessage{
			ContactID:    string(payload.Data.ContactID),
			ContactName:  payload.Data.ContactName,
			ContactEmail: payload.Data.ContactEmail,
			ContactPhone: payload.Data.ContactPhone,
			Message:      payload.Data.MessageBody,
			Channel:      channel,
			Source:       models.PROVIDER_KVCORE,
		})

	case "NewContact":
		return processNewContact(db, ContactUpsert{
			ExternalID: string(payload.Data.ContactID),
			Name:       payload.Data.ContactName,
			Email:      payload.Data.ContactEmail,
			Phone:      payload.Data.ContactPhone,
			Source:     models.PROVIDER_KVCORE,
		})
	}

	return nil
}

// HubSpot sends a subscription/property-change envelope.
type hubSpotPayload struct {
	SubscriptionType string `json:"subscriptionType"`
	ObjectID         flexID `json:"objectId"`
	PropertyName     string `json:"propertyName"`
	PropertyValue    string `json:"propertyValue"`
}

func handleHubSpotWebhook(ctx context.Context, db *gorm.DB, svc *services.Bundle, raw []byte) error {
	var payload hubSpotPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid hubspot payload: %w", err)
	}

	if payload.SubscriptionType == "contact.creation" {
		// Contact creation carries no identifying fields beyond the object id;
		// the record is created on first message instead.
		log.Printf("webhook: new hubspot contact created: %s", payload.ObjectID)
		return nil
	}

	if payload.SubscriptionType == "contact.propertyChange" && payload.PropertyName == "last_message" {
		return processIncomingMessage(ctx, db, svc, InboundMessage{
			ContactID: string(payload.ObjectID),
			Message:   payload.PropertyValue,
			Channel:   models.MESSAGE_CHANNEL_EMAIL,
			Source:    models.PROVIDER_HUBSPOT,
		})
	}

	return nil
}

// processIncomingMessage runs the full inbound pipeline: resolve contact,
// classify urgency, persist the message, dispatch the notification.
// A failed dispatch is logged and swallowed; the stored message is not
// rolled back.
func processIncomingMessage(ctx context.Context, db *gorm.DB, svc *services.Bundle, in InboundMessage) error {
	contact, err := findOrCreateContact(db, ContactUpsert{
		ExternalID: in.ContactID,
		Name:       in.ContactName,
		Email:      in.ContactEmail,
		Phone:      in.ContactPhone,
		Source:     in.Source,
	})
	if err != nil {
		return err
	}

	urgency := svc.Classifier.Classify(ctx, in.Message)

	message := models.Message{
		ContactID: contact.ID,
		AgentID:   contact.UserID,
		Content:   in.Message,
		Channel:   in.Channel,
		Direction: models.MESSAGE_DIRECTION_INBOUND,
		Urgency:   urgency,
		Status:    models.MESSAGE_STATUS_PENDING,
	}
	if err := db.Create(&message).Error; err != nil {
		return fmt.Errorf("storage error: %w", err)
	}

	var agent models.User
	if err := db.First(&agent, contact.UserID).Error; err != nil {
		log.Printf("webhook: agent %d not found for dispatch: %v", contact.UserID, err)
		return nil
	}

	contactName := in.ContactName
	if contactName == "" {
		contactName = contact.Name
	}
	if err := dispatchNotification(ctx, svc, agent, urgency, contactName, in.Message); err != nil {
		log.Printf("webhook: notification dispatch skipped: %v", err)
	}

	log.Printf("webhook: processed %s urgency message from %s", urgency, in.Source)
	return nil
}

// findOrCreateContact resolves a contact by external id, email or phone
// (a single OR lookup; empty fields are excluded so they cannot match other
// rows with empty fields). When nothing matches, the active integration for
// the source determines the owning agent and a new lead is created. A
// concurrent delivery that wins the unique index race is resolved by
// re-reading.
func findOrCreateContact(db *gorm.DB, up ContactUpsert) (*models.Contact, error) {
	var conds []string
	var args []any
	if up.ExternalID != "" {
		conds = append(conds, "external_id = ?")
		args = append(args, up.ExternalID)
	}
	if up.Email != "" {
		conds = append(conds, "email = ?")
		args = append(args, up.Email)
	}
	if up.Phone != "" {
		conds = append(conds, "phone = ?")
		args = append(args, up.Phone)
	}

	if len(conds) > 0 {
		var existing models.Contact
		err := db.Where(strings.Join(conds, " OR "), args...).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !gorm.IsRecordNotFoundError(err) {
			return nil, err
		}
	}

	var integration models.Integration
	if err := db.
		Where("provider = ? AND is_active = ?", up.Source, true).
		First(&integration).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoActiveIntegration, up.Source)
		}
		return nil, err
	}

	name := strings.TrimSpace(up.Name)
	if name == "" {
		name = "Unknown Contact"
	}

	contact := models.Contact{
		UserID: integration.UserID,
		Name:   name,
		Email:  up.Email,
		Phone:  up.Phone,
		Role:   models.CONTACT_ROLE_LEAD,
		Status: models.CONTACT_STATUS_NEW,
	}
	if up.ExternalID != "" {
		externalID := up.ExternalID
		contact.ExternalID = &externalID
	}

	if err := db.Create(&contact).Error; err != nil {
		if up.ExternalID != "" {
			var existing models.Contact
			if db.Where("user_id = ? AND external_id = ?", integration.UserID, up.ExternalID).
				First(&existing).Error == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	return &contact, nil
}

// processNewContact handles provider "new contact" events: resolve-or-create
// only, no message and no notification.
func processNewContact(db *gorm.DB, up ContactUpsert) error {
	contact, err := findOrCreateContact(db, up)
	if err != nil {
		return err
	}
	log.Printf("webhook: processed new contact from %s: %s", up.Source, contact.Name)
	return nil
}

// dispatchNotification escalates an inbound message to the agent:
// high urgency places a voice call, medium sends an SMS, low does nothing.
// An agent without a phone number yields ErrNoDeliverableChannel so every
// call site applies the same policy.
func dispatchNotification(ctx context.Context, svc *services.Bundle, agent models.User, urgency string, contactName string, message string) error {
	if urgency == models.URGENCY_LOW {
		return nil
	}
	if strings.TrimSpace(agent.Phone) == "" {
		return ErrNoDeliverableChannel
	}

	excerpt := Excerpt(message, 100)

	switch urgency {
	case models.URGENCY_HIGH:
		name := contactName
		if name == "" {
			name = "A client"
		}
		callMessage := fmt.Sprintf("%s just sent an urgent message: %q Want me to help you reply?", name, excerpt)
		return svc.Notifier.MakeCall(ctx, agent.Phone, callMessage, agent.Name)

	case models.URGENCY_MEDIUM:
		name := contactName
		if name == "" {
			name = "client"
		}
		smsMessage := fmt.Sprintf("🚨 New %s priority message from %s: %q - AgentFlow", urgency, name, excerpt)
		return svc.Notifier.SendSMS(ctx, agent.Phone, smsMessage)
	}

	return nil
}

// Excerpt truncates a message to at most max runes and appends an ellipsis.
func Excerpt(message string, max int) string {
	runes := []rune(message)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + "..."
}
