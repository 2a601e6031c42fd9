package controllers

import (
	"log"
	"net/http"
	"strings"

	dbpkg "agentflow/db"
	"agentflow/models"
	"agentflow/services"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

const twilioSMSAck = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Message>Thank you for your message. AgentFlow is processing it and will get back to you soon.</Message>
</Response>`

// POST /webhooks/twilio/sms
// Twilio posts form-encoded callbacks. When the sender matches a known
// contact the message runs through the regular inbound pipeline; either way
// Twilio gets a TwiML acknowledgement.
func HandleTwilioSMS(c *gin.Context) {
	from := strings.TrimSpace(c.PostForm("From"))
	body := strings.TrimSpace(c.PostForm("Body"))
	sid := strings.TrimSpace(c.PostForm("MessageSid"))

	log.Printf("twilio webhook: inbound SMS from %s (sid=%s)", from, sid)

	db := dbpkg.DBInstance(c)
	svc := services.Instance(c)

	if db != nil && svc != nil && from != "" && body != "" {
		var contact models.Contact
		err := db.Where("phone = ?", from).First(&contact).Error
		switch {
		case err == nil:
			in := InboundMessage{
				ContactID:    derefString(contact.ExternalID),
				ContactName:  contact.Name,
				ContactPhone: contact.Phone,
				Message:      body,
				Channel:      models.MESSAGE_CHANNEL_SMS,
				Source:       "twilio",
			}
			if err := processIncomingMessage(c.Request.Context(), db, svc, in); err != nil {
				log.Printf("twilio webhook: ingestion error: %v", err)
			}
		case gorm.IsRecordNotFoundError(err):
			log.Printf("twilio webhook: no contact matches %s, message dropped", from)
		default:
			log.Printf("twilio webhook: contact lookup error: %v", err)
		}
	}

	c.Data(http.StatusOK, "text/xml", []byte(twilioSMSAck))
}

// POST /webhooks/twilio/voice
// Recording-status callback for outbound escalation calls.
func HandleTwilioVoiceRecording(c *gin.Context) {
	recordingURL := strings.TrimSpace(c.PostForm("RecordingUrl"))
	recordingSid := strings.TrimSpace(c.PostForm("RecordingSid"))
	callSid := strings.TrimSpace(c.PostForm("CallSid"))

	log.Printf("twilio webhook: voice recording received (url=%s recording=%s call=%s)",
		recordingURL, recordingSid, callSid)

	RespondSuccess(c, gin.H{"message": "Recording processed successfully"})
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
