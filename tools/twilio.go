package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioApiBase = "https://api.twilio.com/2010-04-01"

// TwilioClient sends SMS and initiates voice calls through the Twilio REST API.
type TwilioClient struct {
	AccountSid  string
	AuthToken   string
	PhoneNumber string

	// BaseURL overrides the Twilio endpoint, used by tests.
	BaseURL string
}

func (t *TwilioClient) baseURL() string {
	if t.BaseURL != "" {
		return t.BaseURL
	}
	return twilioApiBase
}

// SendSMS sends a text message to the given E.164 number.
func (t *TwilioClient) SendSMS(ctx context.Context, to string, message string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.PhoneNumber)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", t.baseURL(), t.AccountSid)
	return t.post(ctx, endpoint, form)
}

// MakeCall initiates a voice call that speaks the message to the agent and
// records a short reply.
func (t *TwilioClient) MakeCall(ctx context.Context, to string, message string, agentName string) error {
	if agentName == "" {
		agentName = "Agent"
	}

	twiml := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say voice="alice">%s, %s</Say>
  <Record maxLength="30" timeout="5" recordingStatusCallback="/webhooks/twilio/voice" />
</Response>`, xmlEscape(agentName), xmlEscape(message))

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", t.PhoneNumber)
	form.Set("Twiml", twiml)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", t.baseURL(), t.AccountSid)
	return t.post(ctx, endpoint, form)
}

func (t *TwilioClient) post(ctx context.Context, endpoint string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.AccountSid, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio api error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
