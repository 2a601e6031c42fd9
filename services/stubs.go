package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Log-only implementations used when no provider credentials are configured.
// They keep local development working end to end without external accounts.

type StubAI struct{}

func (StubAI) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	lower := strings.ToLower(req.LastMessage)
	switch {
	case strings.Contains(lower, "inspection"):
		return fmt.Sprintf("Hi %s! Yes, the inspection is still on for 3 PM. I'll actually be there a few minutes early to make sure everything's set up. Looking forward to seeing you there!", req.ContactName), nil
	case strings.Contains(lower, "showing") || strings.Contains(lower, "schedule"):
		return fmt.Sprintf("Hi %s! Absolutely, I can schedule a showing for this weekend. How does Saturday at 2 PM work for you? Let me know and I'll get everything arranged.", req.ContactName), nil
	}
	return fmt.Sprintf("Hi %s! Thanks for reaching out. %s. Please let me know if you have any other questions!", req.ContactName, req.VoiceInput), nil
}

func (StubAI) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	log.Printf("stub ai: transcribing %s (%d bytes)", filename, len(audio))
	return "Yes, tell her it's confirmed and I'll be there early.", nil
}

type StubNotifier struct{}

func (StubNotifier) SendSMS(ctx context.Context, to string, message string) error {
	log.Printf("stub notifier: SMS to %s: %s", to, message)
	return nil
}

func (StubNotifier) MakeCall(ctx context.Context, to string, message string, agentName string) error {
	log.Printf("stub notifier: call to %s: %q", to, agentName+", "+message)
	return nil
}

type StubSpeech struct{}

func (StubSpeech) TextToSpeech(ctx context.Context, text string, voiceID string) ([]byte, error) {
	log.Printf("stub speech: tts %d chars (voice=%s)", len(text), voiceID)
	return []byte("stub-audio-data"), nil
}

func (StubSpeech) ListVoices(ctx context.Context) ([]Voice, error) {
	return []Voice{
		{ID: "rachel", Name: "Rachel", Category: "Professional"},
		{ID: "dave", Name: "Dave", Category: "Friendly"},
		{ID: "bella", Name: "Bella", Category: "Warm"},
	}, nil
}
