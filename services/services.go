package services

import "context"

// ReplyRequest carries everything the AI provider needs to draft a message
// on the agent's behalf.
type ReplyRequest struct {
	AgentName    string
	ContactName  string
	ContactRole  string
	PropertyInfo string
	LastMessage  string
	VoiceInput   string
	Tone         string // casual | formal
	Channel      string // sms | email
}

type Voice struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// AI is the text-generation collaborator (OpenAI in production).
type AI interface {
	GenerateReply(ctx context.Context, req ReplyRequest) (string, error)
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Classifier maps free text to exactly one of the urgency literals
// (low, medium, high). Implementations must never return anything else,
// so classification errors degrade to a level instead of propagating.
type Classifier interface {
	Classify(ctx context.Context, message string) string
}

// Notifier is the SMS/voice collaborator (Twilio in production).
type Notifier interface {
	SendSMS(ctx context.Context, to string, message string) error
	MakeCall(ctx context.Context, to string, message string, agentName string) error
}

// Speech is the text-to-speech collaborator (ElevenLabs in production).
type Speech interface {
	TextToSpeech(ctx context.Context, text string, voiceID string) ([]byte, error)
	ListVoices(ctx context.Context) ([]Voice, error)
}

// Bundle groups the external collaborators wired at startup.
// Which implementation backs each interface is decided once in main,
// by configuration presence; nothing downstream checks flags.
type Bundle struct {
	AI         AI
	Classifier Classifier
	Notifier   Notifier
	Speech     Speech
}
