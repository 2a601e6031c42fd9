package tools

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"agentflow/models"
	"agentflow/services"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient wraps the OpenAI API for reply drafting, urgency analysis
// and audio transcription.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey string, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4"
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateReply drafts a message in the agent's voice from CRM context plus
// the agent's spoken instruction.
func (o *OpenAIClient) GenerateReply(ctx context.Context, req services.ReplyRequest) (string, error) {
	tone := strings.TrimSpace(req.Tone)
	if tone == "" {
		tone = "casual"
	}
	format := "text message"
	if tone == "formal" {
		format = "email"
	}

	systemPrompt := fmt.Sprintf(`You are AgentFlow, an AI executive assistant built for real estate agents. You work for %s, a busy real estate professional.

Your job:
- Draft messages
- Match %s's tone
- Prioritize urgent matters
- Offer useful suggestions
- Be discreet and accurate

Speak as if you are the agent. Never say you are AI.`, req.AgentName, req.AgentName)

	userPrompt := fmt.Sprintf(`CRM Context:
- Contact: %s
- Role: %s
- Property: %s

Client Message: "%s"
Voice Input: "%s"

Generate a %s, professional %s %s would send.`,
		req.ContactName, req.ContactRole, req.PropertyInfo,
		req.LastMessage, req.VoiceInput, tone, format, req.AgentName)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// AnalyzeUrgency asks the model for a constrained single-word urgency level.
// Callers should go through OpenAIClassifier, which normalizes the output.
func (o *OpenAIClient) AnalyzeUrgency(ctx context.Context, message string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "Analyze the urgency of this real estate client message. Return only: low, medium, or high",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Message: %q", message),
			},
		},
		MaxTokens:   10,
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("openai urgency analysis: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

// Transcribe runs Whisper speech-to-text over raw audio bytes.
func (o *OpenAIClient) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	resp, err := o.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenAIClassifier is the delegated deployment mode of the urgency
// classifier. Any provider error or unexpected word degrades to medium;
// the raw provider string never leaves this type.
type OpenAIClassifier struct {
	Client *OpenAIClient
}

func (c OpenAIClassifier) Classify(ctx context.Context, message string) string {
	out, err := c.Client.AnalyzeUrgency(ctx, message)
	if err != nil {
		return models.URGENCY_MEDIUM
	}
	switch strings.ToLower(strings.TrimSpace(out)) {
	case models.URGENCY_LOW:
		return models.URGENCY_LOW
	case models.URGENCY_MEDIUM:
		return models.URGENCY_MEDIUM
	case models.URGENCY_HIGH:
		return models.URGENCY_HIGH
	}
	return models.URGENCY_MEDIUM
}
