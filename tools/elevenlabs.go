package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"agentflow/services"
)

const elevenLabsApiBase = "https://api.elevenlabs.io/v1"

// ElevenLabsClient converts text to speech and lists available voices.
type ElevenLabsClient struct {
	ApiKey string

	// BaseURL overrides the ElevenLabs endpoint, used by tests.
	BaseURL string
}

func (e *ElevenLabsClient) baseURL() string {
	if e.BaseURL != "" {
		return e.BaseURL
	}
	return elevenLabsApiBase
}

// TextToSpeech synthesizes the text with the given voice and returns the
// raw audio bytes (mpeg).
func (e *ElevenLabsClient) TextToSpeech(ctx context.Context, text string, voiceID string) ([]byte, error) {
	if voiceID == "" {
		voiceID = "Rachel"
	}

	reqBody := map[string]any{
		"text":     text,
		"model_id": "eleven_monolingual_v1",
	}
	b, _ := json.Marshal(reqBody)

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL(), voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs api error: status=%d body=%s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// ListVoices returns the voices available to the configured account.
func (e *ElevenLabsClient) ListVoices(ctx context.Context) ([]services.Voice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL()+"/voices", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.ApiKey)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs api error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Voices []struct {
			VoiceID  string `json:"voice_id"`
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"voices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]services.Voice, 0, len(parsed.Voices))
	for _, v := range parsed.Voices {
		out = append(out, services.Voice{ID: v.VoiceID, Name: v.Name, Category: v.Category})
	}
	return out, nil
}
