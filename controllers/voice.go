package controllers

import (
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	dbpkg "agentflow/db"
	"agentflow/models"
	"agentflow/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReceiveVoiceInputRequest struct {
	AudioURL string `json:"audioUrl"`
}

// POST /api/voice/receive-input
// Registers a recorded voice input by URL. The session enters "processing";
// the voice worker downloads and transcribes it asynchronously.
func ReceiveVoiceInput(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req ReceiveVoiceInputRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.AudioURL) == "" {
		RespondError(c, "audioUrl is required", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db not configured in context", http.StatusInternalServerError)
		return
	}

	session := models.VoiceSession{
		AgentID:  agent.ID,
		AudioURL: strings.TrimSpace(req.AudioURL),
		Status:   models.VOICE_STATUS_PROCESSING,
	}
	if err := db.Create(&session).Error; err != nil {
		RespondError(c, "failed to store voice session", http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"sessionId": session.ID,
		"status":    session.Status,
	})
}

// POST /api/voice/upload
// Multipart audio upload, transcribed inline.
func ProcessAudioFile(c *gin.Context) {
	agent, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	header, err := c.FormFile("audio")
	if err != nil {
		RespondError(c, "audio file is required", http.StatusBadRequest)
		return
	}

	file, err := header.Open()
	if err != nil {
		RespondError(c, "failed to read audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, "failed to read audio file", http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	svc := services.Instance(c)
	if db == nil || svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	transcript, err := svc.AI.Transcribe(c.Request.Context(), header.Filename, audio)
	if err != nil {
		log.Printf("voice upload: transcription error: %v", err)
		RespondError(c, "failed to process audio file", http.StatusInternalServerError)
		return
	}

	// audio bytes are not kept; the session stores a stable object name
	objectName := "uploads/" + uuid.NewString() + filepath.Ext(header.Filename)
	session := models.VoiceSession{
		AgentID:    agent.ID,
		AudioURL:   objectName,
		Transcript: transcript,
		Status:     models.VOICE_STATUS_COMPLETED,
	}
	if err := db.Create(&session).Error; err != nil {
		RespondError(c, "failed to store voice session", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"transcript": transcript,
		"filename":   header.Filename,
		"sessionId":  session.ID,
	})
}

type GenerateVoiceResponseRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voiceId"`
}

// POST /api/voice/generate-response
// Synthesizes speech for a drafted reply and returns it inline as a data URL.
func GenerateVoiceResponse(c *gin.Context) {
	if _, ok := GetUserLogged(c); !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req GenerateVoiceResponseRequest
	if err := c.Bind(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		RespondError(c, "text is required", http.StatusBadRequest)
		return
	}

	svc := services.Instance(c)
	if svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	audio, err := svc.Speech.TextToSpeech(c.Request.Context(), req.Text, req.VoiceID)
	if err != nil {
		log.Printf("voice response: tts error: %v", err)
		RespondError(c, "failed to generate voice response", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{
		"audioData": "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio),
		"text":      req.Text,
	})
}

// GET /api/voice/voices
func GetVoices(c *gin.Context) {
	svc := services.Instance(c)
	if svc == nil {
		RespondError(c, "services not configured in context", http.StatusInternalServerError)
		return
	}

	voices, err := svc.Speech.ListVoices(c.Request.Context())
	if err != nil {
		log.Printf("voices: list error: %v", err)
		RespondError(c, "failed to fetch voices", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"voices": voices})
}

// GET /api/voice/sessions
func GetVoiceSessions(c *gin.Context) {
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

	var sessions []models.VoiceSession
	if err := db.
		Where("agent_id = ?", agent.ID).
		Order("created_at desc, id desc").
		Find(&sessions).Error; err != nil {
		RespondError(c, "failed to fetch voice sessions", http.StatusInternalServerError)
		return
	}

	RespondSuccess(c, gin.H{"sessions": sessions})
}
