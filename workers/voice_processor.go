package workers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"time"

	"agentflow/models"
	"agentflow/services"

	"github.com/jinzhu/gorm"
)

// StartVoiceProcessor starts a loop that transcribes voice sessions still in
// "processing". Sessions are handled sequentially by a single goroutine, so
// a session is never transcribed twice.
func StartVoiceProcessor(db *gorm.DB, svc *services.Bundle) {
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			processPendingSessions(db, svc)
		}
	}()
}

func processPendingSessions(db *gorm.DB, svc *services.Bundle) {
	var sessions []models.VoiceSession
	if err := db.
		Where("status = ?", models.VOICE_STATUS_PROCESSING).
		Order("id asc").
		Limit(10).
		Find(&sessions).Error; err != nil {
		log.Printf("voice worker: query error: %v", err)
		return
	}

	for _, session := range sessions {
		handleSession(db, svc, session)
	}
}

func handleSession(db *gorm.DB, svc *services.Bundle, session models.VoiceSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	transcript, err := transcribeFromURL(ctx, svc, session.AudioURL)
	if err != nil {
		log.Printf("voice worker: session %d failed: %v", session.ID, err)
		_ = db.Model(&models.VoiceSession{}).
			Where("id = ? AND status = ?", session.ID, models.VOICE_STATUS_PROCESSING).
			Update("status", models.VOICE_STATUS_FAILED).Error
		return
	}

	res := db.Model(&models.VoiceSession{}).
		Where("id = ? AND status = ?", session.ID, models.VOICE_STATUS_PROCESSING).
		Updates(map[string]any{
			"transcript": transcript,
			"status":     models.VOICE_STATUS_COMPLETED,
		})
	if res.Error != nil {
		log.Printf("voice worker: session %d update error: %v", session.ID, res.Error)
		return
	}

	log.Printf("voice worker: session %d transcribed (%d chars)", session.ID, len(transcript))
}

func transcribeFromURL(ctx context.Context, svc *services.Bundle, audioURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioURL, nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("audio download error: status=%d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	filename := path.Base(audioURL)
	if path.Ext(filename) == "" {
		filename += ".mp3"
	}
	return svc.AI.Transcribe(ctx, filename, audio)
}
