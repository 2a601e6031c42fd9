package models

import "time"

/************************************************
/**** MARK: VOICE SESSION STATUS ****/
/************************************************/
const VOICE_STATUS_PROCESSING = "processing"
const VOICE_STATUS_COMPLETED = "completed"
const VOICE_STATUS_FAILED = "failed"

// VoiceSession is one recorded voice input from an agent.
// Sessions enter as "processing" and are transcribed by the voice worker.
type VoiceSession struct {
	ID         int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	AgentID    int64      `gorm:"not null;index" json:"agent_id"`
	AudioURL   string     `gorm:"column:audio_url;not null" json:"audio_url"`
	Transcript string     `gorm:"type:text" json:"transcript"`
	Response   string     `gorm:"type:text" json:"response"`
	Status     string     `gorm:"not null;default:'processing';index" json:"status"`
	CreatedAt  *time.Time `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
