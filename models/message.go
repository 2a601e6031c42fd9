package models

import "time"

/************************************************
/**** MARK: MESSAGE CHANNELS ****/
/************************************************/
const MESSAGE_CHANNEL_SMS = "sms"
const MESSAGE_CHANNEL_EMAIL = "email"

/************************************************
/**** MARK: MESSAGE DIRECTIONS ****/
/************************************************/
const MESSAGE_DIRECTION_INBOUND = "inbound"
const MESSAGE_DIRECTION_OUTBOUND = "outbound"

/************************************************
/**** MARK: URGENCY LEVELS ****/
/************************************************/
const URGENCY_LOW = "low"
const URGENCY_MEDIUM = "medium"
const URGENCY_HIGH = "high"

/************************************************
/**** MARK: MESSAGE STATUS ****/
/************************************************/
const MESSAGE_STATUS_PENDING = "pending"
const MESSAGE_STATUS_SENT = "sent"
const MESSAGE_STATUS_FAILED = "failed"

// Message is one inbound or outbound client message.
// Rows are append-only; only the status column moves (pending -> sent|failed).
// AgentID is denormalized from the owning contact so listing does not need a
// second join on every query.
type Message struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	ContactID int64      `gorm:"not null;index" json:"contact_id"`
	AgentID   int64      `gorm:"not null;index" json:"agent_id"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Channel   string     `gorm:"not null" json:"channel"`
	Direction string     `gorm:"not null" json:"direction"`
	Urgency   string     `gorm:"not null;default:'low'" json:"urgency"`
	Status    string     `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt *time.Time `json:"created_at"`
}

func IsValidChannel(channel string) bool {
	return channel == MESSAGE_CHANNEL_SMS || channel == MESSAGE_CHANNEL_EMAIL
}

func IsValidUrgency(urgency string) bool {
	return urgency == URGENCY_LOW || urgency == URGENCY_MEDIUM || urgency == URGENCY_HIGH
}
