package models

import "time"

/************************************************
/**** MARK: CRM PROVIDERS ****/
/************************************************/
const PROVIDER_FOLLOWUPBOSS = "followupboss"
const PROVIDER_KVCORE = "kvcore"
const PROVIDER_HUBSPOT = "hubspot"

// Integration links one agent to one CRM provider connection.
// The (user_id, provider) pair is unique: connecting again replaces the stored
// tokens and reactivates the row instead of inserting a second one. Inbound
// webhook traffic for a provider is owned by the agent holding the active row.
type Integration struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID       int64      `gorm:"not null;unique_index:idx_integrations_user_provider" json:"user_id"`
	Provider     string     `gorm:"not null;index;unique_index:idx_integrations_user_provider" json:"provider"`
	AccessToken  string     `gorm:"column:access_token;not null" json:"-"`
	RefreshToken string     `gorm:"column:refresh_token;default:''" json:"-"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

func IsValidProvider(provider string) bool {
	switch provider {
	case PROVIDER_FOLLOWUPBOSS, PROVIDER_KVCORE, PROVIDER_HUBSPOT:
		return true
	}
	return false
}
