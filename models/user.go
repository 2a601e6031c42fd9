package models

import "time"

// User represents a real estate agent account.
// Agents own contacts, integrations and voice sessions; urgent inbound
// messages are escalated to the agent's phone.
type User struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name      string     `gorm:"not null" json:"name" form:"name"`
	Email     string     `gorm:"not null;unique" json:"email" form:"email"`
	Password  string     `gorm:"column:password_hash;not null" json:"-" form:"password"`
	Phone     string     `gorm:"default:''" json:"phone" form:"phone"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (user User) MissingFields() string {
	if user.Email == "" {
		return "email"
	} else if user.Password == "" {
		return "password"
	} else if user.Name == "" {
		return "name"
	}
	return ""
}
