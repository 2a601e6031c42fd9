package models

import "time"

/************************************************
/**** MARK: CONTACT ROLES ****/
/************************************************/
const CONTACT_ROLE_BUYER = "buyer"
const CONTACT_ROLE_SELLER = "seller"
const CONTACT_ROLE_LEAD = "lead"

const CONTACT_STATUS_NEW = "new"

// Contact is a client record owned by one agent.
// A contact is uniquely resolvable by external id, email or phone within the
// owning agent's scope; the (user_id, external_id) pair carries a unique index
// so that a repeated webhook delivery cannot create a duplicate row.
// ExternalID is a pointer so contacts without a CRM id stay NULL and do not
// collide on the index.
type Contact struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID       int64      `gorm:"not null;index;unique_index:idx_contacts_user_external" json:"user_id"`
	ExternalID   *string    `gorm:"column:external_id;unique_index:idx_contacts_user_external" json:"external_id,omitempty"`
	Name         string     `gorm:"not null" json:"name" form:"name"`
	Email        string     `gorm:"default:'';index" json:"email" form:"email"`
	Phone        string     `gorm:"default:'';index" json:"phone" form:"phone"`
	Role         string     `gorm:"not null;default:'lead'" json:"role" form:"role"`
	Status       string     `gorm:"not null;default:'new'" json:"status" form:"status"`
	PropertyInfo string     `gorm:"column:property_info;type:text" json:"property_info" form:"property_info"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}
