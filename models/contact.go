package models

import "time"

/************************************************
/**** MARK: CHANNEL TYPES ****/
/************************************************/
const CHANNEL_TYPE_WHATSAPP = "whatsapp"
const CHANNEL_TYPE_EMAIL = "email"
const CHANNEL_TYPE_TELEGRAM = "telegram"

func IsValidChannelType(channelType string) bool {
	switch channelType {
	case CHANNEL_TYPE_WHATSAPP, CHANNEL_TYPE_EMAIL, CHANNEL_TYPE_TELEGRAM:
		return true
	}
	return false
}

// Contact representa un destinatario de tareas. El formato de ChannelValue
// depende de ChannelType (ver tools.ValidateChannelValue).
type Contact struct {
	ID           int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID       int64      `gorm:"not null;index" json:"user_id"`
	Name         string     `gorm:"size:100;not null;index" json:"name" form:"name"`
	ChannelType  string     `gorm:"column:channel_type;size:20;not null;index" json:"channel_type" form:"channel_type"`
	ChannelValue string     `gorm:"column:channel_value;size:255;not null" json:"channel_value" form:"channel_value"`
	Notes        string     `gorm:"type:text" json:"notes" form:"notes"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`

	Tasks []Task `gorm:"many2many:task_contacts" json:"-"`
}
