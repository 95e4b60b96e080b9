package models

import (
	"time"

	"gorm.io/gorm"
)

type Agency struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"unique;not null"`
	Phone     string         `json:"phone"`
	City      string         `json:"city"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// WhatsAppGroup is the originating group a delivery order came from and
// the party owed the net reversal.
type WhatsAppGroup struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"not null"`
	GroupJID  string         `json:"group_jid" gorm:"unique;not null"`
	AgencyID  uint           `json:"agency_id" gorm:"not null;index"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
