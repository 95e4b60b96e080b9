package models

import (
	"time"

	"gorm.io/gorm"
)

// QuartierTariff is the standard delivery fee for a neighborhood,
// used when a delivery carries no explicit fee override. QuartierKey
// is the normalized (lowercase, accent-stripped) lookup key.
type QuartierTariff struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	AgencyID    uint           `json:"agency_id" gorm:"not null;index:idx_tariff_agency_quartier,unique"`
	Quartier    string         `json:"quartier" gorm:"not null"`
	QuartierKey string         `json:"-" gorm:"not null;index:idx_tariff_agency_quartier,unique"`
	Amount      float64        `json:"amount" gorm:"not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}
