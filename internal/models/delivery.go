package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type Delivery struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	Phone           string         `json:"phone" gorm:"not null"`
	Quartier        string         `json:"quartier"`
	Items           string         `json:"items"`
	AmountDue       float64        `json:"amount_due" gorm:"not null"`
	AmountCollected float64        `json:"amount_collected"`
	DeliveryFee     *float64       `json:"delivery_fee"` // explicit override; nil => quartier tariff
	Status          string         `json:"status" gorm:"default:'pending'"`
	Carrier         string         `json:"carrier"` // set when status = expedition
	GroupID         *uint          `json:"group_id" gorm:"index"`
	AgencyID        uint           `json:"agency_id" gorm:"not null;index"`
	CreatedBy       uint           `json:"created_by"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// Remaining is always recomputed, never stored.
func (d *Delivery) Remaining() float64 {
	rem := SanitizeAmount(d.AmountDue) - SanitizeAmount(d.AmountCollected)
	if rem < 0 {
		return 0
	}
	return rem
}

func (d *Delivery) IsSettled() bool {
	return d.Remaining() == 0
}

// SanitizeAmount coerces NaN/Inf to 0 so one bad record cannot
// corrupt an aggregate.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

type DeliveryStatus string

const (
	StatusPending         DeliveryStatus = "pending"
	StatusDelivered       DeliveryStatus = "delivered"
	StatusFailed          DeliveryStatus = "failed"
	StatusCancelled       DeliveryStatus = "cancelled"
	StatusClientAbsent    DeliveryStatus = "client_absent"
	StatusClientAbsentDla DeliveryStatus = "client_absent_dla"
	StatusClientAbsentYde DeliveryStatus = "client_absent_yde"
	StatusUnreachable     DeliveryStatus = "unreachable"
	StatusUnreachableDla  DeliveryStatus = "unreachable_dla"
	StatusUnreachableYde  DeliveryStatus = "unreachable_yde"
	StatusPickup          DeliveryStatus = "pickup"
	StatusExpedition      DeliveryStatus = "expedition"
)

// StatusLabels is the single source of truth for the status vocabulary.
// Display labels are French (the agencies operate in Cameroon); any new
// status must be added here first.
var StatusLabels = map[DeliveryStatus]string{
	StatusPending:         "En cours",
	StatusDelivered:       "Livré",
	StatusFailed:          "Échec",
	StatusCancelled:       "Annulé",
	StatusClientAbsent:    "Client absent",
	StatusClientAbsentDla: "Client absent (Douala)",
	StatusClientAbsentYde: "Client absent (Yaoundé)",
	StatusUnreachable:     "Injoignable",
	StatusUnreachableDla:  "Injoignable (Douala)",
	StatusUnreachableYde:  "Injoignable (Yaoundé)",
	StatusPickup:          "Ramassage",
	StatusExpedition:      "Expédition",
}

// statusByLabel is the reverse of StatusLabels, built once at init.
var statusByLabel = func() map[string]DeliveryStatus {
	m := make(map[string]DeliveryStatus, len(StatusLabels))
	for s, label := range StatusLabels {
		m[label] = s
	}
	return m
}()

// StatusLabel returns the display label for a canonical status token.
// Unknown tokens come back unchanged so they stay visible.
func StatusLabel(status string) string {
	if label, ok := StatusLabels[DeliveryStatus(status)]; ok {
		return label
	}
	return status
}

// ParseStatus accepts either a canonical token or a display label.
func ParseStatus(s string) (DeliveryStatus, bool) {
	if _, ok := StatusLabels[DeliveryStatus(s)]; ok {
		return DeliveryStatus(s), true
	}
	if status, ok := statusByLabel[s]; ok {
		return status, true
	}
	return "", false
}

type StatusCategory string

const (
	CategoryDelivered  StatusCategory = "delivered"
	CategoryFailed     StatusCategory = "failed"
	CategoryPending    StatusCategory = "pending"
	CategoryPickup     StatusCategory = "pickup"
	CategoryExpedition StatusCategory = "expedition"
	// CategoryOther catches statuses not yet in the vocabulary so
	// counts never silently drop records.
	CategoryOther StatusCategory = "other"
)

var statusCategories = map[DeliveryStatus]StatusCategory{
	StatusDelivered:       CategoryDelivered,
	StatusFailed:          CategoryFailed,
	StatusCancelled:       CategoryFailed,
	StatusPending:         CategoryPending,
	StatusClientAbsent:    CategoryPending,
	StatusClientAbsentDla: CategoryPending,
	StatusClientAbsentYde: CategoryPending,
	StatusUnreachable:     CategoryPending,
	StatusUnreachableDla:  CategoryPending,
	StatusUnreachableYde:  CategoryPending,
	StatusPickup:          CategoryPickup,
	StatusExpedition:      CategoryExpedition,
}

// CategoryOf maps a raw status string to its reporting category.
func CategoryOf(status string) StatusCategory {
	if cat, ok := statusCategories[DeliveryStatus(status)]; ok {
		return cat
	}
	return CategoryOther
}

// AllStatuses returns every canonical status token, for validation and
// exhaustiveness checks.
func AllStatuses() []DeliveryStatus {
	statuses := make([]DeliveryStatus, 0, len(StatusLabels))
	for s := range StatusLabels {
		statuses = append(statuses, s)
	}
	return statuses
}
