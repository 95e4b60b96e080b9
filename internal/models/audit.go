package models

import "time"

// DeliveryEvent is one raw change-history entry for a delivery. Details
// is an opaque payload: producers disagree on field naming (old_value /
// ancienne_valeur / from, ...), some send plain strings. Normalization
// happens in the audit formatter, never here.
type DeliveryEvent struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	DeliveryID uint      `json:"delivery_id" gorm:"not null;index"`
	Action     string    `json:"action" gorm:"not null"` // created, updated_status, updated_amount_paid, updated_delivery_fee, ...
	Details    string    `json:"details"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	ActionCreated           = "created"
	ActionUpdatedStatus     = "updated_status"
	ActionUpdatedAmountPaid = "updated_amount_paid"
	ActionUpdatedFee        = "updated_delivery_fee"
)
