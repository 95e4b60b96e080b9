package repository

import (
	"delivery_manager/internal/models"

	"gorm.io/gorm"
)

type AuditRepository interface {
	Create(event *models.DeliveryEvent) error
	GetByDeliveryID(deliveryID uint) ([]models.DeliveryEvent, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(event *models.DeliveryEvent) error {
	return r.db.Create(event).Error
}

func (r *auditRepository) GetByDeliveryID(deliveryID uint) ([]models.DeliveryEvent, error) {
	var events []models.DeliveryEvent
	err := r.db.Where("delivery_id = ?", deliveryID).Order("created_at ASC, id ASC").Find(&events).Error
	return events, err
}
