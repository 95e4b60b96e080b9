package repository

import (
	"delivery_manager/internal/models"

	"gorm.io/gorm"
)

type GroupRepository interface {
	Create(group *models.WhatsAppGroup) error
	GetByID(id uint) (*models.WhatsAppGroup, error)
	GetByAgency(agencyID uint) ([]models.WhatsAppGroup, error)
	Update(group *models.WhatsAppGroup) error
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(group *models.WhatsAppGroup) error {
	return r.db.Create(group).Error
}

func (r *groupRepository) GetByID(id uint) (*models.WhatsAppGroup, error) {
	var group models.WhatsAppGroup
	err := r.db.First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetByAgency(agencyID uint) ([]models.WhatsAppGroup, error) {
	var groups []models.WhatsAppGroup
	err := r.db.Where("agency_id = ? AND is_active = ?", agencyID, true).Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Update(group *models.WhatsAppGroup) error {
	return r.db.Save(group).Error
}
