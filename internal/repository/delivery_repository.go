package repository

import (
	"time"

	"delivery_manager/internal/models"
	"delivery_manager/internal/period"

	"gorm.io/gorm"
)

// DailyTotals is the server-pre-aggregated fast path for the
// single-day case; tariffs still need per-record reconciliation.
type DailyTotals struct {
	TotalCount     int64   `json:"total_count"`
	GrossCollected float64 `json:"gross_collected"`
	RemainingOwed  float64 `json:"remaining_owed"`
}

type DeliveryRepository interface {
	Create(delivery *models.Delivery) error
	GetByID(id uint) (*models.Delivery, error)
	GetByDateRange(r period.DateRange, agencyID, groupID *uint) ([]models.Delivery, error)
	DailyTotals(date time.Time, agencyID, groupID *uint) (*DailyTotals, error)
	Update(delivery *models.Delivery) error
}

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) Create(delivery *models.Delivery) error {
	return r.db.Create(delivery).Error
}

func (r *deliveryRepository) GetByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.First(&delivery, id).Error
	if err != nil {
		return nil, err
	}
	return &delivery, nil
}

// rangeBounds converts an inclusive calendar-day range into SQL
// timestamp bounds: [start, end+1day).
func rangeBounds(dr period.DateRange) (time.Time, time.Time) {
	return dr.Start, dr.End.AddDate(0, 0, 1)
}

func (r *deliveryRepository) GetByDateRange(dr period.DateRange, agencyID, groupID *uint) ([]models.Delivery, error) {
	start, end := rangeBounds(dr)
	query := r.db.Where("created_at >= ? AND created_at < ?", start, end)
	if agencyID != nil {
		query = query.Where("agency_id = ?", *agencyID)
	}
	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
	}
	var deliveries []models.Delivery
	err := query.Find(&deliveries).Error
	return deliveries, err
}

func (r *deliveryRepository) DailyTotals(date time.Time, agencyID, groupID *uint) (*DailyTotals, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	query := r.db.Model(&models.Delivery{}).
		Where("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	if agencyID != nil {
		query = query.Where("agency_id = ?", *agencyID)
	}
	if groupID != nil {
		query = query.Where("group_id = ?", *groupID)
	}

	var totals DailyTotals
	err := query.Select(
		"COUNT(*) AS total_count, " +
			"COALESCE(SUM(amount_collected), 0) AS gross_collected, " +
			"COALESCE(SUM(GREATEST(amount_due - amount_collected, 0)), 0) AS remaining_owed").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

func (r *deliveryRepository) Update(delivery *models.Delivery) error {
	return r.db.Save(delivery).Error
}
