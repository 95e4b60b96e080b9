package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"delivery_manager/internal/audit"
	"delivery_manager/internal/metrics"
	"delivery_manager/internal/models"
	"delivery_manager/internal/period"
	"delivery_manager/internal/redis"
	"delivery_manager/internal/repository"
	"delivery_manager/internal/scope"
)

var ErrUnknownStatus = errors.New("unknown delivery status")

// ListQuery is one listing request: a date range, optional status and
// tenant filters, and the sort/pagination contract. Nil tenant ids
// mean the privileged all-agencies scope.
type ListQuery struct {
	Page      int
	Limit     int
	Range     period.DateRange
	Status    string
	GroupID   *uint
	AgencyID  *uint
	SortBy    string
	SortOrder string
}

type DeliveryService interface {
	CreateDelivery(delivery *models.Delivery, actor string) error
	GetDeliveryByID(id uint) (*models.Delivery, error)
	ListDeliveries(query ListQuery) ([]models.Delivery, scope.Pagination, error)
	UpdateStatus(id uint, status, carrier, actor string) (*models.Delivery, error)
	UpdatePayment(id uint, amountCollected float64, actor string) (*models.Delivery, error)
	UpdateFee(id uint, fee float64, actor string) (*models.Delivery, error)
	History(deliveryID uint) ([]audit.Entry, error)
}

type deliveryService struct {
	deliveryRepo repository.DeliveryRepository
	auditRepo    repository.AuditRepository
	cache        *redis.Client
}

func NewDeliveryService(deliveryRepo repository.DeliveryRepository, auditRepo repository.AuditRepository, cache *redis.Client) DeliveryService {
	return &deliveryService{
		deliveryRepo: deliveryRepo,
		auditRepo:    auditRepo,
		cache:        cache,
	}
}

func (s *deliveryService) CreateDelivery(delivery *models.Delivery, actor string) error {
	if delivery.Status == "" {
		delivery.Status = string(models.StatusPending)
	}
	if _, ok := models.ParseStatus(delivery.Status); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, delivery.Status)
	}
	if err := s.deliveryRepo.Create(delivery); err != nil {
		return err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"phone":      delivery.Phone,
		"quartier":   delivery.Quartier,
		"items":      delivery.Items,
		"amount_due": delivery.AmountDue,
	})
	s.recordEvent(delivery, models.ActionCreated, string(details), actor)
	s.invalidate(delivery.AgencyID)
	return nil
}

func (s *deliveryService) GetDeliveryByID(id uint) (*models.Delivery, error) {
	return s.deliveryRepo.GetByID(id)
}

// ListDeliveries assembles pages in memory: agency volumes are small
// enough that fetching the range and sorting here keeps the listing
// contract identical to the in-memory reporting path.
func (s *deliveryService) ListDeliveries(query ListQuery) ([]models.Delivery, scope.Pagination, error) {
	records, err := s.deliveryRepo.GetByDateRange(query.Range, query.AgencyID, query.GroupID)
	if err != nil {
		return nil, scope.Pagination{}, err
	}
	if query.Status != "" {
		records = scope.Filter(records, scope.ForStatus(query.Status))
	}
	scope.SortDeliveries(records, query.SortBy, query.SortOrder)
	page, pagination := scope.Paginate(records, query.Page, query.Limit)
	metrics.DeliveriesListedTotal.Add(float64(len(page)))
	return page, pagination, nil
}

func (s *deliveryService) UpdateStatus(id uint, status, carrier, actor string) (*models.Delivery, error) {
	canonical, ok := models.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	delivery, err := s.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	oldStatus := delivery.Status
	delivery.Status = string(canonical)
	if canonical == models.StatusExpedition && carrier != "" {
		delivery.Carrier = carrier
	}
	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"field":     "status",
		"old_value": oldStatus,
		"new_value": delivery.Status,
	})
	s.recordEvent(delivery, models.ActionUpdatedStatus, string(details), actor)
	s.invalidate(delivery.AgencyID)
	return delivery, nil
}

func (s *deliveryService) UpdatePayment(id uint, amountCollected float64, actor string) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	oldAmount := delivery.AmountCollected
	delivery.AmountCollected = models.SanitizeAmount(amountCollected)
	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"field":     "amount_paid",
		"old_value": oldAmount,
		"new_value": delivery.AmountCollected,
	})
	s.recordEvent(delivery, models.ActionUpdatedAmountPaid, string(details), actor)
	s.invalidate(delivery.AgencyID)
	return delivery, nil
}

func (s *deliveryService) UpdateFee(id uint, fee float64, actor string) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	var oldFee interface{}
	if delivery.DeliveryFee != nil {
		oldFee = *delivery.DeliveryFee
	}
	sanitized := models.SanitizeAmount(fee)
	delivery.DeliveryFee = &sanitized
	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]interface{}{
		"field":     "delivery_fee",
		"old_value": oldFee,
		"new_value": sanitized,
	})
	s.recordEvent(delivery, models.ActionUpdatedFee, string(details), actor)
	s.invalidate(delivery.AgencyID)
	return delivery, nil
}

// History returns the display-ready timeline for a delivery, oldest
// first. Malformed events still appear, degraded to their raw details.
func (s *deliveryService) History(deliveryID uint) ([]audit.Entry, error) {
	events, err := s.auditRepo.GetByDeliveryID(deliveryID)
	if err != nil {
		return nil, err
	}
	return audit.FormatTimeline(events), nil
}

func (s *deliveryService) recordEvent(delivery *models.Delivery, action, details, actor string) {
	event := &models.DeliveryEvent{
		DeliveryID: delivery.ID,
		Action:     action,
		Details:    details,
		Actor:      actor,
	}
	if err := s.auditRepo.Create(event); err != nil {
		log.Printf("Warning: failed to record audit event for delivery %d: %v", delivery.ID, err)
	}
}

// invalidate drops every cached snapshot whose scope could include
// this delivery.
func (s *deliveryService) invalidate(agencyID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDeliveryScopes(agencyID); err != nil {
		log.Printf("Warning: failed to invalidate stats cache: %v", err)
	}
}
