package services

import (
	"testing"
	"time"

	"delivery_manager/internal/models"
	"delivery_manager/internal/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuditRepo struct {
	events []models.DeliveryEvent
}

func (m *mockAuditRepo) Create(event *models.DeliveryEvent) error {
	m.events = append(m.events, *event)
	return nil
}

func (m *mockAuditRepo) GetByDeliveryID(deliveryID uint) ([]models.DeliveryEvent, error) {
	return m.events, nil
}

func listTestRange(t *testing.T) period.DateRange {
	t.Helper()
	r, err := period.NewCustom(reportNow.AddDate(0, 0, -7), reportNow)
	require.NoError(t, err)
	return r
}

func TestListDeliveriesSortsAndPaginates(t *testing.T) {
	records := []models.Delivery{
		{ID: 1, AmountDue: 5000, Status: "pending", CreatedAt: reportNow},
		{ID: 2, AmountDue: 1000, Status: "pending", CreatedAt: reportNow},
		{ID: 3, AmountDue: 3000, Status: "pending", CreatedAt: reportNow},
		{ID: 4, AmountDue: 2000, Status: "pending", CreatedAt: reportNow},
	}
	svc := NewDeliveryService(&mockDeliveryRepo{records: records}, &mockAuditRepo{}, nil)

	page, pagination, err := svc.ListDeliveries(ListQuery{
		Page: 2, Limit: 2, Range: listTestRange(t),
		SortBy: "amount_due", SortOrder: "asc",
	})
	require.NoError(t, err)

	require.Len(t, page, 2)
	assert.Equal(t, uint(3), page[0].ID)
	assert.Equal(t, uint(1), page[1].ID)
	assert.Equal(t, int64(4), pagination.TotalItems)
	assert.Equal(t, 2, pagination.TotalPages)
}

func TestListDeliveriesFiltersByStatus(t *testing.T) {
	records := []models.Delivery{
		{ID: 1, Status: "delivered", CreatedAt: reportNow},
		{ID: 2, Status: "pending", CreatedAt: reportNow},
		{ID: 3, Status: "delivered", CreatedAt: reportNow},
	}
	svc := NewDeliveryService(&mockDeliveryRepo{records: records}, &mockAuditRepo{}, nil)

	page, pagination, err := svc.ListDeliveries(ListQuery{
		Range: listTestRange(t), Status: "delivered",
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)
}

func TestCreateDeliveryDefaultsToPending(t *testing.T) {
	auditRepo := &mockAuditRepo{}
	svc := NewDeliveryService(&mockDeliveryRepo{}, auditRepo, nil)

	delivery := &models.Delivery{Phone: "0650000001", AgencyID: 1}
	require.NoError(t, svc.CreateDelivery(delivery, "Mireille"))

	assert.Equal(t, string(models.StatusPending), delivery.Status)
	require.Len(t, auditRepo.events, 1)
	assert.Equal(t, models.ActionCreated, auditRepo.events[0].Action)
	assert.Equal(t, "Mireille", auditRepo.events[0].Actor)
}

func TestCreateDeliveryRejectsUnknownStatus(t *testing.T) {
	svc := NewDeliveryService(&mockDeliveryRepo{}, &mockAuditRepo{}, nil)

	err := svc.CreateDelivery(&models.Delivery{Phone: "0650000001", Status: "teleported"}, "")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestUpdateStatusRecordsOldAndNewValue(t *testing.T) {
	auditRepo := &mockAuditRepo{}
	repo := &mockDeliveryRepo{records: []models.Delivery{
		{ID: 9, Status: "pending", AgencyID: 1},
	}}
	svc := NewDeliveryService(repo, auditRepo, nil)

	delivery, err := svc.UpdateStatus(9, "Livré", "", "Paul")
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusDelivered), delivery.Status)

	require.Len(t, auditRepo.events, 1)
	event := auditRepo.events[0]
	assert.Equal(t, models.ActionUpdatedStatus, event.Action)
	assert.Contains(t, event.Details, `"old_value":"pending"`)
	assert.Contains(t, event.Details, `"new_value":"delivered"`)
}

func TestUpdateStatusSetsCarrierOnExpedition(t *testing.T) {
	repo := &mockDeliveryRepo{records: []models.Delivery{
		{ID: 4, Status: "pending", AgencyID: 1},
	}}
	svc := NewDeliveryService(repo, &mockAuditRepo{}, nil)

	delivery, err := svc.UpdateStatus(4, "expedition", "Général Express", "")
	require.NoError(t, err)
	assert.Equal(t, "Général Express", delivery.Carrier)
}

func TestHistoryDegradesMalformedEvents(t *testing.T) {
	auditRepo := &mockAuditRepo{events: []models.DeliveryEvent{
		{DeliveryID: 1, Action: models.ActionUpdatedStatus, Details: `{"old_value":"pending","new_value":"delivered"}`, CreatedAt: reportNow},
		{DeliveryID: 1, Action: "mystery_action", Details: "not json at all", CreatedAt: reportNow.Add(time.Minute)},
	}}
	svc := NewDeliveryService(&mockDeliveryRepo{}, auditRepo, nil)

	entries, err := svc.History(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "En cours → Livré", entries[0].Description)
	assert.Equal(t, "not json at all", entries[1].Description)
}
