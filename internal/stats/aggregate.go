package stats

import (
	"delivery_manager/internal/models"
	"delivery_manager/internal/period"
	"delivery_manager/internal/scope"
)

// Aggregate reduces deliveries created inside the range (calendar-day
// inclusive) and matching the tenant predicate into a Snapshot. Pure:
// no side effects, identical inputs give identical output.
//
// Gross collected is status-independent: money already collected counts
// whatever the delivery outcome. Unknown statuses land in the catch-all
// category so totals never undercount.
func Aggregate(records []models.Delivery, r period.DateRange, tenant scope.Predicate) Snapshot {
	snap := newSnapshot()
	for i := range records {
		rec := &records[i]
		if !r.Contains(rec.CreatedAt) {
			continue
		}
		if tenant != nil && !tenant(rec) {
			continue
		}
		snap.TotalCount++
		snap.CountsByStatus[rec.Status]++
		snap.CountsByCategory[models.CategoryOf(rec.Status)]++
		snap.GrossCollected += models.SanitizeAmount(rec.AmountCollected)
		snap.RemainingOwed += rec.Remaining()
	}
	snap.Revenue = snap.GrossCollected + snap.RemainingOwed
	return snap
}
