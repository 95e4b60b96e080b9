package stats

import (
	"delivery_manager/internal/models"
	"delivery_manager/internal/period"
	"delivery_manager/internal/scope"
)

// TariffLookup resolves the standard fee for a quartier. The second
// return is false when no tariff is configured, in which case the
// delivery contributes 0.
type TariffLookup interface {
	TariffFor(quartier string, agencyID uint) (float64, bool)
}

// TariffLookupFunc adapts a plain function to TariffLookup.
type TariffLookupFunc func(quartier string, agencyID uint) (float64, bool)

func (f TariffLookupFunc) TariffFor(quartier string, agencyID uint) (float64, bool) {
	return f(quartier, agencyID)
}

// AppliedTariff is the fee retained by the agency for one delivery:
// the explicit override when set, otherwise the quartier's standard
// tariff, otherwise 0.
func AppliedTariff(d *models.Delivery, tariffs TariffLookup) float64 {
	if d.DeliveryFee != nil {
		return models.SanitizeAmount(*d.DeliveryFee)
	}
	if tariffs == nil || d.Quartier == "" {
		return 0
	}
	if amount, ok := tariffs.TariffFor(d.Quartier, d.AgencyID); ok {
		return models.SanitizeAmount(amount)
	}
	return 0
}

// Reconcile extends a snapshot with tariff totals and the net amount
// owed back to the originating groups. Tariffs apply only to delivered,
// fully settled records: nothing is reversed for a delivery that is
// still pending or failed.
//
// NetPayable is grossCollected - totalTariffs with no clamping: a
// negative value means tariffs are misconfigured and must stay visible.
func Reconcile(records []models.Delivery, r period.DateRange, tenant scope.Predicate, snap Snapshot, tariffs TariffLookup) Snapshot {
	snap.TotalTariffs = 0
	for i := range records {
		rec := &records[i]
		if !r.Contains(rec.CreatedAt) {
			continue
		}
		if tenant != nil && !tenant(rec) {
			continue
		}
		if rec.Status != string(models.StatusDelivered) || !rec.IsSettled() {
			continue
		}
		snap.TotalTariffs += AppliedTariff(rec, tariffs)
	}
	snap.NetPayable = snap.GrossCollected - snap.TotalTariffs
	return snap
}

// Report runs the full pipeline: aggregate then reconcile.
func Report(records []models.Delivery, r period.DateRange, tenant scope.Predicate, tariffs TariffLookup) Snapshot {
	snap := Aggregate(records, r, tenant)
	return Reconcile(records, r, tenant, snap, tariffs)
}
