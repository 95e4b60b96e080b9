package stats

import (
	"testing"

	"delivery_manager/internal/models"

	"github.com/stretchr/testify/assert"
)

func fixedTariffs(amount float64) TariffLookup {
	return TariffLookupFunc(func(quartier string, agencyID uint) (float64, bool) {
		return amount, true
	})
}

func noTariffs() TariffLookup {
	return TariffLookupFunc(func(quartier string, agencyID uint) (float64, bool) {
		return 0, false
	})
}

func feePtr(v float64) *float64 { return &v }

func TestReconcileExplicitFeeAndQuartierTariff(t *testing.T) {
	records := []models.Delivery{
		{AmountDue: 10000, AmountCollected: 10000, Status: "delivered", CreatedAt: now, DeliveryFee: feePtr(1000), Quartier: "Akwa"},
		{AmountDue: 10000, AmountCollected: 10000, Status: "delivered", CreatedAt: now, Quartier: "Ndokoti"},
	}

	snap := Report(records, todayRange(t), nil, fixedTariffs(1500))

	assert.Equal(t, 20000.0, snap.GrossCollected)
	assert.Equal(t, 2500.0, snap.TotalTariffs, "explicit fee wins, tariff fills the gap")
	assert.Equal(t, 17500.0, snap.NetPayable)
}

func TestReconcileSkipsUnsettledAndNonDelivered(t *testing.T) {
	records := []models.Delivery{
		// Pending: nothing reversed yet, tariff must not apply.
		{AmountDue: 5000, AmountCollected: 0, Status: "pending", CreatedAt: now, DeliveryFee: feePtr(1000)},
		// Failed: same.
		{AmountDue: 5000, AmountCollected: 5000, Status: "failed", CreatedAt: now, DeliveryFee: feePtr(1000)},
		// Delivered but with an outstanding balance: not settled.
		{AmountDue: 5000, AmountCollected: 3000, Status: "delivered", CreatedAt: now, DeliveryFee: feePtr(1000)},
		// Delivered and settled: tariff applies.
		{AmountDue: 5000, AmountCollected: 5000, Status: "delivered", CreatedAt: now, DeliveryFee: feePtr(1000)},
	}

	snap := Report(records, todayRange(t), nil, noTariffs())

	assert.Equal(t, 1000.0, snap.TotalTariffs)
	assert.Equal(t, 13000.0, snap.GrossCollected)
	assert.Equal(t, 12000.0, snap.NetPayable)
}

func TestReconcileMissingTariffContributesZero(t *testing.T) {
	records := []models.Delivery{
		{AmountDue: 10000, AmountCollected: 10000, Status: "delivered", CreatedAt: now, Quartier: "Inconnu"},
	}

	snap := Report(records, todayRange(t), nil, noTariffs())

	assert.Equal(t, 0.0, snap.TotalTariffs)
	assert.Equal(t, 10000.0, snap.NetPayable)
}

func TestReconcileDoesNotClampNegativeNet(t *testing.T) {
	// Misconfigured tariffs must surface, not hide behind a zero.
	records := []models.Delivery{
		{AmountDue: 1000, AmountCollected: 1000, Status: "delivered", CreatedAt: now, DeliveryFee: feePtr(5000)},
	}

	snap := Report(records, todayRange(t), nil, noTariffs())

	assert.Equal(t, -4000.0, snap.NetPayable)
}

func TestAppliedTariffPrecedence(t *testing.T) {
	d := &models.Delivery{Quartier: "Akwa", AgencyID: 1, DeliveryFee: feePtr(700)}
	assert.Equal(t, 700.0, AppliedTariff(d, fixedTariffs(1500)))

	d.DeliveryFee = nil
	assert.Equal(t, 1500.0, AppliedTariff(d, fixedTariffs(1500)))

	assert.Equal(t, 0.0, AppliedTariff(d, noTariffs()))

	d.Quartier = ""
	assert.Equal(t, 0.0, AppliedTariff(d, fixedTariffs(1500)), "no quartier, no standard tariff")
}
