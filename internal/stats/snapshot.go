package stats

import "delivery_manager/internal/models"

// Snapshot is the derived, never-persisted financial summary of a set
// of deliveries over one period and one tenant scope.
type Snapshot struct {
	TotalCount       int                           `json:"total_count"`
	CountsByCategory map[models.StatusCategory]int `json:"counts_by_category"`
	CountsByStatus   map[string]int                `json:"counts_by_status"`
	GrossCollected   float64                       `json:"gross_collected"`
	RemainingOwed    float64                       `json:"remaining_owed"`
	TotalTariffs     float64                       `json:"total_tariffs_applied"`
	NetPayable       float64                       `json:"net_payable_to_groups"`
	Revenue          float64                       `json:"revenue"`
}

func newSnapshot() Snapshot {
	return Snapshot{
		CountsByCategory: map[models.StatusCategory]int{
			models.CategoryDelivered:  0,
			models.CategoryFailed:     0,
			models.CategoryPending:    0,
			models.CategoryPickup:     0,
			models.CategoryExpedition: 0,
			models.CategoryOther:      0,
		},
		CountsByStatus: map[string]int{},
	}
}
