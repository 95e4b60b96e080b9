package scope

import (
	"sort"
	"strings"

	"delivery_manager/internal/models"
)

// Predicate decides whether a delivery is inside the caller's scope.
// Predicates are pure, so filters compose in any order with the same
// result.
type Predicate func(*models.Delivery) bool

// ForAgency scopes to one agency. A nil id means a privileged
// all-agencies caller; the predicate then accepts everything rather
// than silently narrowing.
func ForAgency(agencyID *uint) Predicate {
	if agencyID == nil {
		return func(*models.Delivery) bool { return true }
	}
	id := *agencyID
	return func(d *models.Delivery) bool { return d.AgencyID == id }
}

// ForGroup scopes to one originating WhatsApp group; nil means all
// groups within the agency scope.
func ForGroup(groupID *uint) Predicate {
	if groupID == nil {
		return func(*models.Delivery) bool { return true }
	}
	id := *groupID
	return func(d *models.Delivery) bool { return d.GroupID != nil && *d.GroupID == id }
}

// ForStatus narrows to one canonical status; empty means all.
func ForStatus(status string) Predicate {
	if status == "" {
		return func(*models.Delivery) bool { return true }
	}
	return func(d *models.Delivery) bool { return d.Status == status }
}

// And composes predicates; the empty composition accepts everything.
func And(preds ...Predicate) Predicate {
	return func(d *models.Delivery) bool {
		for _, p := range preds {
			if p != nil && !p(d) {
				return false
			}
		}
		return true
	}
}

// Filter returns the deliveries matching the predicate, preserving
// input order.
func Filter(records []models.Delivery, pred Predicate) []models.Delivery {
	if pred == nil {
		return records
	}
	out := make([]models.Delivery, 0, len(records))
	for i := range records {
		if pred(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Sort fields accepted by listings.
const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
	SortByAmountDue = "amount_due"
	SortByStatus    = "status"
)

// SortDeliveries orders records stably by the given field; ties keep
// their relative order so pagination stays consistent across calls.
// Unknown fields fall back to created_at, descending unless order is
// "asc".
func SortDeliveries(records []models.Delivery, sortBy, sortOrder string) {
	asc := strings.EqualFold(sortOrder, "asc")
	less := func(a, b *models.Delivery) bool {
		switch sortBy {
		case SortByUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		case SortByAmountDue:
			return a.AmountDue < b.AmountDue
		case SortByStatus:
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		if asc {
			return less(&records[i], &records[j])
		}
		return less(&records[j], &records[i])
	})
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// Paginate slices one page out of records. Page numbers start at 1;
// out-of-range pages return an empty slice with the real totals.
func Paginate(records []models.Delivery, page, limit int) ([]models.Delivery, Pagination) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	total := len(records)
	totalPages := (total + limit - 1) / limit
	p := Pagination{Page: page, Limit: limit, TotalItems: int64(total), TotalPages: totalPages}
	start := (page - 1) * limit
	if start >= total {
		return []models.Delivery{}, p
	}
	end := start + limit
	if end > total {
		end = total
	}
	return records[start:end], p
}
