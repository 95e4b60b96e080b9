package services

import (
	"fmt"
	"log"
	"time"

	"delivery_manager/internal/metrics"
	"delivery_manager/internal/models"
	"delivery_manager/internal/period"
	"delivery_manager/internal/redis"
	"delivery_manager/internal/repository"
	"delivery_manager/internal/scope"
	"delivery_manager/internal/stats"
)

// ReportQuery is one stats request: a named preset or an explicit
// custom range, plus the tenant scope.
type ReportQuery struct {
	Preset    period.Preset
	StartDate time.Time // custom only
	EndDate   time.Time // custom only
	AgencyID  *uint     // nil: all agencies (privileged caller)
	GroupID   *uint
}

// ReportResult carries the snapshot with the range it was computed for
// and the preset that range maps back to, for client selector sync.
type ReportResult struct {
	Snapshot stats.Snapshot   `json:"snapshot"`
	Range    period.DateRange `json:"range"`
	Preset   period.Preset    `json:"preset"`
	Cached   bool             `json:"cached"`
}

type ReportService interface {
	GetStats(query ReportQuery) (*ReportResult, error)
	DailyStats(date time.Time, agencyID, groupID *uint) (*repository.DailyTotals, error)
}

type reportService struct {
	deliveryRepo repository.DeliveryRepository
	tariffRepo   repository.TariffRepository
	cache        *redis.Client
	cacheTTL     time.Duration
	now          func() time.Time
}

// NewReportService builds the reporting pipeline. loc is the agency's
// calendar timezone; period boundaries are computed in it.
func NewReportService(deliveryRepo repository.DeliveryRepository, tariffRepo repository.TariffRepository, cache *redis.Client, cacheTTL time.Duration, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &reportService{
		deliveryRepo: deliveryRepo,
		tariffRepo:   tariffRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
		now:          func() time.Time { return time.Now().In(loc) },
	}
}

func (s *reportService) resolveRange(query ReportQuery) (period.DateRange, error) {
	if query.Preset == period.Custom {
		return period.NewCustom(query.StartDate, query.EndDate)
	}
	return period.Resolve(query.Preset, s.now())
}

func (s *reportService) GetStats(query ReportQuery) (*ReportResult, error) {
	started := time.Now()
	defer func() {
		metrics.ReportDuration.Observe(time.Since(started).Seconds())
	}()
	metrics.ReportQueriesTotal.WithLabelValues(string(query.Preset)).Inc()

	dateRange, err := s.resolveRange(query)
	if err != nil {
		return nil, err
	}

	result := &ReportResult{
		Range:  dateRange,
		Preset: period.DetectPreset(dateRange, s.now()),
	}

	scopeKey := redis.ScopeKey(query.AgencyID, query.GroupID)
	cacheKey := redis.StatsKey("snapshot", scopeKey,
		dateRange.Start.Format("2006-01-02"), dateRange.End.Format("2006-01-02"))

	if s.cache != nil {
		var cached stats.Snapshot
		if err := s.cache.GetSnapshot(cacheKey, &cached); err == nil {
			metrics.StatsCacheHitsTotal.Inc()
			result.Snapshot = cached
			result.Cached = true
			return result, nil
		} else if err != redis.ErrNotFound {
			log.Printf("Warning: stats cache read failed: %v", err)
		}
		metrics.StatsCacheMissesTotal.Inc()
	}

	// Token taken before the fetch: if a newer request for the same
	// scope starts while this one is in flight, this result is stale
	// and must not be committed.
	var token int64
	if s.cache != nil {
		if token, err = s.cache.BeginRequest(scopeKey); err != nil {
			log.Printf("Warning: stats request token failed: %v", err)
			token = 0
		}
	}

	records, err := s.deliveryRepo.GetByDateRange(dateRange, query.AgencyID, query.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deliveries: %w", err)
	}

	// The repository already scoped by tenant; applying the predicate
	// again is idempotent and guards against a wider fetch path.
	tenant := scope.And(scope.ForAgency(query.AgencyID), scope.ForGroup(query.GroupID))
	result.Snapshot = stats.Report(records, dateRange, tenant, s.tariffRepo)

	if s.cache != nil && token > 0 {
		committed, err := s.cache.CommitIfCurrent(scopeKey, token, cacheKey, result.Snapshot, s.cacheTTL)
		if err != nil {
			log.Printf("Warning: stats cache write failed: %v", err)
		} else if !committed {
			log.Printf("Stale stats result for %s discarded", scopeKey)
		}
	}
	return result, nil
}

// DailyStats is the pre-aggregated single-day fast path; counts and
// sums come straight from SQL without loading records.
func (s *reportService) DailyStats(date time.Time, agencyID, groupID *uint) (*repository.DailyTotals, error) {
	return s.deliveryRepo.DailyTotals(date, agencyID, groupID)
}

// FormatGroupReport renders a snapshot as the WhatsApp message pushed
// back to an originating group.
func FormatGroupReport(groupName string, r *ReportResult) string {
	snap := r.Snapshot
	return fmt.Sprintf(
		"📦 Rapport %s (%s → %s)\n"+
			"Livraisons: %d (livrées: %d, en cours: %d, échecs: %d)\n"+
			"Encaissé: %s\n"+
			"Restant dû: %s\n"+
			"Frais de livraison: %s\n"+
			"Net à reverser: %s",
		groupName,
		r.Range.Start.Format("02/01/2006"), r.Range.End.Format("02/01/2006"),
		snap.TotalCount,
		snap.CountsByCategory[models.CategoryDelivered],
		snap.CountsByCategory[models.CategoryPending],
		snap.CountsByCategory[models.CategoryFailed],
		models.FormatAmount(snap.GrossCollected),
		models.FormatAmount(snap.RemainingOwed),
		models.FormatAmount(snap.TotalTariffs),
		models.FormatAmount(snap.NetPayable),
	)
}
