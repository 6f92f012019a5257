package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/handyhub/provider-stats/pkg/config"
	"github.com/handyhub/provider-stats/pkg/errors"
	"github.com/handyhub/provider-stats/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	reportBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statistics_report_builds_total",
		Help: "Total number of provider statistics report builds by result",
	}, []string{"result"})

	reportBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "statistics_report_build_duration_seconds",
		Help:    "Duration of provider statistics report builds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~2.5s
	})
)

// Service computes provider statistics reports from marketplace records
type Service struct {
	api   MarketplaceAPI
	cfg   config.StatisticsConfig
	now   func() time.Time
	group singleflight.Group
}

// NewService creates a new statistics service
func NewService(api MarketplaceAPI, cfg config.StatisticsConfig) *Service {
	return &Service{
		api: api,
		cfg: cfg,
		now: time.Now,
	}
}

// ComputeProviderStatistics builds the statistics report for one provider
// over the given timeframe. Concurrent requests for the same provider and
// timeframe are coalesced into a single build; nothing is cached beyond the
// in-flight computation. A fatal fetch failure produces a degraded zero
// report instead of an error so the caller always receives a complete,
// internally consistent snapshot.
func (s *Service) ComputeProviderStatistics(ctx context.Context, providerID int64, timeframeDays int) (*Report, error) {
	key := fmt.Sprintf("%d:%d", providerID, timeframeDays)

	// The build runs detached from the triggering caller's cancellation:
	// coalesced waiters with healthy requests must not inherit a degraded
	// report because the first caller disconnected or timed out. Values
	// (correlation ID) still flow through.
	buildCtx := context.WithoutCancel(ctx)

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.buildReport(buildCtx, providerID, timeframeDays), nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Report), nil
}

func (s *Service) buildReport(ctx context.Context, providerID int64, timeframeDays int) *Report {
	start := time.Now()
	defer func() {
		reportBuildDuration.Observe(time.Since(start).Seconds())
	}()

	now := s.now()

	bookings, err := s.api.ListBookings(ctx, providerID)
	if err != nil {
		return s.degradedReport(ctx, providerID, timeframeDays, now, fmt.Errorf("list bookings: %w", err))
	}

	services, err := s.api.ListServices(ctx, providerID)
	if err != nil {
		return s.degradedReport(ctx, providerID, timeframeDays, now, fmt.Errorf("list services: %w", err))
	}

	reviews, err := s.api.ListReviews(ctx, providerID)
	if err != nil {
		return s.degradedReport(ctx, providerID, timeframeDays, now, fmt.Errorf("list reviews: %w", err))
	}

	current, previous := WindowsFor(now, timeframeDays)
	labels := LabelsFor(timeframeDays)

	currentBookings := BookingsInWindow(bookings, current)
	previousBookings := BookingsInWindow(bookings, previous)

	currentRevenue := RevenueInWindow(bookings, current)
	previousRevenue := RevenueInWindow(bookings, previous)

	customers := AnalyzeCustomers(bookings, current)

	providerAverage, distribution := SummarizeRatings(reviews)
	validReviews := countValidRatings(reviews)

	metrics := AggregateServiceMetrics(bookings, current, services)
	EnrichServiceRatings(ctx, s.api, metrics, providerAverage)

	report := &Report{
		ProviderID:    providerID,
		TimeframeDays: timeframeDays,
		GeneratedAt:   now,
		Revenue: RevenueSummary{
			Amount:        currentRevenue,
			ChangePercent: PercentChange(currentRevenue, previousRevenue),
			WindowLabel:   labels.Window,
		},
		// Out-of-range ratings are excluded everywhere, so the review count
		// always equals the distribution total.
		Rating: RatingSummary{
			Average:      providerAverage,
			TotalReviews: validReviews,
		},
		Customers: CustomerSummary{
			TotalUnique: customers.TotalUnique,
			New:         customers.New,
			WindowLabel: labels.Window,
		},
		Growth: GrowthSummary{
			RatePercent:     GrowthRate(len(currentBookings), len(previousBookings)),
			ComparisonLabel: labels.Comparison,
		},
		MonthlySeries:      BuildMonthlySeries(now, bookings),
		RecentBookings:     recentBookings(currentBookings, s.cfg.RecentBookingsLimit),
		TopServices:        TopServices(metrics, s.cfg.TopServicesLimit),
		RatingDistribution: distribution,
	}

	reportBuildsTotal.WithLabelValues("ok").Inc()

	logger.InfoContext(ctx, "provider statistics computed",
		zap.Int64("provider_id", providerID),
		zap.Int("timeframe_days", timeframeDays),
		zap.Int("bookings", len(bookings)),
		zap.Int("services", len(services)),
		zap.Int("reviews", len(reviews)),
		zap.Duration("duration", time.Since(start)),
	)

	return report
}

// degradedReport is the fallback for a fatal fetch failure: a complete,
// zero-valued report flagged as degraded so the caller can tell it apart
// from a genuinely empty provider.
func (s *Service) degradedReport(ctx context.Context, providerID int64, timeframeDays int, now time.Time, cause error) *Report {
	reportBuildsTotal.WithLabelValues("degraded").Inc()

	logger.ErrorContext(ctx, "statistics fetch failed, serving degraded report",
		zap.Int64("provider_id", providerID),
		zap.Int("timeframe_days", timeframeDays),
		zap.Error(cause),
	)
	errors.CaptureError(cause, map[string]string{
		"component":   "statistics",
		"provider_id": fmt.Sprintf("%d", providerID),
	})

	labels := LabelsFor(timeframeDays)

	return &Report{
		ProviderID:         providerID,
		TimeframeDays:      timeframeDays,
		GeneratedAt:        now,
		Revenue:            RevenueSummary{WindowLabel: labels.Window},
		Customers:          CustomerSummary{WindowLabel: labels.Window},
		Growth:             GrowthSummary{ComparisonLabel: labels.Comparison},
		MonthlySeries:      BuildMonthlySeries(now, nil),
		RecentBookings:     []Booking{},
		TopServices:        []ServiceMetric{},
		RatingDistribution: NewRatingDistribution(),
		Degraded:           true,
		DegradedReason:     cause.Error(),
	}
}

// recentBookings returns the newest current-window bookings, date
// descending, capped at limit.
func recentBookings(currentBookings []Booking, limit int) []Booking {
	recent := make([]Booking, len(currentBookings))
	copy(recent, currentBookings)

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].BookedAt.After(recent[j].BookedAt)
	})

	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}
