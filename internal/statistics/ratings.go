package statistics

import (
	"context"
	"sync"

	"github.com/handyhub/provider-stats/pkg/logger"
	"go.uber.org/zap"
)

// SummarizeRatings computes the provider-wide rating average and the 1-5
// distribution from a review collection. Ratings outside 1-5 are ignored.
// Zero reviews yield an average of 0 and an all-zero distribution.
func SummarizeRatings(reviews []Review) (average float64, distribution RatingDistribution) {
	distribution = NewRatingDistribution()

	var sum, count int
	for _, r := range reviews {
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		distribution[r.Rating]++
		sum += r.Rating
		count++
	}

	if count == 0 {
		return 0, distribution
	}
	return float64(sum) / float64(count), distribution
}

// EnrichServiceRatings fills in AverageRating for every booked service by
// fetching its own reviews. The per-service lookups run concurrently; each
// goroutine writes only its own entry, so no synchronization beyond the
// WaitGroup is needed. A failed or empty lookup falls back to the
// provider-wide average with a rating count of 0 and never aborts the
// sibling lookups.
func EnrichServiceRatings(ctx context.Context, api MarketplaceAPI, metrics []*ServiceMetric, providerAverage float64) {
	var wg sync.WaitGroup

	for _, metric := range metrics {
		if metric.BookingCount == 0 {
			continue
		}

		wg.Add(1)
		go func(m *ServiceMetric) {
			defer wg.Done()

			reviews, err := api.ListServiceReviews(ctx, m.ServiceID)
			if err != nil {
				logger.WarnContext(ctx, "service rating lookup failed, using provider average",
					zap.Int64("service_id", m.ServiceID),
					zap.Error(err),
				)
				m.AverageRating = providerAverage
				return
			}

			average, _ := SummarizeRatings(reviews)
			if count := countValidRatings(reviews); count > 0 {
				m.AverageRating = average
				m.RatingCount = count
				return
			}

			m.AverageRating = providerAverage
		}(metric)
	}

	wg.Wait()
}

func countValidRatings(reviews []Review) int {
	count := 0
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			count++
		}
	}
	return count
}
