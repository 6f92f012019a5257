package statistics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSummarizeRatings(t *testing.T) {
	reviews := []Review{
		{Rating: 5}, {Rating: 5}, {Rating: 4}, {Rating: 3},
	}

	average, distribution := SummarizeRatings(reviews)

	assert.Equal(t, 4.25, average)
	assert.Equal(t, RatingDistribution{5: 2, 4: 1, 3: 1, 2: 0, 1: 0}, distribution)
}

func TestSummarizeRatingsEmpty(t *testing.T) {
	average, distribution := SummarizeRatings(nil)

	assert.Equal(t, 0.0, average)
	assert.Equal(t, NewRatingDistribution(), distribution)
}

func TestSummarizeRatingsIgnoresOutOfRangeValues(t *testing.T) {
	reviews := []Review{
		{Rating: 5}, {Rating: 0}, {Rating: 6}, {Rating: -1}, {Rating: 3},
	}

	average, distribution := SummarizeRatings(reviews)

	assert.Equal(t, 4.0, average)
	assert.Equal(t, 1, distribution[5])
	assert.Equal(t, 1, distribution[3])
}

func TestEnrichServiceRatingsUsesServiceReviews(t *testing.T) {
	api := new(mockMarketplaceAPI)
	api.On("ListServiceReviews", mock.Anything, int64(1)).Return([]Review{{Rating: 5}, {Rating: 4}}, nil).Once()

	metrics := []*ServiceMetric{
		{ServiceID: 1, BookingCount: 2},
	}

	EnrichServiceRatings(context.Background(), api, metrics, 3.0)

	assert.Equal(t, 4.5, metrics[0].AverageRating)
	assert.Equal(t, 2, metrics[0].RatingCount)
	api.AssertExpectations(t)
}

func TestEnrichServiceRatingsFallsBackOnLookupFailure(t *testing.T) {
	api := new(mockMarketplaceAPI)
	api.On("ListServiceReviews", mock.Anything, int64(1)).Return(nil, errors.New("connection refused")).Once()
	api.On("ListServiceReviews", mock.Anything, int64(2)).Return([]Review{{Rating: 2}}, nil).Once()

	metrics := []*ServiceMetric{
		{ServiceID: 1, BookingCount: 1},
		{ServiceID: 2, BookingCount: 1},
	}

	EnrichServiceRatings(context.Background(), api, metrics, 4.2)

	// One failed lookup never affects its siblings
	assert.Equal(t, 4.2, metrics[0].AverageRating)
	assert.Zero(t, metrics[0].RatingCount)
	assert.Equal(t, 2.0, metrics[1].AverageRating)
	assert.Equal(t, 1, metrics[1].RatingCount)
	api.AssertExpectations(t)
}

func TestEnrichServiceRatingsFallsBackOnNoReviews(t *testing.T) {
	api := new(mockMarketplaceAPI)
	api.On("ListServiceReviews", mock.Anything, int64(1)).Return([]Review{}, nil).Once()

	metrics := []*ServiceMetric{
		{ServiceID: 1, BookingCount: 3},
	}

	EnrichServiceRatings(context.Background(), api, metrics, 3.8)

	assert.Equal(t, 3.8, metrics[0].AverageRating)
	assert.Zero(t, metrics[0].RatingCount)
	api.AssertExpectations(t)
}

func TestEnrichServiceRatingsSkipsUnbookedServices(t *testing.T) {
	api := new(mockMarketplaceAPI)

	metrics := []*ServiceMetric{
		{ServiceID: 1, BookingCount: 0},
	}

	EnrichServiceRatings(context.Background(), api, metrics, 4.0)

	assert.Zero(t, metrics[0].AverageRating)
	api.AssertNotCalled(t, "ListServiceReviews")
}
