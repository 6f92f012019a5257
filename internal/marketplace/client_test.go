package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/handyhub/provider-stats/internal/statistics"
	"github.com/handyhub/provider-stats/pkg/common"
	"github.com/handyhub/provider-stats/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(serverURL string) *Client {
	return NewClient(&config.MarketplaceConfig{
		BaseURL:        serverURL,
		TimeoutSeconds: 5,
	})
}

func TestListBookingsDecodesEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendors/7/bookings", r.URL.Path)
		w.Write([]byte(`{"data": [
			{"id": 1, "customerId": 10, "serviceId": 2, "serviceName": "Deep Cleaning", "price": 120.5, "status": "completed", "bookingDate": "2024-04-02T09:00:00Z"},
			{"bookingId": 2, "customerId": 11, "serviceId": 2, "price": 80, "status": "CANCELLED", "bookingDate": "2024-04-03"}
		]}`))
	}))
	defer server.Close()

	bookings, err := newTestClient(server.URL).ListBookings(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.Equal(t, int64(1), bookings[0].ID)
	assert.Equal(t, "Deep Cleaning", bookings[0].ServiceName)
	assert.Equal(t, statistics.StatusCompleted, bookings[0].Status, "status must be upcased")
	assert.Equal(t, time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC), bookings[0].BookedAt)

	assert.Equal(t, int64(2), bookings[1].ID, "bookingId is accepted when id is absent")
	assert.Equal(t, statistics.StatusCancelled, bookings[1].Status)
	assert.Equal(t, time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), bookings[1].BookedAt, "bare dates parse to midnight")
}

func TestListBookingsDecodesBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 5, "customerId": 10, "serviceId": 1, "price": 40, "status": "PENDING", "bookingDate": "2024-04-02 09:30:00"}]`))
	}))
	defer server.Close()

	bookings, err := newTestClient(server.URL).ListBookings(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, statistics.StatusPending, bookings[0].Status)
	assert.Equal(t, time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC), bookings[0].BookedAt)
}

func TestListServicesNameDrift(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendors/7/services", r.URL.Path)
		w.Write([]byte(`{"data": [
			{"id": 1, "serviceName": "Plumbing", "price": 90},
			{"id": 2, "name": "Electrical", "price": 110},
			{"id": 3, "title": "Painting", "price": 60}
		]}`))
	}))
	defer server.Close()

	services, err := newTestClient(server.URL).ListServices(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, services, 3)
	assert.Equal(t, "Plumbing", services[0].Name)
	assert.Equal(t, "Electrical", services[1].Name)
	assert.Equal(t, "Painting", services[2].Name)
}

func TestListReviewsDateFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendors/7/reviews", r.URL.Path)
		w.Write([]byte(`{"data": [
			{"rating": 5, "serviceId": 1, "vendorId": 7, "date": "2024-04-01"},
			{"rating": 3, "serviceId": 2, "vendorId": 7, "createdAt": "2024-04-02T08:00:00Z"}
		]}`))
	}))
	defer server.Close()

	reviews, err := newTestClient(server.URL).ListReviews(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), reviews[0].CreatedAt)
	assert.Equal(t, time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC), reviews[1].CreatedAt, "createdAt is used when date is absent")
	assert.Equal(t, int64(7), reviews[0].ProviderID)
}

func TestListServiceReviewsNotFoundIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/42/reviews", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	reviews, err := newTestClient(server.URL).ListServiceReviews(context.Background(), 42)
	require.NoError(t, err, "a missing review document is not an error")
	assert.Empty(t, reviews)
}

func TestListBookingsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListBookings(context.Background(), 7)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", appErr.ErrorCode)
	assert.Contains(t, appErr.Error(), "list bookings for provider 7")
}

func TestListBookingsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "not an array"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListBookings(context.Background(), 7)
	require.Error(t, err)
}

func TestClientSendsAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(&config.MarketplaceConfig{
		BaseURL:        server.URL,
		TimeoutSeconds: 5,
		APIKey:         "secret",
	})

	_, err := client.ListBookings(context.Background(), 7)
	require.NoError(t, err)
}
