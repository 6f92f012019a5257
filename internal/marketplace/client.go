package marketplace

import (
	"context"
	"fmt"
	"time"

	"github.com/handyhub/provider-stats/internal/statistics"
	"github.com/handyhub/provider-stats/pkg/common"
	"github.com/handyhub/provider-stats/pkg/config"
	"github.com/handyhub/provider-stats/pkg/httpclient"
)

// Client fetches provider records from the marketplace backend API. It
// normalizes every payload onto the canonical record types before the data
// enters the statistics engine, so backend naming drift stays contained
// here.
type Client struct {
	http *httpclient.Client
}

// NewClient creates a new marketplace API client
func NewClient(cfg *config.MarketplaceConfig) *Client {
	opts := []httpclient.Option{}
	if cfg.APIKey != "" {
		opts = append(opts, httpclient.WithHeader("X-API-Key", cfg.APIKey))
	}

	return &Client{
		http: httpclient.NewClient(cfg.BaseURL, time.Duration(cfg.TimeoutSeconds)*time.Second, opts...),
	}
}

// ListBookings returns every booking for the provider
func (c *Client) ListBookings(ctx context.Context, providerID int64) ([]statistics.Booking, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("/vendors/%d/bookings", providerID))
	if err != nil {
		return nil, common.NewUpstreamError(fmt.Sprintf("list bookings for provider %d", providerID), err)
	}

	var raw []rawBooking
	if err := decodeList(body, &raw); err != nil {
		return nil, fmt.Errorf("decode bookings for provider %d: %w", providerID, err)
	}

	bookings := make([]statistics.Booking, 0, len(raw))
	for _, r := range raw {
		bookings = append(bookings, r.normalize())
	}
	return bookings, nil
}

// ListServices returns the provider's service catalog
func (c *Client) ListServices(ctx context.Context, providerID int64) ([]statistics.CatalogService, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("/vendors/%d/services", providerID))
	if err != nil {
		return nil, common.NewUpstreamError(fmt.Sprintf("list services for provider %d", providerID), err)
	}

	var raw []rawService
	if err := decodeList(body, &raw); err != nil {
		return nil, fmt.Errorf("decode services for provider %d: %w", providerID, err)
	}

	services := make([]statistics.CatalogService, 0, len(raw))
	for _, r := range raw {
		services = append(services, r.normalize())
	}
	return services, nil
}

// ListReviews returns the provider-wide review collection
func (c *Client) ListReviews(ctx context.Context, providerID int64) ([]statistics.Review, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("/vendors/%d/reviews", providerID))
	if err != nil {
		return nil, common.NewUpstreamError(fmt.Sprintf("list reviews for provider %d", providerID), err)
	}

	return decodeReviews(body, fmt.Sprintf("provider %d", providerID))
}

// ListServiceReviews returns the reviews for a single service. A 404 from
// the backend means the service simply has no review document yet and is
// returned as an empty collection, not an error.
func (c *Client) ListServiceReviews(ctx context.Context, serviceID int64) ([]statistics.Review, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("/services/%d/reviews", serviceID))
	if err != nil {
		if httpclient.IsNotFound(err) {
			return []statistics.Review{}, nil
		}
		return nil, common.NewUpstreamError(fmt.Sprintf("list reviews for service %d", serviceID), err)
	}

	return decodeReviews(body, fmt.Sprintf("service %d", serviceID))
}

func decodeReviews(body []byte, subject string) ([]statistics.Review, error) {
	var raw []rawReview
	if err := decodeList(body, &raw); err != nil {
		return nil, fmt.Errorf("decode reviews for %s: %w", subject, err)
	}

	reviews := make([]statistics.Review, 0, len(raw))
	for _, r := range raw {
		reviews = append(reviews, r.normalize())
	}
	return reviews, nil
}
