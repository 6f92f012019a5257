package statistics

import (
	"context"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// CountsTowardRevenue reports whether a booking in this status contributes
// to revenue totals. Only cancelled bookings are excluded.
func (s BookingStatus) CountsTowardRevenue() bool {
	return s != StatusCancelled
}

// Booking represents one booking fetched from the marketplace backend
type Booking struct {
	ID          int64         `json:"id"`
	CustomerID  int64         `json:"customer_id"`
	ServiceID   int64         `json:"service_id"`
	ServiceName string        `json:"service_name,omitempty"`
	Price       float64       `json:"price"`
	Status      BookingStatus `json:"status"`
	BookedAt    time.Time     `json:"booked_at"`
}

// CatalogService represents one entry of the provider's service catalog
type CatalogService struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration string  `json:"duration,omitempty"`
}

// Review represents a customer review with a 1-5 rating
type Review struct {
	Rating     int       `json:"rating"`
	ServiceID  int64     `json:"service_id,omitempty"`
	ProviderID int64     `json:"provider_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarketplaceAPI is the read-only slice of the marketplace backend the
// statistics engine consumes.
type MarketplaceAPI interface {
	ListBookings(ctx context.Context, providerID int64) ([]Booking, error)
	ListServices(ctx context.Context, providerID int64) ([]CatalogService, error)
	ListReviews(ctx context.Context, providerID int64) ([]Review, error)
	ListServiceReviews(ctx context.Context, serviceID int64) ([]Review, error)
}

// ServiceMetric represents aggregated per-service performance within the
// current window. Revenue accumulates only non-cancelled bookings while
// BookingCount counts all statuses.
type ServiceMetric struct {
	ServiceID     int64   `json:"service_id"`
	ServiceName   string  `json:"service_name"`
	BookingCount  int     `json:"booking_count"`
	Revenue       float64 `json:"revenue"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// MonthlyBucket represents one calendar month of booking activity
type MonthlyBucket struct {
	Month             string  `json:"month"`
	Revenue           float64 `json:"revenue"`
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
}

// RatingDistribution maps a rating value (1-5) to its review count
type RatingDistribution map[int]int

// NewRatingDistribution returns a distribution with all five buckets present
func NewRatingDistribution() RatingDistribution {
	return RatingDistribution{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
}

// RevenueSummary is the revenue block of the report
type RevenueSummary struct {
	Amount        float64 `json:"amount"`
	ChangePercent float64 `json:"change_percent"`
	WindowLabel   string  `json:"window_label"`
}

// RatingSummary is the rating block of the report
type RatingSummary struct {
	Average      float64 `json:"average"`
	TotalReviews int     `json:"total_reviews"`
}

// CustomerSummary is the customer block of the report
type CustomerSummary struct {
	TotalUnique int    `json:"total_unique"`
	New         int    `json:"new"`
	WindowLabel string `json:"window_label"`
}

// GrowthSummary is the growth block of the report
type GrowthSummary struct {
	RatePercent     float64 `json:"rate_percent"`
	ComparisonLabel string  `json:"comparison_label"`
}

// Report is the complete statistics snapshot for one provider. Reports are
// value objects: built once per request and never mutated afterwards.
type Report struct {
	ProviderID         int64              `json:"provider_id"`
	TimeframeDays      int                `json:"timeframe_days"`
	GeneratedAt        time.Time          `json:"generated_at"`
	Revenue            RevenueSummary     `json:"revenue"`
	Rating             RatingSummary      `json:"rating"`
	Customers          CustomerSummary    `json:"customers"`
	Growth             GrowthSummary      `json:"growth"`
	MonthlySeries      []MonthlyBucket    `json:"monthly_series"`
	RecentBookings     []Booking          `json:"recent_bookings"`
	TopServices        []ServiceMetric    `json:"top_services"`
	RatingDistribution RatingDistribution `json:"rating_distribution"`
	Degraded           bool               `json:"degraded"`
	DegradedReason     string             `json:"degraded_reason,omitempty"`
}
