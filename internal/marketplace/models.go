package marketplace

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/handyhub/provider-stats/internal/statistics"
)

// apiTime parses the timestamp formats the backend has been observed to
// emit: RFC3339, bare local date-times, and plain dates.
type apiTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}

	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// envelope is the response wrapper the backend uses for most endpoints.
// Some endpoints return a bare array; decodeList handles both.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func decodeList(body []byte, out interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(body, out)
}

// rawBooking mirrors the backend booking payload, tolerating the id field
// naming drift between endpoints.
type rawBooking struct {
	ID          int64   `json:"id"`
	BookingID   int64   `json:"bookingId"`
	CustomerID  int64   `json:"customerId"`
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
	BookingDate apiTime `json:"bookingDate"`
}

func (r rawBooking) normalize() statistics.Booking {
	id := r.ID
	if id == 0 {
		id = r.BookingID
	}

	return statistics.Booking{
		ID:          id,
		CustomerID:  r.CustomerID,
		ServiceID:   r.ServiceID,
		ServiceName: strings.TrimSpace(r.ServiceName),
		Price:       r.Price,
		Status:      statistics.BookingStatus(strings.ToUpper(strings.TrimSpace(r.Status))),
		BookedAt:    r.BookingDate.Time,
	}
}

// rawService mirrors the backend catalog payload. The service name arrives
// under serviceName, name, or title depending on the endpoint version, so
// normalization picks the first non-empty one.
type rawService struct {
	ID          int64   `json:"id"`
	ServiceName string  `json:"serviceName"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Duration    string  `json:"duration"`
}

func (r rawService) normalize() statistics.CatalogService {
	name := r.ServiceName
	if name == "" {
		name = r.Name
	}
	if name == "" {
		name = r.Title
	}

	return statistics.CatalogService{
		ID:       r.ID,
		Name:     strings.TrimSpace(name),
		Price:    r.Price,
		Duration: r.Duration,
	}
}

// rawReview mirrors the backend review payload.
type rawReview struct {
	Rating     int     `json:"rating"`
	ServiceID  int64   `json:"serviceId"`
	ProviderID int64   `json:"vendorId"`
	Date       apiTime `json:"date"`
	CreatedAt  apiTime `json:"createdAt"`
}

func (r rawReview) normalize() statistics.Review {
	created := r.Date.Time
	if created.IsZero() {
		created = r.CreatedAt.Time
	}

	return statistics.Review{
		Rating:     r.Rating,
		ServiceID:  r.ServiceID,
		ProviderID: r.ProviderID,
		CreatedAt:  created,
	}
}
