package statistics

import (
	"fmt"
	"sort"
)

// AggregateServiceMetrics groups current-window bookings by service. Every
// catalog service is seeded so the grouping covers the full catalog, and
// bookings that reference a service missing from the catalog (deleted or
// never synced) synthesize an entry on the fly, labelled from the booking
// itself. BookingCount counts all statuses; Revenue excludes cancelled
// bookings. The returned order is deterministic: catalog order first, then
// orphaned services in order of first appearance.
func AggregateServiceMetrics(bookings []Booking, window TimeWindow, catalog []CatalogService) []*ServiceMetric {
	metrics := make([]*ServiceMetric, 0, len(catalog))
	byID := make(map[int64]*ServiceMetric, len(catalog))

	for _, svc := range catalog {
		metric := &ServiceMetric{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
		}
		metrics = append(metrics, metric)
		byID[svc.ID] = metric
	}

	for _, b := range bookings {
		if !window.Contains(b.BookedAt) {
			continue
		}

		metric, ok := byID[b.ServiceID]
		if !ok {
			metric = &ServiceMetric{
				ServiceID:   b.ServiceID,
				ServiceName: serviceLabel(b),
			}
			metrics = append(metrics, metric)
			byID[b.ServiceID] = metric
		}

		metric.BookingCount++
		if b.Status.CountsTowardRevenue() {
			metric.Revenue += b.Price
		}
	}

	return metrics
}

// TopServices drops services without bookings and returns the highest
// revenue entries, at most limit. The sort is stable so equal-revenue
// services keep their first-appearance order.
func TopServices(metrics []*ServiceMetric, limit int) []ServiceMetric {
	booked := make([]ServiceMetric, 0, len(metrics))
	for _, m := range metrics {
		if m.BookingCount > 0 {
			booked = append(booked, *m)
		}
	}

	sort.SliceStable(booked, func(i, j int) bool {
		return booked[i].Revenue > booked[j].Revenue
	})

	if limit > 0 && len(booked) > limit {
		booked = booked[:limit]
	}
	return booked
}

func serviceLabel(b Booking) string {
	if b.ServiceName != "" {
		return b.ServiceName
	}
	return fmt.Sprintf("Service %d", b.ServiceID)
}
