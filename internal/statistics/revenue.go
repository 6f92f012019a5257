package statistics

// BookingsInWindow returns the bookings whose date falls inside the window,
// preserving input order. All statuses are included.
func BookingsInWindow(bookings []Booking, window TimeWindow) []Booking {
	result := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if window.Contains(b.BookedAt) {
			result = append(result, b)
		}
	}
	return result
}

// RevenueInWindow sums booking prices over the window, excluding cancelled
// bookings. An empty booking set yields 0.
func RevenueInWindow(bookings []Booking, window TimeWindow) float64 {
	var amount float64
	for _, b := range bookings {
		if !window.Contains(b.BookedAt) {
			continue
		}
		if b.Status.CountsTowardRevenue() {
			amount += b.Price
		}
	}
	return amount
}

// PercentChange computes the period-over-period change as a percentage.
// A previous value of 0 yields 0 so an empty comparison window never
// produces a division by zero.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// GrowthRate compares current and previous window booking counts using the
// same zero-previous policy as PercentChange.
func GrowthRate(currentCount, previousCount int) float64 {
	return PercentChange(float64(currentCount), float64(previousCount))
}
