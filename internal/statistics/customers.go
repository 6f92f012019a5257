package statistics

// CustomerMetrics holds unique and first-time customer counts
type CustomerMetrics struct {
	TotalUnique int
	New         int
}

// AnalyzeCustomers computes the number of unique customers across the full
// booking history and the number of new customers, i.e. customers whose
// earliest booking falls inside the current window. A single pass tracks
// the minimum booking date per customer, so input order is irrelevant.
func AnalyzeCustomers(bookings []Booking, current TimeWindow) CustomerMetrics {
	earliest := make(map[int64]Booking, len(bookings))
	for _, b := range bookings {
		first, seen := earliest[b.CustomerID]
		if !seen || b.BookedAt.Before(first.BookedAt) {
			earliest[b.CustomerID] = b
		}
	}

	metrics := CustomerMetrics{TotalUnique: len(earliest)}
	for _, first := range earliest {
		if current.Contains(first.BookedAt) {
			metrics.New++
		}
	}
	return metrics
}
