package statistics

import "time"

const monthlySeriesLength = 6

// BuildMonthlySeries buckets the full booking history into the trailing six
// calendar months ending at the month of the reference time, in
// chronological order. Months without activity still appear with all-zero
// values. TotalBookings counts every status, CompletedBookings only
// COMPLETED, and Revenue excludes cancelled bookings.
func BuildMonthlySeries(now time.Time, bookings []Booking) []MonthlyBucket {
	type monthKey struct {
		year  int
		month time.Month
	}

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	series := make([]MonthlyBucket, 0, monthlySeriesLength)
	index := make(map[monthKey]int, monthlySeriesLength)
	for i := monthlySeriesLength - 1; i >= 0; i-- {
		month := firstOfMonth.AddDate(0, -i, 0)
		index[monthKey{month.Year(), month.Month()}] = len(series)
		series = append(series, MonthlyBucket{Month: month.Format("Jan")})
	}

	for _, b := range bookings {
		pos, ok := index[monthKey{b.BookedAt.Year(), b.BookedAt.Month()}]
		if !ok {
			continue
		}

		bucket := &series[pos]
		bucket.TotalBookings++
		if b.Status == StatusCompleted {
			bucket.CompletedBookings++
		}
		if b.Status.CountsTowardRevenue() {
			bucket.Revenue += b.Price
		}
	}

	return series
}
