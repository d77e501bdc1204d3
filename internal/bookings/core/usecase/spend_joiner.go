package usecase

import (
	"booking-attribution-service/internal/bookings/core/domain"
)

type spendKey struct {
	channel string
	day     domain.CalendarDay
}

// JoinResult reports what the join could not use.
type JoinResult struct {
	Bookings []domain.Booking
	// UnmatchedSpend counts (channel, day) spend keys no booking matched.
	UnmatchedSpend int
	// InvalidSpend counts feed rows whose date could not be parsed.
	InvalidSpend int
}

// JoinSpend left-joins spend onto bookings on (channel, CreatedDay).
// Every booking comes out exactly once; unmatched ones keep a nil Spend.
// Duplicate feed rows for one key are summed first so the join cannot fan
// bookings out. The input slice is not modified.
func JoinSpend(bookings []domain.Booking, spend []domain.SpendRecord) JoinResult {
	var res JoinResult

	index := make(map[spendKey]float64, len(spend))
	for _, s := range spend {
		day, err := domain.ParseDay(s.Date)
		if err != nil {
			res.InvalidSpend++
			continue
		}
		index[spendKey{channel: s.Channel, day: day}] += float64(s.Spend)
	}

	matched := make(map[spendKey]struct{}, len(index))
	res.Bookings = make([]domain.Booking, len(bookings))
	for i, b := range bookings {
		b.Spend = nil
		if b.Channel != nil && !b.CreatedDay.IsZero() {
			key := spendKey{channel: *b.Channel, day: b.CreatedDay}
			if v, ok := index[key]; ok {
				amount := v
				b.Spend = &amount
				matched[key] = struct{}{}
			}
		}
		res.Bookings[i] = b
	}

	res.UnmatchedSpend = len(index) - len(matched)
	return res
}
