package ports

import (
	"context"

	bookings "booking-attribution-service/internal/bookings/core/domain"
)

// SnapshotReaderPort loads the exported, spend-joined booking table. The
// analytics side never recomputes the join.
type SnapshotReaderPort interface {
	LoadBookings(ctx context.Context) ([]bookings.Booking, error)
}
