package ports

import (
	"context"
	"errors"

	"booking-attribution-service/internal/bookings/core/domain"
)

// ErrSpendNotFound means the feed has no document for the requested day.
var ErrSpendNotFound = errors.New("spend document not found")

type SpendFeedPort interface {
	// FetchDay returns ErrSpendNotFound (possibly wrapped) when the day has
	// no document.
	FetchDay(ctx context.Context, day domain.CalendarDay) ([]domain.SpendRecord, error)
}
