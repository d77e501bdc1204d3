package ports

import (
	"context"

	"booking-attribution-service/internal/bookings/core/domain"
)

type SnapshotWriterPort interface {
	Name() string
	WriteSnapshot(ctx context.Context, snap *domain.Snapshot) error
}
