package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/bookings/core/ports"

	"github.com/lib/pq"
)

// SnapshotRepository stores the latest snapshot in booking_snapshots, one row
// per exported booking row, and reads it back for the analytics API. Each
// write replaces the whole table in one transaction.
type SnapshotRepository struct {
	db      DB
	paths   domain.FieldPaths
	joinLoc *time.Location
}

func NewSnapshotRepository(db DB, paths domain.FieldPaths, joinLoc *time.Location) *SnapshotRepository {
	if joinLoc == nil {
		joinLoc = time.UTC
	}
	return &SnapshotRepository{db: db, paths: paths, joinLoc: joinLoc}
}

var _ ports.SnapshotWriterPort = (*SnapshotRepository)(nil)

// Rows are not keyed by (booking_id, meeting_id): several webhook records can
// share both ids and every one of them is part of the snapshot.
const createSnapshotTableSQL = `
CREATE TABLE IF NOT EXISTS booking_snapshots (
    position    INTEGER NOT NULL,
    booking_id  TEXT NOT NULL,
    meeting_id  TEXT NOT NULL,
    event_type  TEXT,
    channel     TEXT,
    created_at  TIMESTAMPTZ,
    created_day DATE,
    start_time  TIMESTAMPTZ,
    spend       DOUBLE PRECISION,
    user_names  TEXT[] NOT NULL DEFAULT '{}',
    record      JSONB NOT NULL,
    written_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const clearSnapshotSQL = `DELETE FROM booking_snapshots`

// SQL template
const insertSnapshotSQL = `
INSERT INTO booking_snapshots (
    position,
    booking_id,
    meeting_id,
    event_type,
    channel,
    created_at,
    created_day,
    start_time,
    spend,
    user_names,
    record
) VALUES (
    $1, $2, $3, $4, $5, $6,
    $7, $8, $9, $10, $11
);
`

// created_day is the join day fixed at ingest; it is read back as text so
// the reader never re-derives it in another timezone.
const selectSnapshotSQL = `
SELECT record, channel, spend, to_char(created_day, 'YYYY-MM-DD')
FROM booking_snapshots
ORDER BY position
`

func (r *SnapshotRepository) Name() string { return "postgres" }

// EnsureSchema creates booking_snapshots when it does not exist.
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSnapshotTableSQL); err != nil {
		return fmt.Errorf("create booking_snapshots: %w", err)
	}
	return nil
}

// WriteSnapshot swaps the table contents for snap. Readers keep seeing the
// previous snapshot until the transaction commits; on error nothing changes.
func (r *SnapshotRepository) WriteSnapshot(ctx context.Context, snap *domain.Snapshot) (err error) {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, clearSnapshotSQL); err != nil {
		return fmt.Errorf("clear booking_snapshots: %w", err)
	}
	for i, b := range snap.Bookings {
		var args []any
		args, err = insertArgs(i, b)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, insertSnapshotSQL, args...); err != nil {
			return fmt.Errorf("insert booking %s: %w", b.BookingID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func insertArgs(position int, b domain.Booking) ([]any, error) {
	recordJSON, err := json.Marshal(b.Record)
	if err != nil {
		return nil, fmt.Errorf("encode record %s: %w", b.BookingID, err)
	}

	return []any{
		position,
		b.BookingID,
		b.MeetingID,
		nullString(b.EventTypeURI),
		b.Channel,
		nullTime(b.CreatedAt),
		nullDay(b.CreatedDay),
		nullTime(b.StartTime),
		b.Spend,
		pq.Array(b.Memberships.UserNames()),
		recordJSON,
	}, nil
}

func (r *SnapshotRepository) LoadBookings(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, selectSnapshotSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var (
			recordJSON []byte
			channel    sql.NullString
			spend      sql.NullFloat64
			createdDay sql.NullString
		)
		if err := rows.Scan(&recordJSON, &channel, &spend, &createdDay); err != nil {
			return nil, err
		}

		var record domain.Row
		if err := json.Unmarshal(recordJSON, &record); err != nil {
			return nil, fmt.Errorf("decode stored record: %w", err)
		}

		b := domain.BookingFromRow(record, r.paths, r.joinLoc)
		b.CreatedDay = domain.CalendarDay{}
		if createdDay.Valid {
			d, err := domain.ParseDay(createdDay.String)
			if err != nil {
				return nil, fmt.Errorf("decode stored created_day: %w", err)
			}
			b.CreatedDay = d
		}
		if channel.Valid {
			ch := channel.String
			b.Channel = &ch
		}
		if spend.Valid {
			v := spend.Float64
			b.Spend = &v
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullDay(d domain.CalendarDay) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
