package snapshot

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/bookings/core/ports"
)

// CSVWriter exports the snapshot as a flat CSV file. Null cells are empty
// strings; lists are written as JSON text.
type CSVWriter struct {
	path string
}

var _ ports.SnapshotWriterPort = (*CSVWriter)(nil)

func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

func (w *CSVWriter) Name() string { return "csv" }

func (w *CSVWriter) WriteSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	return writeAtomic(w.path, func(f *os.File) error {
		cw := csv.NewWriter(f)
		if err := cw.Write(snap.Columns); err != nil {
			return err
		}

		record := make([]string, len(snap.Columns))
		for _, b := range snap.Bookings {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := b.SnapshotRow()
			for i, col := range snap.Columns {
				record[i] = domain.FormatCell(row[col])
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}

		cw.Flush()
		return cw.Error()
	})
}

// CSVReader loads a CSV snapshot back into bookings, keeping the exported
// channel and spend columns.
type CSVReader struct {
	path    string
	paths   domain.FieldPaths
	joinLoc *time.Location
}

func NewCSVReader(path string, paths domain.FieldPaths, joinLoc *time.Location) *CSVReader {
	if joinLoc == nil {
		joinLoc = time.UTC
	}
	return &CSVReader{path: path, paths: paths, joinLoc: joinLoc}
}

func (r *CSVReader) LoadBookings(ctx context.Context) ([]domain.Booking, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	columns := append([]string(nil), header...)

	var bookings []domain.Booking
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot line %d: %w", line, err)
		}

		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if i >= len(rec) || rec[i] == "" {
				row[col] = nil
				continue
			}
			row[col] = rec[i]
		}
		bookings = append(bookings, domain.BookingFromSnapshotRow(row, r.paths, r.joinLoc))
	}
	return bookings, nil
}

// writeAtomic writes into a temp file next to path and renames it into place.
func writeAtomic(path string, write func(f *os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
