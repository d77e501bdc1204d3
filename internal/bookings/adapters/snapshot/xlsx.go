package snapshot

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/bookings/core/ports"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const SheetName = "bookings"

// XLSXWriter exports the snapshot as a single-sheet workbook. Numbers and
// booleans keep their cell type; everything else is written as text, cut to
// the per-cell character limit of the format.
type XLSXWriter struct {
	path string
	log  *zap.Logger
}

var _ ports.SnapshotWriterPort = (*XLSXWriter)(nil)

func NewXLSXWriter(path string, log *zap.Logger) *XLSXWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &XLSXWriter{path: path, log: log}
}

func (w *XLSXWriter) Name() string { return "xlsx" }

func (w *XLSXWriter) WriteSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(snap.Columns))
	for i, c := range snap.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	values := make([]any, len(snap.Columns))
	truncated := 0
	for n, b := range snap.Bookings {
		if err := ctx.Err(); err != nil {
			return err
		}
		row := b.SnapshotRow()
		for i, col := range snap.Columns {
			v, length, cut := xlsxCell(row[col])
			if cut {
				truncated++
				w.log.Warn("xlsx cell truncated",
					zap.String("booking_id", b.BookingID),
					zap.String("column", col),
					zap.Int("chars", length),
					zap.Int("limit", excelize.TotalCellChars),
				)
			}
			values[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("write row %d: %w", n+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if truncated > 0 {
		w.log.Warn("xlsx export has truncated cells; the csv snapshot keeps full values",
			zap.String("path", w.path), zap.Int("cells", truncated))
	}

	return writeAtomic(w.path, func(out *os.File) error {
		return f.Write(out)
	})
}

// xlsxCell returns the cell value, the text length before cutting and
// whether it was cut.
func xlsxCell(v any) (any, int, bool) {
	switch t := v.(type) {
	case nil:
		return nil, 0, false
	case float64, bool:
		return t, 0, false
	}
	s := domain.FormatCell(v)
	n := utf8.RuneCountInString(s)
	if n > excelize.TotalCellChars {
		return string([]rune(s)[:excelize.TotalCellChars]), n, true
	}
	return s, n, false
}
