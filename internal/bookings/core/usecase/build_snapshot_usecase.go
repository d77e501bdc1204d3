package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/bookings/core/ports"
	"booking-attribution-service/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrNoEvents      = errors.New("no event records could be listed")
	ErrNoWriters     = errors.New("no snapshot writers configured")
	ErrInvalidWindow = errors.New("spend lookback must not be negative")
)

// Options is the explicit configuration of one pipeline run.
type Options struct {
	Paths domain.FieldPaths
	// JoinLocation is where created_at is truncated to the spend join day.
	JoinLocation *time.Location
	// SpendLocation decides which day is "yesterday" for the spend feed.
	SpendLocation *time.Location
	// SpendLookbackDays limits spend fetches to booking days within this many
	// days ending yesterday. 0 fetches every booking day.
	SpendLookbackDays int
}

type BuildSnapshotInput struct {
	Now time.Time
}

type BuildSnapshotResult struct {
	RunID    string
	Snapshot *domain.Snapshot

	KeysListed     int
	RecordsRead    int
	RecordsSkipped int
	ListingPartial bool

	SpendDaysFetched int
	SpendDaysMissing int
	SpendDaysFailed  int
	SpendRows        int
	UnmatchedSpend   int
	InvalidSpend     int

	// EventTypeCounts counts bookings per mapped event type.
	EventTypeCounts map[string]int
}

type BuildSnapshotUseCase struct {
	source   ports.EventSourcePort
	spend    ports.SpendFeedPort
	writers  []ports.SnapshotWriterPort
	resolver *ChannelResolver
	opts     Options
	log      *zap.Logger
}

func NewBuildSnapshotUseCase(
	source ports.EventSourcePort,
	spend ports.SpendFeedPort,
	writers []ports.SnapshotWriterPort,
	resolver *ChannelResolver,
	opts Options,
	log *zap.Logger,
) *BuildSnapshotUseCase {
	if opts.JoinLocation == nil {
		opts.JoinLocation = time.UTC
	}
	if opts.SpendLocation == nil {
		opts.SpendLocation = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &BuildSnapshotUseCase{
		source:   source,
		spend:    spend,
		writers:  writers,
		resolver: resolver,
		opts:     opts,
		log:      log,
	}
}

// Execute runs fetch -> normalize -> resolve -> join -> export once.
// Feed failures are logged and counted; the run continues with whatever
// data it has. Only an empty listing or a failed export aborts it.
func (uc *BuildSnapshotUseCase) Execute(ctx context.Context, in BuildSnapshotInput) (*BuildSnapshotResult, error) {
	if uc.opts.SpendLookbackDays < 0 {
		return nil, ErrInvalidWindow
	}
	if len(uc.writers) == 0 {
		return nil, ErrNoWriters
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}

	start := time.Now()
	res := &BuildSnapshotResult{
		RunID:           uuid.NewString(),
		EventTypeCounts: map[string]int{},
	}
	log := uc.log.With(zap.String("run_id", res.RunID))

	records, err := uc.readRecords(ctx, log, res)
	if err != nil {
		return nil, err
	}

	table := Normalize(records)
	bookings := uc.toBookings(table, res)

	spend := uc.fetchSpend(ctx, log, bookings, in.Now, res)
	joined := JoinSpend(bookings, spend)
	res.UnmatchedSpend = joined.UnmatchedSpend
	res.InvalidSpend = joined.InvalidSpend
	if joined.InvalidSpend > 0 {
		log.Warn("spend rows with unreadable dates ignored", zap.Int("rows", joined.InvalidSpend))
	}

	res.Snapshot = &domain.Snapshot{
		Columns:  domain.SnapshotColumns(table.Columns),
		Bookings: joined.Bookings,
	}

	for _, w := range uc.writers {
		if err := w.WriteSnapshot(ctx, res.Snapshot); err != nil {
			return nil, fmt.Errorf("write %s snapshot: %w", w.Name(), err)
		}
		log.Info("snapshot written", zap.String("writer", w.Name()), zap.Int("rows", len(res.Snapshot.Bookings)))
	}

	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	log.Info("pipeline finished",
		zap.Int("keys", res.KeysListed),
		zap.Int("records", res.RecordsRead),
		zap.Int("skipped", res.RecordsSkipped),
		zap.Int("spend_days_fetched", res.SpendDaysFetched),
		zap.Int("spend_days_missing", res.SpendDaysMissing),
		zap.Int("spend_days_failed", res.SpendDaysFailed),
		zap.Int("unmatched_spend", res.UnmatchedSpend),
		zap.Duration("took", time.Since(start)),
	)

	return res, nil
}

func (uc *BuildSnapshotUseCase) readRecords(ctx context.Context, log *zap.Logger, res *BuildSnapshotResult) ([]map[string]any, error) {
	keys, err := uc.source.ListKeys(ctx)
	if err != nil {
		metrics.FetchFailures.WithLabelValues("listing").Inc()
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w: %v", ErrNoEvents, err)
		}
		res.ListingPartial = true
		log.Warn("event listing incomplete, continuing with partial keys",
			zap.Int("keys", len(keys)), zap.Error(err))
	}
	res.KeysListed = len(keys)

	records := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		raw, err := uc.source.FetchObject(ctx, key)
		if err != nil {
			metrics.FetchFailures.WithLabelValues("object").Inc()
			metrics.RecordsSkipped.Inc()
			res.RecordsSkipped++
			log.Warn("event object fetch failed", zap.String("key", key), zap.Error(err))
			continue
		}

		var rec map[string]any
		if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
			metrics.RecordsSkipped.Inc()
			res.RecordsSkipped++
			log.Warn("event object is not a JSON object", zap.String("key", key), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	res.RecordsRead = len(records)
	metrics.RecordsIngested.Add(float64(len(records)))
	return records, nil
}

func (uc *BuildSnapshotUseCase) toBookings(table domain.Table, res *BuildSnapshotResult) []domain.Booking {
	bookings := make([]domain.Booking, 0, len(table.Rows))
	for _, row := range table.Rows {
		b := domain.BookingFromRow(row, uc.opts.Paths, uc.opts.JoinLocation)
		b.Channel = uc.resolver.Resolve(b.EventTypeURI)
		if b.Channel != nil {
			res.EventTypeCounts[b.EventTypeURI]++
		}
		bookings = append(bookings, b)
	}
	return bookings
}

// fetchSpend pulls one feed document per booking day in the window. A missing
// document is "no spend that day"; any other failure is reported and skipped.
func (uc *BuildSnapshotUseCase) fetchSpend(
	ctx context.Context,
	log *zap.Logger,
	bookings []domain.Booking,
	now time.Time,
	res *BuildSnapshotResult,
) []domain.SpendRecord {
	var all []domain.SpendRecord
	for _, day := range uc.spendDays(bookings, now) {
		records, err := uc.spend.FetchDay(ctx, day)
		switch {
		case errors.Is(err, ports.ErrSpendNotFound):
			res.SpendDaysMissing++
			metrics.SpendDaysMissing.Inc()
			log.Warn("no spend document for day", zap.Stringer("day", day))
			continue
		case err != nil:
			res.SpendDaysFailed++
			metrics.FetchFailures.WithLabelValues("spend").Inc()
			log.Error("spend feed fetch failed", zap.Stringer("day", day), zap.Error(err))
			continue
		}
		res.SpendDaysFetched++
		metrics.SpendDaysFetched.Inc()
		all = append(all, records...)
	}
	res.SpendRows = len(all)
	return all
}

func (uc *BuildSnapshotUseCase) spendDays(bookings []domain.Booking, now time.Time) []domain.CalendarDay {
	yesterday := domain.DayOf(now, uc.opts.SpendLocation).AddDays(-1)
	var earliest domain.CalendarDay
	if uc.opts.SpendLookbackDays > 0 {
		earliest = yesterday.AddDays(-(uc.opts.SpendLookbackDays - 1))
	}

	seen := make(map[domain.CalendarDay]struct{})
	for _, b := range bookings {
		d := b.CreatedDay
		if d.IsZero() || b.Channel == nil {
			continue
		}
		if uc.opts.SpendLookbackDays > 0 && (d.Before(earliest) || yesterday.Before(d)) {
			continue
		}
		seen[d] = struct{}{}
	}

	days := make([]domain.CalendarDay, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
