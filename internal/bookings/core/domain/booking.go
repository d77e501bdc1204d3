package domain

import (
	"time"
)

// Derived snapshot columns appended after the flattened record columns.
const (
	ColumnChannel = "channel"
	ColumnDate    = "date"
	ColumnSpend   = "spend"
)

// FieldPaths names the flattened columns a Booking is read from.
type FieldPaths struct {
	BookingID   string
	MeetingID   string
	EventType   string
	CreatedAt   string
	StartTime   string
	CreatedBy   string
	Memberships string
}

func DefaultFieldPaths() FieldPaths {
	return FieldPaths{
		BookingID:   "payload.scheduled_event.uri",
		MeetingID:   "payload.uri",
		EventType:   "payload.scheduled_event.event_type",
		CreatedAt:   "created_at",
		StartTime:   "payload.scheduled_event.start_time",
		CreatedBy:   "created_by",
		Memberships: "payload.scheduled_event.event_memberships",
	}
}

// Booking is one scheduled-event webhook record in canonical form.
type Booking struct {
	BookingID    string
	MeetingID    string
	EventTypeURI string
	CreatedBy    string

	// Channel is nil when the event type is not mapped.
	Channel *string

	CreatedAt time.Time
	// CreatedDay is the spend join key; zero when created_at is missing.
	CreatedDay CalendarDay
	// StartTime is zero when the scheduled start is missing.
	StartTime time.Time

	Memberships Memberships

	// Spend is nil when no (channel, day) spend row matched.
	Spend *float64

	Record Row
}

// BookingFromRow reads the canonical fields of a flattened record.
// CreatedDay is truncated in joinLoc. Channel and Spend are left unset.
func BookingFromRow(row Row, paths FieldPaths, joinLoc *time.Location) Booking {
	b := Booking{
		BookingID:    row.String(paths.BookingID),
		MeetingID:    row.String(paths.MeetingID),
		EventTypeURI: row.String(paths.EventType),
		CreatedBy:    row.String(paths.CreatedBy),
		Memberships:  MembershipsFromValue(row[paths.Memberships]),
		Record:       row,
	}
	if t, ok := ParseTimestamp(row[paths.CreatedAt]); ok {
		b.CreatedAt = t
		b.CreatedDay = DayOf(t, joinLoc)
	}
	if t, ok := ParseTimestamp(row[paths.StartTime]); ok {
		b.StartTime = t
	}
	return b
}

// BookingFromSnapshotRow rebuilds a booking from an exported snapshot row,
// taking channel and spend from the derived columns instead of recomputing
// the join.
func BookingFromSnapshotRow(row Row, paths FieldPaths, joinLoc *time.Location) Booking {
	b := BookingFromRow(row, paths, joinLoc)
	if ch := row.String(ColumnChannel); ch != "" {
		b.Channel = &ch
	}
	if d, err := ParseDay(row.String(ColumnDate)); err == nil {
		b.CreatedDay = d
	}
	if v, ok := row.Float(ColumnSpend); ok {
		b.Spend = &v
	}
	return b
}

func (b Booking) ChannelName() string {
	if b.Channel == nil {
		return ""
	}
	return *b.Channel
}

func (b Booking) HasStartTime() bool {
	return !b.StartTime.IsZero()
}

// SnapshotRow is the record plus the derived channel, date and spend columns.
func (b Booking) SnapshotRow() Row {
	out := make(Row, len(b.Record)+3)
	for k, v := range b.Record {
		out[k] = v
	}
	out[ColumnChannel] = nil
	if b.Channel != nil {
		out[ColumnChannel] = *b.Channel
	}
	out[ColumnDate] = nil
	if !b.CreatedDay.IsZero() {
		out[ColumnDate] = b.CreatedDay.String()
	}
	out[ColumnSpend] = nil
	if b.Spend != nil {
		out[ColumnSpend] = *b.Spend
	}
	return out
}

// Snapshot is the normalized, channel-tagged, spend-joined table that the
// export artifacts are written from.
type Snapshot struct {
	Columns  []string
	Bookings []Booking
}

// SnapshotColumns appends the derived columns not already present.
func SnapshotColumns(recordColumns []string) []string {
	cols := make([]string, 0, len(recordColumns)+3)
	seen := make(map[string]struct{}, len(recordColumns))
	for _, c := range recordColumns {
		cols = append(cols, c)
		seen[c] = struct{}{}
	}
	for _, c := range []string{ColumnChannel, ColumnDate, ColumnSpend} {
		if _, ok := seen[c]; !ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// Attendance is one (booking, user_name) pair of the exploded view.
type Attendance struct {
	Booking  Booking
	UserName string
}

// Explode emits one Attendance per resolved user name. Bookings without any
// user name are not represented, so booking totals must come from the
// unexploded slice.
func Explode(bookings []Booking) []Attendance {
	out := make([]Attendance, 0, len(bookings))
	for _, b := range bookings {
		for _, name := range b.Memberships.UserNames() {
			out = append(out, Attendance{Booking: b, UserName: name})
		}
	}
	return out
}
