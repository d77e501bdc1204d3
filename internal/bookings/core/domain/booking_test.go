package domain

import (
	"sort"
	"testing"
	"time"
)

func rowFor(id, meeting string, members any) Row {
	return Row{
		"payload.scheduled_event.uri":               id,
		"payload.uri":                               meeting,
		"payload.scheduled_event.event_type":        "https://api.calendly.com/event_types/fb",
		"payload.scheduled_event.start_time":        "2024-01-01T15:00:00.000000Z",
		"payload.scheduled_event.event_memberships": members,
		"created_at":                                "2024-01-01T12:34:56.123456Z",
		"created_by":                                "https://api.calendly.com/users/owner",
	}
}

func TestBookingFromRow(t *testing.T) {
	b := BookingFromRow(rowFor("b1", "m1", nil), DefaultFieldPaths(), time.UTC)

	if b.BookingID != "b1" || b.MeetingID != "m1" {
		t.Fatalf("unexpected ids: %+v", b)
	}
	if b.CreatedBy != "https://api.calendly.com/users/owner" {
		t.Fatalf("unexpected created_by: %s", b.CreatedBy)
	}
	if b.CreatedDay.String() != "2024-01-01" {
		t.Fatalf("unexpected created day: %s", b.CreatedDay)
	}
	if !b.HasStartTime() || b.StartTime.Hour() != 15 {
		t.Fatalf("unexpected start time: %v", b.StartTime)
	}
	if b.Channel != nil || b.Spend != nil {
		t.Fatalf("channel and spend must be left unset")
	}
}

func TestBookingFromRow_MissingFields(t *testing.T) {
	b := BookingFromRow(Row{}, DefaultFieldPaths(), time.UTC)
	if b.BookingID != "" || !b.CreatedDay.IsZero() || b.HasStartTime() {
		t.Fatalf("expected empty booking, got %+v", b)
	}
	if b.Memberships.Kind != MembershipsAbsent {
		t.Fatalf("expected absent memberships")
	}
}

func TestSnapshotRow_RoundTrip(t *testing.T) {
	ch := "facebook_paid_ads"
	spend := 90.0
	b := BookingFromRow(rowFor("b1", "m1", nil), DefaultFieldPaths(), time.UTC)
	b.Channel = &ch
	b.Spend = &spend

	row := b.SnapshotRow()
	if row[ColumnChannel] != ch || row[ColumnDate] != "2024-01-01" || row[ColumnSpend] != 90.0 {
		t.Fatalf("unexpected derived columns: %v %v %v", row[ColumnChannel], row[ColumnDate], row[ColumnSpend])
	}
	if _, ok := b.Record[ColumnChannel]; ok {
		t.Fatalf("SnapshotRow must not modify the record")
	}

	// flat files hold every cell as text
	text := make(Row, len(row))
	for k, v := range row {
		text[k] = FormatCell(v)
	}
	back := BookingFromSnapshotRow(text, DefaultFieldPaths(), time.UTC)
	if back.ChannelName() != ch || back.Spend == nil || *back.Spend != 90 {
		t.Fatalf("unexpected rebuilt booking: %+v", back)
	}
	if back.CreatedDay.String() != "2024-01-01" {
		t.Fatalf("unexpected rebuilt day: %s", back.CreatedDay)
	}
}

func TestBookingFromSnapshotRow_NullDerivedColumns(t *testing.T) {
	row := rowFor("b1", "m1", nil)
	row[ColumnChannel] = ""
	row[ColumnSpend] = ""
	b := BookingFromSnapshotRow(row, DefaultFieldPaths(), time.UTC)
	if b.Channel != nil || b.Spend != nil {
		t.Fatalf("empty derived cells must stay null, got channel=%v spend=%v", b.Channel, b.Spend)
	}
}

func TestSnapshotColumns(t *testing.T) {
	cols := SnapshotColumns([]string{"a", "spend", "b"})
	want := []string{"a", "spend", "b", ColumnChannel, ColumnDate}
	if len(cols) != len(want) {
		t.Fatalf("got %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("got %v, want %v", cols, want)
		}
	}
}

// ------------------------------------------------------------
// EXPLODE
// ------------------------------------------------------------

func TestExplode_StringMemberships(t *testing.T) {
	b := BookingFromRow(rowFor("b1", "m1", "[{'user_name': 'Alice'}, {'user_name': 'Bob'}]"), DefaultFieldPaths(), time.UTC)

	rows := Explode([]Booking{b})

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Booking.BookingID != "b1" || r.Booking.MeetingID != "m1" {
			t.Fatalf("exploded row lost its ids: %+v", r.Booking)
		}
	}
	if rows[0].UserName != "Alice" || rows[1].UserName != "Bob" {
		t.Fatalf("unexpected users: %s, %s", rows[0].UserName, rows[1].UserName)
	}
}

func TestExplode_DropsBookingsWithoutUsers(t *testing.T) {
	bookings := []Booking{
		BookingFromRow(rowFor("b1", "m1", nil), DefaultFieldPaths(), time.UTC),
		BookingFromRow(rowFor("b2", "m2", "garbage"), DefaultFieldPaths(), time.UTC),
		BookingFromRow(rowFor("b3", "m3", []any{map[string]any{"user_name": "Carol"}}), DefaultFieldPaths(), time.UTC),
	}

	rows := Explode(bookings)

	if len(rows) != 1 || rows[0].Booking.BookingID != "b3" {
		t.Fatalf("expected only b3 to survive, got %+v", rows)
	}
}

func TestExplode_CollapseRecoversUserNames(t *testing.T) {
	bookings := []Booking{
		BookingFromRow(rowFor("b1", "m1", []any{
			map[string]any{"user_name": "Alice"},
			map[string]any{"user_name": "Bob"},
		}), DefaultFieldPaths(), time.UTC),
		BookingFromRow(rowFor("b2", "m2", `[{"user_name": "Carol"}, {"user_name": "Alice"}]`), DefaultFieldPaths(), time.UTC),
	}

	collapsed := map[string][]string{}
	for _, r := range Explode(bookings) {
		collapsed[r.Booking.BookingID] = append(collapsed[r.Booking.BookingID], r.UserName)
	}

	for _, b := range bookings {
		want := b.Memberships.UserNames()
		got := collapsed[b.BookingID]
		sort.Strings(want)
		sort.Strings(got)
		if len(got) != len(want) {
			t.Fatalf("booking %s: got %v, want %v", b.BookingID, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("booking %s: got %v, want %v", b.BookingID, got, want)
			}
		}
	}
}
