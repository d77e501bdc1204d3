package usecase_test

import (
	"testing"
	"time"

	"booking-attribution-service/internal/analytics/core/domain"
	"booking-attribution-service/internal/analytics/core/usecase"
	bookings "booking-attribution-service/internal/bookings/core/domain"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func day(s string) bookings.CalendarDay {
	d, err := bookings.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

type bk struct {
	id, meeting string
	channel     *string
	created     string
	start       string
	spend       *float64
	users       []string
}

func (b bk) build() bookings.Booking {
	var members []any
	for _, u := range b.users {
		members = append(members, map[string]any{"user_name": u})
	}
	out := bookings.Booking{
		BookingID:   b.id,
		MeetingID:   b.meeting,
		Channel:     b.channel,
		Spend:       b.spend,
		Memberships: bookings.MembershipsFromValue(members),
	}
	if b.created != "" {
		out.CreatedDay = day(b.created)
	}
	if b.start != "" {
		out.StartTime = ts(b.start)
	}
	return out
}

func build(in ...bk) []bookings.Booking {
	out := make([]bookings.Booking, 0, len(in))
	for _, b := range in {
		out = append(out, b.build())
	}
	return out
}

// ------------------------------------------------------------
// COST PER BOOKING
// ------------------------------------------------------------

func TestCostPerBooking_SpendSummedOncePerDay(t *testing.T) {
	fb := strPtr("facebook_paid_ads")
	bs := build(
		bk{id: "b1", channel: fb, created: "2024-01-01", spend: floatPtr(90)},
		bk{id: "b2", channel: fb, created: "2024-01-01", spend: floatPtr(90)},
		bk{id: "b3", channel: fb, created: "2024-01-01", spend: floatPtr(90)},
	)

	got := usecase.CostPerBooking(bs)

	if len(got) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(got))
	}
	c := got[0]
	if c.Channel == nil || *c.Channel != "facebook_paid_ads" {
		t.Fatalf("unexpected channel: %v", c.Channel)
	}
	if c.TotalSpend == nil || *c.TotalSpend != 90 {
		t.Fatalf("expected total spend 90, got %v", c.TotalSpend)
	}
	if c.TotalBookings != 3 {
		t.Fatalf("expected 3 bookings, got %d", c.TotalBookings)
	}
	if c.CPB == nil || *c.CPB != 30.0 {
		t.Fatalf("expected cpb 30.0, got %v", c.CPB)
	}
}

func TestCostPerBooking_MultipleDaysAndDistinctIDs(t *testing.T) {
	fb := strPtr("facebook_paid_ads")
	bs := build(
		bk{id: "b1", channel: fb, created: "2024-01-01", spend: floatPtr(10.1)},
		bk{id: "b1", channel: fb, created: "2024-01-01", spend: floatPtr(10.1)},
		bk{id: "b2", channel: fb, created: "2024-01-02", spend: floatPtr(20.2)},
	)

	c := usecase.CostPerBooking(bs)[0]

	if c.TotalBookings != 2 {
		t.Fatalf("duplicate booking ids must count once, got %d", c.TotalBookings)
	}
	if c.TotalSpend == nil || *c.TotalSpend != 30.3 {
		t.Fatalf("expected total spend 30.3, got %v", c.TotalSpend)
	}
	if c.CPB == nil || *c.CPB != 15.15 {
		t.Fatalf("expected cpb 15.15, got %v", c.CPB)
	}
}

func TestCostPerBooking_NullAndZeroSpend(t *testing.T) {
	bs := build(
		bk{id: "b1", channel: strPtr("youtube_paid_ads"), created: "2024-01-01"},
		bk{id: "b2", channel: strPtr("tiktok_paid_ads"), created: "2024-01-01", spend: floatPtr(0)},
		bk{id: "b3", created: "2024-01-01"},
	)

	got := usecase.CostPerBooking(bs)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups incl. unmapped, got %d", len(got))
	}

	tiktok, youtube, unmapped := got[0], got[1], got[2]
	if tiktok.CPB == nil || *tiktok.CPB != 0 {
		t.Fatalf("zero spend with bookings must give cpb 0, got %v", tiktok.CPB)
	}
	if youtube.TotalSpend != nil || youtube.CPB != nil {
		t.Fatalf("no matched spend must give nil total and cpb, got %v / %v", youtube.TotalSpend, youtube.CPB)
	}
	if unmapped.Channel != nil || unmapped.TotalBookings != 1 {
		t.Fatalf("expected unmapped bucket last with 1 booking, got %+v", unmapped)
	}
}

// ------------------------------------------------------------
// LEADERBOARD
// ------------------------------------------------------------

func TestLeaderboard_SortedAndExcludesEmptyChannels(t *testing.T) {
	fb, yt, tt := strPtr("facebook_paid_ads"), strPtr("youtube_paid_ads"), strPtr("tiktok_paid_ads")
	bs := build(
		bk{id: "b1", channel: yt},
		bk{id: "b2", channel: fb},
		bk{id: "b3", channel: fb},
		bk{id: "", channel: tt},
	)

	got := usecase.Leaderboard(bs)

	if len(got) != 2 {
		t.Fatalf("expected 2 ranked channels, got %d", len(got))
	}
	if *got[0].Channel != "facebook_paid_ads" || got[0].TotalBookings != 2 {
		t.Fatalf("unexpected leader: %+v", got[0])
	}
	if *got[1].Channel != "youtube_paid_ads" || got[1].TotalBookings != 1 {
		t.Fatalf("unexpected runner-up: %+v", got[1])
	}
}

// ------------------------------------------------------------
// DAILY / TREND
// ------------------------------------------------------------

func TestDailyByChannel_AndCumulativeTrend(t *testing.T) {
	fb, yt := strPtr("facebook_paid_ads"), strPtr("youtube_paid_ads")
	bs := build(
		bk{id: "b1", channel: fb, start: "2024-01-01T10:00:00Z"},
		bk{id: "b2", channel: fb, start: "2024-01-01T11:00:00Z"},
		bk{id: "b2", channel: fb, start: "2024-01-01T11:00:00Z"},
		bk{id: "b3", start: "2024-01-01T12:00:00Z"},
		bk{id: "b4", channel: yt, start: "2024-01-02T09:00:00Z"},
		bk{id: "b5", channel: yt},
	)

	daily := usecase.DailyByChannel(bs, time.UTC)

	if len(daily) != 3 {
		t.Fatalf("expected 3 (day, channel) groups, got %d: %+v", len(daily), daily)
	}
	if daily[0].Day.String() != "2024-01-01" || *daily[0].Channel != "facebook_paid_ads" || daily[0].Bookings != 2 {
		t.Fatalf("unexpected first group: %+v", daily[0])
	}
	if daily[1].Channel != nil || daily[1].Bookings != 1 {
		t.Fatalf("expected unmapped bucket second, got %+v", daily[1])
	}

	trend := usecase.CumulativeTrend(daily)
	if len(trend) != 2 {
		t.Fatalf("expected 2 days, got %d", len(trend))
	}
	if trend[0].Bookings != 3 || trend[0].Cumulative != 3 {
		t.Fatalf("unexpected day 1: %+v", trend[0])
	}
	if trend[1].Bookings != 1 || trend[1].Cumulative != 4 {
		t.Fatalf("unexpected day 2: %+v", trend[1])
	}
}

func TestDailyByChannel_DisplayTimezone(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata not available: %v", err)
	}
	bs := build(bk{id: "b1", channel: strPtr("facebook_paid_ads"), start: "2024-01-02T03:00:00Z"})

	if got := usecase.DailyByChannel(bs, time.UTC)[0].Day.String(); got != "2024-01-02" {
		t.Fatalf("UTC: got %s", got)
	}
	if got := usecase.DailyByChannel(bs, eastern)[0].Day.String(); got != "2024-01-01" {
		t.Fatalf("Eastern: got %s", got)
	}
}

// ------------------------------------------------------------
// TIME OF DAY
// ------------------------------------------------------------

func TestTimeOfDay_WeekdayOrderIsMondayFirst(t *testing.T) {
	bs := build(
		bk{id: "b1", start: "2024-01-07T09:00:00Z"}, // Sunday
		bk{id: "b2", start: "2024-01-07T09:30:00Z"}, // Sunday
		bk{id: "b3", start: "2024-01-03T14:00:00Z"}, // Wednesday
	)

	got := usecase.TimeOfDayDistribution(bs, time.UTC)

	for i, want := range []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday} {
		if got.ByWeekday[i].Weekday != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got.ByWeekday[i].Weekday)
		}
	}
	if got.ByWeekday[6].Bookings != 2 || got.ByWeekday[2].Bookings != 1 || got.ByWeekday[0].Bookings != 0 {
		t.Fatalf("unexpected weekday counts: %+v", got.ByWeekday)
	}
	if got.ByHour[9] != 2 || got.ByHour[14] != 1 {
		t.Fatalf("unexpected hour counts: %v", got.ByHour)
	}
	if got.Heatmap[6][9] != 2 || got.Heatmap[2][14] != 1 {
		t.Fatalf("unexpected heatmap cells")
	}
}

func TestWeekdayIndex(t *testing.T) {
	for i, d := range domain.Weekdays {
		if domain.WeekdayIndex(d) != i {
			t.Fatalf("%s: expected %d, got %d", d, i, domain.WeekdayIndex(d))
		}
	}
}

// ------------------------------------------------------------
// EMPLOYEE LOAD
// ------------------------------------------------------------

func TestWeeklyLoad_AndSummary(t *testing.T) {
	bs := build(
		bk{id: "b1", meeting: "m1", start: "2024-01-01T10:00:00Z", users: []string{"Alice", "Bob"}},
		bk{id: "b2", meeting: "m2", start: "2024-01-07T10:00:00Z", users: []string{"Alice"}},
		bk{id: "b2", meeting: "m2", start: "2024-01-07T10:00:00Z", users: []string{"Alice"}},
		bk{id: "b3", meeting: "m3", start: "2024-01-08T10:00:00Z", users: []string{"Alice"}},
		bk{id: "b4", meeting: "m4", users: []string{"Carol"}},
	)

	weekly := usecase.WeeklyLoad(bookings.Explode(bs), time.UTC)

	if len(weekly) != 3 {
		t.Fatalf("expected 3 (user, week) groups, got %d: %+v", len(weekly), weekly)
	}
	first := weekly[0]
	if first.UserName != "Alice" || first.Week.String() != "2024-W01" || first.Meetings != 2 {
		t.Fatalf("unexpected first group: %+v", first)
	}

	summary := usecase.SummarizeLoad(weekly)
	if len(summary) != 2 {
		t.Fatalf("expected 2 users, got %d", len(summary))
	}
	alice := summary[0]
	if alice.UserName != "Alice" || alice.Total != 3 || alice.Max != 2 || alice.Min != 1 || alice.WeeksActive != 2 {
		t.Fatalf("unexpected Alice summary: %+v", alice)
	}
	if alice.AvgPerWeek != 1.5 {
		t.Fatalf("expected avg 1.5, got %v", alice.AvgPerWeek)
	}
	if summary[1].UserName != "Bob" || summary[1].Total != 1 {
		t.Fatalf("unexpected Bob summary: %+v", summary[1])
	}
}

// ------------------------------------------------------------
// TOTALS
// ------------------------------------------------------------

func TestTotals(t *testing.T) {
	fb, yt := strPtr("facebook_paid_ads"), strPtr("youtube_paid_ads")
	bs := build(
		bk{id: "b1", channel: fb, created: "2024-01-01", spend: floatPtr(90), users: []string{"Alice"}},
		bk{id: "b2", channel: fb, created: "2024-01-01", spend: floatPtr(90), users: []string{"Bob"}},
		bk{id: "b3", channel: yt, created: "2024-01-01", spend: floatPtr(30)},
		bk{id: "b4", created: "2024-01-01", users: []string{"Alice"}},
	)

	s := usecase.Totals(bs, usecase.CostPerBooking(bs))

	if s.TotalBookings != 4 || s.Channels != 2 || s.Users != 2 {
		t.Fatalf("unexpected counts: %+v", s)
	}
	if s.TotalSpend == nil || *s.TotalSpend != 120 {
		t.Fatalf("expected total spend 120, got %v", s.TotalSpend)
	}
	// 120 over the 3 bookings of mapped channels
	if s.AverageCPB == nil || *s.AverageCPB != 40 {
		t.Fatalf("expected average cpb 40, got %v", s.AverageCPB)
	}
}
