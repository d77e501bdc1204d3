package usecase

import (
	"sort"
	"time"

	"booking-attribution-service/internal/analytics/core/domain"
	bookings "booking-attribution-service/internal/bookings/core/domain"

	"github.com/shopspring/decimal"
)

// channelKey groups by channel with the unmapped bucket as its own key.
type channelKey struct {
	name   string
	mapped bool
}

func keyOf(b bookings.Booking) channelKey {
	if b.Channel == nil {
		return channelKey{}
	}
	return channelKey{name: *b.Channel, mapped: true}
}

func (k channelKey) ptr() *string {
	if !k.mapped {
		return nil
	}
	name := k.name
	return &name
}

// less orders mapped channels by name and the unmapped bucket last.
func (k channelKey) less(o channelKey) bool {
	if k.mapped != o.mapped {
		return k.mapped
	}
	return k.name < o.name
}

// idSet counts distinct identifiers; empty ids are not counted.
type idSet map[string]struct{}

func (s idSet) add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

func (s idSet) count() int64 { return int64(len(s)) }

// DailyByChannel counts distinct bookings per (booking date, channel).
// Bookings without a start time have no booking date and are left out.
func DailyByChannel(bs []bookings.Booking, loc *time.Location) []domain.DailyChannelBookings {
	type key struct {
		day bookings.CalendarDay
		ch  channelKey
	}
	groups := map[key]idSet{}
	for _, b := range bs {
		if !b.HasStartTime() {
			continue
		}
		k := key{day: bookings.DayOf(b.StartTime, loc), ch: keyOf(b)}
		if groups[k] == nil {
			groups[k] = idSet{}
		}
		groups[k].add(b.BookingID)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day.Before(keys[j].day)
		}
		return keys[i].ch.less(keys[j].ch)
	})

	out := make([]domain.DailyChannelBookings, 0, len(keys))
	for _, k := range keys {
		out = append(out, domain.DailyChannelBookings{
			Day:      k.day,
			Channel:  k.ch.ptr(),
			Bookings: groups[k].count(),
		})
	}
	return out
}

// CostPerBooking is sum(spend) / distinct(booking_id) per channel. A spend
// row is attached to every booking of its (channel, day), so each matched
// (channel, day) contributes its spend once. Channels without any matched
// spend get a nil total and a nil CPB; a zero booking count gives a nil CPB.
func CostPerBooking(bs []bookings.Booking) []domain.ChannelCost {
	type acc struct {
		ids   idSet
		spend map[bookings.CalendarDay]float64
	}
	groups := map[channelKey]*acc{}
	for _, b := range bs {
		k := keyOf(b)
		a := groups[k]
		if a == nil {
			a = &acc{ids: idSet{}, spend: map[bookings.CalendarDay]float64{}}
			groups[k] = a
		}
		a.ids.add(b.BookingID)
		if b.Spend != nil {
			a.spend[b.CreatedDay] = *b.Spend
		}
	}

	keys := make([]channelKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	out := make([]domain.ChannelCost, 0, len(keys))
	for _, k := range keys {
		a := groups[k]
		row := domain.ChannelCost{Channel: k.ptr(), TotalBookings: a.ids.count()}
		if len(a.spend) > 0 {
			total := decimal.Zero
			for _, v := range a.spend {
				total = total.Add(decimal.NewFromFloat(v))
			}
			ts := total.InexactFloat64()
			row.TotalSpend = &ts
			if row.TotalBookings > 0 {
				cpb := total.Div(decimal.NewFromInt(row.TotalBookings)).InexactFloat64()
				row.CPB = &cpb
			}
		}
		out = append(out, row)
	}
	return out
}

// Leaderboard ranks channels by distinct booking volume, highest first.
// Channels with no bookings are dropped.
func Leaderboard(bs []bookings.Booking) []domain.ChannelCost {
	costs := CostPerBooking(bs)
	out := costs[:0]
	for _, c := range costs {
		if c.TotalBookings > 0 {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBookings > out[j].TotalBookings
	})
	return out
}

// CumulativeTrend sums the daily per-channel counts per day and keeps a
// running total over the sorted days.
func CumulativeTrend(daily []domain.DailyChannelBookings) []domain.CumulativePoint {
	perDay := map[bookings.CalendarDay]int64{}
	for _, d := range daily {
		perDay[d.Day] += d.Bookings
	}

	days := make([]bookings.CalendarDay, 0, len(perDay))
	for d := range perDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := make([]domain.CumulativePoint, 0, len(days))
	var running int64
	for _, d := range days {
		running += perDay[d]
		out = append(out, domain.CumulativePoint{Day: d, Bookings: perDay[d], Cumulative: running})
	}
	return out
}

// TimeOfDayDistribution counts distinct bookings by hour and weekday of the
// scheduled start in loc.
func TimeOfDayDistribution(bs []bookings.Booking, loc *time.Location) domain.TimeOfDay {
	if loc == nil {
		loc = time.UTC
	}
	var (
		byHour    [24]idSet
		byWeekday [7]idSet
		cells     [7][24]idSet
	)
	for _, b := range bs {
		if !b.HasStartTime() {
			continue
		}
		t := b.StartTime.In(loc)
		h, w := t.Hour(), domain.WeekdayIndex(t.Weekday())
		if byHour[h] == nil {
			byHour[h] = idSet{}
		}
		if byWeekday[w] == nil {
			byWeekday[w] = idSet{}
		}
		if cells[w][h] == nil {
			cells[w][h] = idSet{}
		}
		byHour[h].add(b.BookingID)
		byWeekday[w].add(b.BookingID)
		cells[w][h].add(b.BookingID)
	}

	var out domain.TimeOfDay
	for h := range byHour {
		out.ByHour[h] = byHour[h].count()
	}
	for w, day := range domain.Weekdays {
		out.ByWeekday[w] = domain.WeekdayCount{Weekday: day, Bookings: byWeekday[w].count()}
		for h := range cells[w] {
			out.Heatmap[w][h] = cells[w][h].count()
		}
	}
	return out
}

// WeeklyLoad counts distinct meetings per (user, ISO week of the scheduled
// start). It works on the exploded view.
func WeeklyLoad(rows []bookings.Attendance, loc *time.Location) []domain.UserWeekLoad {
	if loc == nil {
		loc = time.UTC
	}
	type key struct {
		user string
		week domain.ISOWeek
	}
	groups := map[key]idSet{}
	for _, r := range rows {
		if !r.Booking.HasStartTime() {
			continue
		}
		k := key{user: r.UserName, week: domain.ISOWeekOf(r.Booking.StartTime.In(loc))}
		if groups[k] == nil {
			groups[k] = idSet{}
		}
		groups[k].add(r.Booking.MeetingID)
	}

	out := make([]domain.UserWeekLoad, 0, len(groups))
	for k, ids := range groups {
		if ids.count() == 0 {
			continue
		}
		out = append(out, domain.UserWeekLoad{UserName: k.user, Week: k.week, Meetings: ids.count()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].Week.Before(out[j].Week)
	})
	return out
}

// SummarizeLoad reduces weekly loads to mean, sum, max and min per user.
func SummarizeLoad(loads []domain.UserWeekLoad) []domain.UserLoadSummary {
	byUser := map[string]*domain.UserLoadSummary{}
	var users []string
	for _, l := range loads {
		s := byUser[l.UserName]
		if s == nil {
			s = &domain.UserLoadSummary{UserName: l.UserName, Max: l.Meetings, Min: l.Meetings}
			byUser[l.UserName] = s
			users = append(users, l.UserName)
		}
		s.Total += l.Meetings
		s.WeeksActive++
		if l.Meetings > s.Max {
			s.Max = l.Meetings
		}
		if l.Meetings < s.Min {
			s.Min = l.Meetings
		}
	}
	sort.Strings(users)

	out := make([]domain.UserLoadSummary, 0, len(users))
	for _, u := range users {
		s := byUser[u]
		s.AvgPerWeek = float64(s.Total) / float64(s.WeeksActive)
		out = append(out, *s)
	}
	return out
}

// Totals builds the headline numbers from the unexploded bookings and their
// per-channel costs. AverageCPB is total spend over the distinct bookings of
// the mapped channels.
func Totals(bs []bookings.Booking, costs []domain.ChannelCost) domain.Summary {
	ids := idSet{}
	for _, b := range bs {
		ids.add(b.BookingID)
	}
	users := map[string]struct{}{}
	for _, r := range bookings.Explode(bs) {
		users[r.UserName] = struct{}{}
	}

	s := domain.Summary{TotalBookings: ids.count(), Users: len(users)}

	spend := decimal.Zero
	var spent bool
	var mappedBookings int64
	for _, c := range costs {
		if c.Channel != nil {
			s.Channels++
			mappedBookings += c.TotalBookings
		}
		if c.TotalSpend != nil {
			spend = spend.Add(decimal.NewFromFloat(*c.TotalSpend))
			spent = true
		}
	}
	if !spent {
		return s
	}
	v := spend.InexactFloat64()
	s.TotalSpend = &v
	if mappedBookings > 0 {
		avg := spend.Div(decimal.NewFromInt(mappedBookings)).InexactFloat64()
		s.AverageCPB = &avg
	}
	return s
}
