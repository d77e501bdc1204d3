package domain

import (
	"fmt"
	"time"

	bookings "booking-attribution-service/internal/bookings/core/domain"
)

// DailyChannelBookings is the distinct booking count of one channel on one
// booking date. Channel is nil for the unmapped bucket.
type DailyChannelBookings struct {
	Day      bookings.CalendarDay
	Channel  *string
	Bookings int64
}

// ChannelCost is one row of the cost-per-booking and leaderboard views.
// TotalSpend and CPB are nil when no spend row matched the channel.
type ChannelCost struct {
	Channel       *string
	TotalSpend    *float64
	TotalBookings int64
	CPB           *float64
}

type CumulativePoint struct {
	Day        bookings.CalendarDay
	Bookings   int64
	Cumulative int64
}

// Weekdays in display order.
var Weekdays = [7]time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// WeekdayIndex maps a weekday onto its position in Weekdays.
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

type WeekdayCount struct {
	Weekday  time.Weekday
	Bookings int64
}

// TimeOfDay holds distinct booking counts by hour, by weekday and by
// weekday x hour. Rows of Heatmap follow Weekdays.
type TimeOfDay struct {
	ByHour    [24]int64
	ByWeekday [7]WeekdayCount
	Heatmap   [7][24]int64
}

type ISOWeek struct {
	Year int
	Week int
}

func ISOWeekOf(t time.Time) ISOWeek {
	y, w := t.ISOWeek()
	return ISOWeek{Year: y, Week: w}
}

func (w ISOWeek) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

func (w ISOWeek) Before(o ISOWeek) bool {
	if w.Year != o.Year {
		return w.Year < o.Year
	}
	return w.Week < o.Week
}

// UserWeekLoad is the distinct meeting count of one user in one ISO week.
type UserWeekLoad struct {
	UserName string
	Week     ISOWeek
	Meetings int64
}

// UserLoadSummary aggregates a user's weekly loads over the weeks the user
// had at least one meeting.
type UserLoadSummary struct {
	UserName    string
	AvgPerWeek  float64
	Total       int64
	Max         int64
	Min         int64
	WeeksActive int
}

// Summary is the headline block of the dashboard. TotalSpend and AverageCPB
// are nil when no spend matched.
type Summary struct {
	TotalBookings int64
	TotalSpend    *float64
	AverageCPB    *float64
	Channels      int
	Users         int
}

// FilterOptions lists what the channel and user filters can select.
type FilterOptions struct {
	Channels []string
	Users    []string
}

type Trend struct {
	Daily      []DailyChannelBookings
	Cumulative []CumulativePoint
}

type EmployeeLoad struct {
	Weekly []UserWeekLoad
	Users  []UserLoadSummary
}

// Report is the answer to one dashboard view; only the field of the
// requested view is set.
type Report struct {
	View         string
	Daily        []DailyChannelBookings
	Costs        []ChannelCost
	Trend        *Trend
	Leaderboard  []ChannelCost
	TimeOfDay    *TimeOfDay
	EmployeeLoad *EmployeeLoad
	Summary      *Summary
	Filters      *FilterOptions
}
