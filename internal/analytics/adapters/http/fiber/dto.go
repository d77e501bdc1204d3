package fiber

// AnalyticsQuery holds the dashboard filters. Both lists arrive as
// comma-separated query values.
type AnalyticsQuery struct {
	Channels []string `validate:"max=50,dive,required,max=128"`
	Users    []string `validate:"max=500,dive,required,max=256"`
}

type DailyBookingsResponse struct {
	Day      string  `json:"day" example:"2024-01-01"`
	Channel  *string `json:"channel" example:"facebook_paid_ads"`
	Bookings int64   `json:"bookings" example:"3"`
}

type ChannelCostResponse struct {
	Channel       *string  `json:"channel" example:"facebook_paid_ads"`
	TotalSpend    *float64 `json:"total_spend" example:"90"`
	TotalBookings int64    `json:"total_bookings" example:"3"`
	CPB           *float64 `json:"cpb" example:"30"`
}

type CumulativePointResponse struct {
	Day        string `json:"day" example:"2024-01-01"`
	Bookings   int64  `json:"bookings"`
	Cumulative int64  `json:"cumulative"`
}

type TrendResponse struct {
	Daily      []DailyBookingsResponse   `json:"daily"`
	Cumulative []CumulativePointResponse `json:"cumulative"`
}

type HourCountResponse struct {
	Hour     int   `json:"hour"`
	Bookings int64 `json:"bookings"`
}

type WeekdayCountResponse struct {
	Day      string `json:"day" example:"Monday"`
	Bookings int64  `json:"bookings"`
}

type HeatmapRowResponse struct {
	Day   string  `json:"day" example:"Monday"`
	Hours []int64 `json:"hours"`
}

type TimeOfDayResponse struct {
	ByHour    []HourCountResponse    `json:"by_hour"`
	ByWeekday []WeekdayCountResponse `json:"by_weekday"`
	Heatmap   []HeatmapRowResponse   `json:"heatmap"`
}

type UserWeekResponse struct {
	UserName string `json:"user_name"`
	Week     string `json:"week" example:"2024-W01"`
	Meetings int64  `json:"meetings"`
}

type UserLoadResponse struct {
	UserName           string  `json:"user_name"`
	AvgMeetingsPerWeek float64 `json:"avg_meetings_per_week"`
	TotalMeetings      int64   `json:"total_meetings"`
	MaxMeetings        int64   `json:"max_meetings"`
	MinMeetings        int64   `json:"min_meetings"`
	WeeksActive        int     `json:"weeks_active"`
}

type EmployeeLoadResponse struct {
	Weekly []UserWeekResponse `json:"weekly"`
	Users  []UserLoadResponse `json:"users"`
}

type SummaryResponse struct {
	TotalBookings int64    `json:"total_bookings"`
	TotalSpend    *float64 `json:"total_spend"`
	AverageCPB    *float64 `json:"average_cpb"`
	Channels      int      `json:"channels"`
	Users         int      `json:"users"`
}

type FiltersResponse struct {
	Channels []string `json:"channels"`
	Users    []string `json:"users"`
}

type ReloadResponse struct {
	Bookings int `json:"bookings" example:"1250"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_filter"`
	Message string `json:"message" example:"unknown channel \"myspace\""`
}
