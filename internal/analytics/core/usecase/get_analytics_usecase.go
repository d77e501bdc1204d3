package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"booking-attribution-service/internal/analytics/core/domain"
	"booking-attribution-service/internal/analytics/core/ports"
	bookings "booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/metrics"
)

var (
	ErrInvalidView       = errors.New("invalid analytics view")
	ErrInvalidFilter     = errors.New("invalid filter value")
	ErrSnapshotNotLoaded = errors.New("snapshot not loaded")
	ErrSnapshotEmpty     = errors.New("snapshot has no bookings")
)

// Dashboard views.
const (
	ViewDaily        = "daily"
	ViewCPB          = "cpb"
	ViewTrend        = "trend"
	ViewLeaderboard  = "leaderboard"
	ViewTimeOfDay    = "time-of-day"
	ViewEmployeeLoad = "employee-load"
	ViewSummary      = "summary"
	ViewFilters      = "filters"
)

type GetAnalyticsInput struct {
	View string
	// Channels and Users narrow the rows read; empty means no restriction.
	Channels []string
	Users    []string
}

// GetAnalyticsUseCase serves every dashboard view from one read-only table
// loaded at startup. Filters select rows and never touch the table.
type GetAnalyticsUseCase struct {
	reader  ports.SnapshotReaderPort
	display *time.Location

	mu       sync.RWMutex
	loaded   bool
	bookings []bookings.Booking
	exploded []bookings.Attendance
	options  domain.FilterOptions
}

func NewGetAnalyticsUseCase(reader ports.SnapshotReaderPort, display *time.Location) *GetAnalyticsUseCase {
	if display == nil {
		display = time.UTC
	}
	return &GetAnalyticsUseCase{reader: reader, display: display}
}

// Load reads the snapshot and replaces the served table. On error the
// previous table stays in place.
func (uc *GetAnalyticsUseCase) Load(ctx context.Context) (int, error) {
	bs, err := uc.reader.LoadBookings(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}
	if len(bs) == 0 {
		return 0, ErrSnapshotEmpty
	}

	exploded := bookings.Explode(bs)
	opts := filterOptions(bs, exploded)

	uc.mu.Lock()
	uc.bookings = bs
	uc.exploded = exploded
	uc.options = opts
	uc.loaded = true
	uc.mu.Unlock()

	metrics.SnapshotBookings.Set(float64(len(bs)))
	return len(bs), nil
}

func (uc *GetAnalyticsUseCase) Execute(ctx context.Context, in GetAnalyticsInput) (*domain.Report, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if !uc.loaded {
		return nil, ErrSnapshotNotLoaded
	}

	switch in.View {
	case ViewDaily, ViewCPB, ViewTrend, ViewLeaderboard, ViewTimeOfDay, ViewEmployeeLoad, ViewSummary, ViewFilters:
	default:
		return nil, ErrInvalidView
	}

	channels, err := selection(in.Channels, uc.options.Channels, "channel")
	if err != nil {
		return nil, err
	}
	users, err := selection(in.Users, uc.options.Users, "user")
	if err != nil {
		return nil, err
	}

	rep := &domain.Report{View: in.View}
	if in.View == ViewFilters {
		opts := uc.options
		rep.Filters = &opts
		return rep, nil
	}

	bs := uc.selectBookings(channels, users)

	switch in.View {
	case ViewDaily:
		rep.Daily = DailyByChannel(bs, uc.display)
	case ViewCPB:
		rep.Costs = CostPerBooking(bs)
	case ViewTrend:
		daily := DailyByChannel(bs, uc.display)
		rep.Trend = &domain.Trend{Daily: daily, Cumulative: CumulativeTrend(daily)}
	case ViewLeaderboard:
		rep.Leaderboard = Leaderboard(bs)
	case ViewTimeOfDay:
		tod := TimeOfDayDistribution(bs, uc.display)
		rep.TimeOfDay = &tod
	case ViewEmployeeLoad:
		weekly := WeeklyLoad(uc.selectAttendance(channels, users), uc.display)
		rep.EmployeeLoad = &domain.EmployeeLoad{Weekly: weekly, Users: SummarizeLoad(weekly)}
	case ViewSummary:
		s := Totals(bs, CostPerBooking(bs))
		rep.Summary = &s
	}
	return rep, nil
}

// selectBookings keeps bookings of the selected channels that have at least
// one selected user. A channel selection never includes the unmapped bucket.
func (uc *GetAnalyticsUseCase) selectBookings(channels, users map[string]struct{}) []bookings.Booking {
	if channels == nil && users == nil {
		return uc.bookings
	}
	out := make([]bookings.Booking, 0, len(uc.bookings))
	for _, b := range uc.bookings {
		if !channelSelected(b, channels) {
			continue
		}
		if users != nil && !anySelected(b.Memberships.UserNames(), users) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (uc *GetAnalyticsUseCase) selectAttendance(channels, users map[string]struct{}) []bookings.Attendance {
	if channels == nil && users == nil {
		return uc.exploded
	}
	out := make([]bookings.Attendance, 0, len(uc.exploded))
	for _, a := range uc.exploded {
		if !channelSelected(a.Booking, channels) {
			continue
		}
		if users != nil {
			if _, ok := users[a.UserName]; !ok {
				continue
			}
		}
		out = append(out, a)
	}
	return out
}

func channelSelected(b bookings.Booking, channels map[string]struct{}) bool {
	if channels == nil {
		return true
	}
	if b.Channel == nil {
		return false
	}
	_, ok := channels[*b.Channel]
	return ok
}

func anySelected(names []string, set map[string]struct{}) bool {
	for _, n := range names {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}

// selection validates the requested values against the known ones. A nil
// result means no restriction.
func selection(requested, known []string, what string) (map[string]struct{}, error) {
	if len(requested) == 0 {
		return nil, nil
	}
	valid := make(map[string]struct{}, len(known))
	for _, k := range known {
		valid[k] = struct{}{}
	}
	out := make(map[string]struct{}, len(requested))
	for _, r := range requested {
		if _, ok := valid[r]; !ok {
			return nil, fmt.Errorf("%w: unknown %s %q", ErrInvalidFilter, what, r)
		}
		out[r] = struct{}{}
	}
	return out, nil
}

func filterOptions(bs []bookings.Booking, exploded []bookings.Attendance) domain.FilterOptions {
	channels := map[string]struct{}{}
	for _, b := range bs {
		if b.Channel != nil {
			channels[*b.Channel] = struct{}{}
		}
	}
	users := map[string]struct{}{}
	for _, a := range exploded {
		users[a.UserName] = struct{}{}
	}
	return domain.FilterOptions{Channels: sortedKeys(channels), Users: sortedKeys(users)}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
