package fiber

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"booking-attribution-service/internal/analytics/core/domain"
	"booking-attribution-service/internal/analytics/core/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GetAnalyticsUseCase interface {
	Execute(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error)
	Load(ctx context.Context) (int, error)
}

type AnalyticsHandler struct {
	uc       GetAnalyticsUseCase
	validate *validator.Validate
	log      *zap.Logger
}

func NewAnalyticsHandler(uc GetAnalyticsUseCase, log *zap.Logger) *AnalyticsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalyticsHandler{uc: uc, validate: validator.New(), log: log}
}

// Register mounts every dashboard view under r.
func (h *AnalyticsHandler) Register(r fiber.Router) {
	r.Get("/daily", h.GetDaily)
	r.Get("/cpb", h.GetCostPerBooking)
	r.Get("/trend", h.GetTrend)
	r.Get("/leaderboard", h.GetLeaderboard)
	r.Get("/time-of-day", h.GetTimeOfDay)
	r.Get("/employee-load", h.GetEmployeeLoad)
	r.Get("/summary", h.GetSummary)
	r.Get("/filters", h.GetFilters)
	r.Post("/reload", h.Reload)
}

// GetDaily godoc
// @Summary Daily bookings by channel
// @Description Distinct bookings per booking date and channel. A null channel is the unmapped bucket.
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {array} DailyBookingsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/daily [get]
func (h *AnalyticsHandler) GetDaily(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewDaily, func(r *domain.Report) any {
		return toDailyResponse(r.Daily)
	})
}

// GetCostPerBooking godoc
// @Summary Cost per booking by channel
// @Description Total spend divided by distinct bookings. total_spend and cpb are null when no spend matched.
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {array} ChannelCostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/cpb [get]
func (h *AnalyticsHandler) GetCostPerBooking(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewCPB, func(r *domain.Report) any {
		return toCostResponse(r.Costs)
	})
}

// GetTrend godoc
// @Summary Bookings trend
// @Description Daily bookings by channel and the cumulative total across channels
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {object} TrendResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/trend [get]
func (h *AnalyticsHandler) GetTrend(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewTrend, func(r *domain.Report) any {
		resp := TrendResponse{
			Daily:      toDailyResponse(r.Trend.Daily),
			Cumulative: make([]CumulativePointResponse, 0, len(r.Trend.Cumulative)),
		}
		for _, p := range r.Trend.Cumulative {
			resp.Cumulative = append(resp.Cumulative, CumulativePointResponse{
				Day:        p.Day.String(),
				Bookings:   p.Bookings,
				Cumulative: p.Cumulative,
			})
		}
		return resp
	})
}

// GetLeaderboard godoc
// @Summary Channel leaderboard
// @Description Channels ranked by distinct booking volume with cost metrics
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {array} ChannelCostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/leaderboard [get]
func (h *AnalyticsHandler) GetLeaderboard(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewLeaderboard, func(r *domain.Report) any {
		return toCostResponse(r.Leaderboard)
	})
}

// GetTimeOfDay godoc
// @Summary Booking volume by hour and weekday
// @Description Weekdays run Monday to Sunday. heatmap rows are weekdays, columns hours 0-23.
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {object} TimeOfDayResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/time-of-day [get]
func (h *AnalyticsHandler) GetTimeOfDay(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewTimeOfDay, func(r *domain.Report) any {
		tod := r.TimeOfDay
		resp := TimeOfDayResponse{
			ByHour:    make([]HourCountResponse, 0, len(tod.ByHour)),
			ByWeekday: make([]WeekdayCountResponse, 0, len(tod.ByWeekday)),
			Heatmap:   make([]HeatmapRowResponse, 0, len(tod.Heatmap)),
		}
		for hour, n := range tod.ByHour {
			resp.ByHour = append(resp.ByHour, HourCountResponse{Hour: hour, Bookings: n})
		}
		for i, w := range tod.ByWeekday {
			resp.ByWeekday = append(resp.ByWeekday, WeekdayCountResponse{Day: w.Weekday.String(), Bookings: w.Bookings})
			hours := tod.Heatmap[i]
			resp.Heatmap = append(resp.Heatmap, HeatmapRowResponse{Day: w.Weekday.String(), Hours: hours[:]})
		}
		return resp
	})
}

// GetEmployeeLoad godoc
// @Summary Meeting load per employee
// @Description Distinct meetings per user and ISO week, with per-user average, total, max and min
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {object} EmployeeLoadResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/employee-load [get]
func (h *AnalyticsHandler) GetEmployeeLoad(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewEmployeeLoad, func(r *domain.Report) any {
		load := r.EmployeeLoad
		resp := EmployeeLoadResponse{
			Weekly: make([]UserWeekResponse, 0, len(load.Weekly)),
			Users:  make([]UserLoadResponse, 0, len(load.Users)),
		}
		for _, w := range load.Weekly {
			resp.Weekly = append(resp.Weekly, UserWeekResponse{UserName: w.UserName, Week: w.Week.String(), Meetings: w.Meetings})
		}
		for _, u := range load.Users {
			resp.Users = append(resp.Users, UserLoadResponse{
				UserName:           u.UserName,
				AvgMeetingsPerWeek: u.AvgPerWeek,
				TotalMeetings:      u.Total,
				MaxMeetings:        u.Max,
				MinMeetings:        u.Min,
				WeeksActive:        u.WeeksActive,
			})
		}
		return resp
	})
}

// GetSummary godoc
// @Summary Headline totals
// @Description Distinct bookings, total matched spend and total spend over mapped-channel bookings
// @Tags Analytics
// @Produce json
// @Param channels query string false "Comma separated channels"
// @Param users query string false "Comma separated user names"
// @Success 200 {object} SummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewSummary, func(r *domain.Report) any {
		s := r.Summary
		return SummaryResponse{
			TotalBookings: s.TotalBookings,
			TotalSpend:    s.TotalSpend,
			AverageCPB:    s.AverageCPB,
			Channels:      s.Channels,
			Users:         s.Users,
		}
	})
}

// GetFilters godoc
// @Summary Filter options
// @Description Channels and user names that the channels and users filters accept
// @Tags Analytics
// @Produce json
// @Success 200 {object} FiltersResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/filters [get]
func (h *AnalyticsHandler) GetFilters(c *fiber.Ctx) error {
	return h.serve(c, usecase.ViewFilters, func(r *domain.Report) any {
		return FiltersResponse{Channels: r.Filters.Channels, Users: r.Filters.Users}
	})
}

// Reload godoc
// @Summary Reload snapshot
// @Description Re-reads the booking snapshot. On failure the previous snapshot keeps serving.
// @Tags Analytics
// @Produce json
// @Success 200 {object} ReloadResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /analytics/reload [post]
func (h *AnalyticsHandler) Reload(c *fiber.Ctx) error {
	n, err := h.uc.Load(c.UserContext())
	if err != nil {
		h.log.Error("snapshot reload failed", zap.Error(err))
		if errors.Is(err, usecase.ErrSnapshotEmpty) {
			return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error:   "snapshot_empty",
				Message: err.Error(),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "reload_failed",
		})
	}
	return c.Status(http.StatusOK).JSON(ReloadResponse{Bookings: n})
}

func (h *AnalyticsHandler) serve(c *fiber.Ctx, view string, render func(*domain.Report) any) error {
	q := AnalyticsQuery{
		Channels: splitList(c.Query("channels", "")),
		Users:    splitList(c.Query("users", "")),
	}
	if err := h.validate.Struct(q); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_filter",
			Message: err.Error(),
		})
	}

	in := usecase.GetAnalyticsInput{
		View:     view,
		Channels: q.Channels,
		Users:    q.Users,
	}

	res, err := h.uc.Execute(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidFilter),
			errors.Is(err, usecase.ErrInvalidView):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_filter",
				Message: err.Error(),
			})
		case errors.Is(err, usecase.ErrSnapshotNotLoaded):
			return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
				Error:   "snapshot_not_loaded",
				Message: err.Error(),
			})
		default:
			h.log.Error("analytics view failed", zap.String("view", view), zap.Error(err))
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(render(res))
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func toDailyResponse(rows []domain.DailyChannelBookings) []DailyBookingsResponse {
	out := make([]DailyBookingsResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, DailyBookingsResponse{Day: d.Day.String(), Channel: d.Channel, Bookings: d.Bookings})
	}
	return out
}

func toCostResponse(rows []domain.ChannelCost) []ChannelCostResponse {
	out := make([]ChannelCostResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, ChannelCostResponse{
			Channel:       c.Channel,
			TotalSpend:    c.TotalSpend,
			TotalBookings: c.TotalBookings,
			CPB:           c.CPB,
		})
	}
	return out
}
