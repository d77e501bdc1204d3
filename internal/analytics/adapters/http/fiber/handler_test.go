package fiber_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "booking-attribution-service/internal/analytics/adapters/http/fiber"
	"booking-attribution-service/internal/analytics/core/domain"
	"booking-attribution-service/internal/analytics/core/usecase"
	bookings "booking-attribution-service/internal/bookings/core/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// Fake usecase implementing the interface that handler depends on.
type fakeGetAnalyticsUseCase struct {
	ExecuteFn func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error)
	LoadFn    func(ctx context.Context) (int, error)
	lastInput usecase.GetAnalyticsInput
	called    bool
}

func (f *fakeGetAnalyticsUseCase) Load(ctx context.Context) (int, error) {
	f.called = true
	if f.LoadFn != nil {
		return f.LoadFn(ctx)
	}
	return 0, nil
}

func (f *fakeGetAnalyticsUseCase) Execute(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
	f.called = true
	f.lastInput = in
	if f.ExecuteFn != nil {
		return f.ExecuteFn(ctx, in)
	}
	return &domain.Report{View: in.View}, nil
}

func setupApp(t *testing.T, uc httpadapter.GetAnalyticsUseCase) *fiber.App {
	t.Helper()
	return setupAppWithLogger(t, uc, nil)
}

func setupAppWithLogger(t *testing.T, uc httpadapter.GetAnalyticsUseCase, log *zap.Logger) *fiber.App {
	t.Helper()
	app := fiber.New()
	h := httpadapter.NewAnalyticsHandler(uc, log)
	app.Use(httpadapter.RequestMetrics(nil))
	h.Register(app.Group("/analytics"))
	return app
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestGetCostPerBooking_Success(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			if in.View != usecase.ViewCPB {
				t.Fatalf("expected view=cpb, got %s", in.View)
			}
			return &domain.Report{View: in.View, Costs: []domain.ChannelCost{
				{Channel: strPtr("facebook_paid_ads"), TotalSpend: floatPtr(90), TotalBookings: 3, CPB: floatPtr(30)},
				{Channel: nil, TotalSpend: nil, TotalBookings: 1, CPB: nil},
			}}, nil
		},
	}
	app := setupApp(t, uc)

	resp, body := get(t, app, "/analytics/cpb")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	var got []httpadapter.ChannelCostResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || *got[0].CPB != 30 || got[0].TotalBookings != 3 {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(string(body), `"channel":null`) || !strings.Contains(string(body), `"cpb":null`) {
		t.Fatalf("expected null channel and cpb to be encoded as null: %s", body)
	}
}

func TestGetDaily_PassesFilters(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			d, _ := bookings.ParseDay("2024-01-01")
			return &domain.Report{Daily: []domain.DailyChannelBookings{{Day: d, Channel: strPtr("facebook_paid_ads"), Bookings: 3}}}, nil
		},
	}
	app := setupApp(t, uc)

	resp, body := get(t, app, "/analytics/daily?channels=facebook_paid_ads,%20youtube_paid_ads&users=Alice")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !uc.called {
		t.Fatalf("expected usecase to be called")
	}
	in := uc.lastInput
	if in.View != usecase.ViewDaily {
		t.Fatalf("expected view=daily, got %s", in.View)
	}
	if len(in.Channels) != 2 || in.Channels[1] != "youtube_paid_ads" {
		t.Fatalf("unexpected channels: %v", in.Channels)
	}
	if len(in.Users) != 1 || in.Users[0] != "Alice" {
		t.Fatalf("unexpected users: %v", in.Users)
	}
	if !strings.Contains(string(body), `"day":"2024-01-01"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestGetTimeOfDay_MondayFirst(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			var tod domain.TimeOfDay
			for i, d := range domain.Weekdays {
				tod.ByWeekday[i] = domain.WeekdayCount{Weekday: d, Bookings: int64(i)}
			}
			tod.Heatmap[6][23] = 4
			return &domain.Report{TimeOfDay: &tod}, nil
		},
	}
	app := setupApp(t, uc)

	resp, body := get(t, app, "/analytics/time-of-day")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var got httpadapter.TimeOfDayResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.ByHour) != 24 || len(got.ByWeekday) != 7 || len(got.Heatmap) != 7 {
		t.Fatalf("unexpected shape: %s", body)
	}
	if got.ByWeekday[0].Day != "Monday" || got.ByWeekday[6].Day != "Sunday" {
		t.Fatalf("unexpected weekday order: %+v", got.ByWeekday)
	}
	if got.Heatmap[6].Day != "Sunday" || got.Heatmap[6].Hours[23] != 4 {
		t.Fatalf("unexpected heatmap: %+v", got.Heatmap[6])
	}
}

func TestGetEmployeeLoad_Success(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			return &domain.Report{EmployeeLoad: &domain.EmployeeLoad{
				Weekly: []domain.UserWeekLoad{{UserName: "Alice", Week: domain.ISOWeekOf(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), Meetings: 2}},
				Users:  []domain.UserLoadSummary{{UserName: "Alice", AvgPerWeek: 2, Total: 2, Max: 2, Min: 2, WeeksActive: 1}},
			}}, nil
		},
	}
	app := setupApp(t, uc)

	resp, body := get(t, app, "/analytics/employee-load")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"week":"2024-W01"`) || !strings.Contains(string(body), `"avg_meetings_per_week":2`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

// ------------------------------------------------------------
// ERRORS
// ------------------------------------------------------------

func TestGetLeaderboard_InvalidFilter(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			return nil, fmt.Errorf("%w: unknown channel %q", usecase.ErrInvalidFilter, "myspace")
		},
	}
	app := setupApp(t, uc)

	resp, body := get(t, app, "/analytics/leaderboard?channels=myspace")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	var got httpadapter.ErrorResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != "invalid_filter" {
		t.Fatalf("unexpected error code: %s", got.Error)
	}
}

func TestGetSummary_EmptyFilterValueRejected(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{}
	app := setupApp(t, uc)

	resp, _ := get(t, app, "/analytics/summary?channels=facebook_paid_ads,,")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}
	if uc.called {
		t.Fatalf("usecase must not be called for an invalid query")
	}
}

func TestGetTrend_SnapshotNotLoaded(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			return nil, usecase.ErrSnapshotNotLoaded
		},
	}
	app := setupApp(t, uc)

	resp, _ := get(t, app, "/analytics/trend")

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.StatusCode)
	}
}

func TestGetFilters_InternalError(t *testing.T) {
	uc := &fakeGetAnalyticsUseCase{
		ExecuteFn: func(ctx context.Context, in usecase.GetAnalyticsInput) (*domain.Report, error) {
			return nil, errors.New("boom")
		},
	}
	app := setupApp(t, uc)

	resp, body := get(t, app, "/analytics/filters")

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "boom") {
		t.Fatalf("internal error details must not leak: %s", body)
	}
}

// ------------------------------------------------------------
// RELOAD
// ------------------------------------------------------------

func TestReload(t *testing.T) {
	tests := []struct {
		name       string
		loadErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "ok", wantStatus: http.StatusOK, wantBody: `"bookings":42`},
		{name: "empty", loadErr: usecase.ErrSnapshotEmpty, wantStatus: http.StatusUnprocessableEntity, wantBody: "snapshot_empty"},
		{name: "failure", loadErr: errors.New("s3 down"), wantStatus: http.StatusInternalServerError, wantBody: "reload_failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeGetAnalyticsUseCase{
				LoadFn: func(ctx context.Context) (int, error) {
					if tt.loadErr != nil {
						return 0, tt.loadErr
					}
					return 42, nil
				},
			}
			core, logs := observer.New(zapcore.ErrorLevel)
			app := setupAppWithLogger(t, uc, zap.New(core))

			req := httptest.NewRequest(http.MethodPost, "/analytics/reload", nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test error: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)

			if !uc.called {
				t.Fatalf("expected Load to be called")
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d (%s)", tt.wantStatus, resp.StatusCode, body)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Fatalf("expected body to contain %s, got %s", tt.wantBody, body)
			}
			if strings.Contains(string(body), "s3 down") {
				t.Fatalf("internal error leaked: %s", body)
			}
			if tt.loadErr == nil {
				if logs.Len() != 0 {
					t.Fatalf("expected no error logs, got %d", logs.Len())
				}
				return
			}
			entries := logs.FilterMessage("snapshot reload failed").All()
			if len(entries) != 1 {
				t.Fatalf("expected the reload failure to be logged once, got %d", len(entries))
			}
			if got := entries[0].ContextMap()["error"]; got != tt.loadErr.Error() {
				t.Fatalf("expected logged cause %q, got %v", tt.loadErr, got)
			}
		})
	}
}
