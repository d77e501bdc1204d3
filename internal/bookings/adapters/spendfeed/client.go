package spendfeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"booking-attribution-service/internal/bookings/core/domain"
	"booking-attribution-service/internal/bookings/core/ports"

	"github.com/valyala/fasthttp"
)

// DatePlaceholder is replaced by the requested day (YYYY-MM-DD).
const DatePlaceholder = "{date}"

// Client fetches one spend document per day from a URL template such as
// https://bucket.s3.amazonaws.com/spend/{date}.json.
type Client struct {
	http     *fasthttp.Client
	template string
	timeout  time.Duration
}

var _ ports.SpendFeedPort = (*Client)(nil)

func NewClient(template string, timeout time.Duration) (*Client, error) {
	if !strings.Contains(template, DatePlaceholder) {
		return nil, fmt.Errorf("spend feed url %q has no %s placeholder", template, DatePlaceholder)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			Name:         "booking-attribution-service",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		template: template,
		timeout:  timeout,
	}, nil
}

func (c *Client) URL(day domain.CalendarDay) string {
	return strings.ReplaceAll(c.template, DatePlaceholder, day.String())
}

// FetchDay maps 404 and 403 to ports.ErrSpendNotFound; object stores answer
// 403 for missing keys when listing is not allowed.
func (c *Client) FetchDay(ctx context.Context, day domain.CalendarDay) ([]domain.SpendRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := c.URL(day)
	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusNotFound, status == fasthttp.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", day, ports.ErrSpendNotFound)
	case status != fasthttp.StatusOK:
		return nil, fmt.Errorf("get %s: unexpected status %d", url, status)
	}

	records, err := domain.DecodeSpendDocument(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", day, err)
	}
	return records, nil
}
