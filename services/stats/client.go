package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"student_dashboard_go/models"
)

const (
	DashboardPath       = "/api/stats/dashboard"
	AttendanceTrendPath = "/api/stats/attendance-trend"
)

// Fetcher loads dashboard aggregates from the stats API
type Fetcher interface {
	// FetchDashboardStats returns the overview counters and chart series
	FetchDashboardStats(ctx context.Context) (*models.DashboardSnapshot, error)

	// FetchAttendanceTrend returns the daily attendance rate for the last days
	FetchAttendanceTrend(ctx context.Context, days int) ([]models.AttendancePoint, error)
}

// Client implements Fetcher over HTTP. It never retries.
type Client struct {
	baseURL       string
	sessionCookie string
	client        *http.Client
}

// NewClient creates a client for the stats API at baseURL
func NewClient(baseURL, sessionCookie string) *Client {
	return &Client{
		baseURL:       baseURL,
		sessionCookie: sessionCookie,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchDashboardStats implements Fetcher
func (c *Client) FetchDashboardStats(ctx context.Context) (*models.DashboardSnapshot, error) {
	var snapshot models.DashboardSnapshot
	if err := getJSON(ctx, c, DashboardPath, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// FetchAttendanceTrend implements Fetcher
func (c *Client) FetchAttendanceTrend(ctx context.Context, days int) ([]models.AttendancePoint, error) {
	params := url.Values{}
	params.Add("days", strconv.Itoa(days))

	var trend []models.AttendancePoint
	if err := getJSON(ctx, c, AttendanceTrendPath, params, &trend); err != nil {
		return nil, err
	}
	return trend, nil
}

// getJSON performs one round-trip and decodes the {success, data} envelope into out
func getJSON[T any](ctx context.Context, c *Client, path string, params url.Values, out *T) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return invalid(path, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if c.sessionCookie != "" {
		req.Header.Set("Cookie", c.sessionCookie)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return unreachable(path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return invalid(path, fmt.Errorf("API returned status: %d", resp.StatusCode))
	}

	var envelope models.StatsResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return invalid(path, fmt.Errorf("failed to decode response: %w", err))
	}
	if envelope.Success == nil || !*envelope.Success {
		msg := envelope.Message
		if msg == "" {
			msg = "success flag missing or false"
		}
		return invalid(path, errors.New(msg))
	}
	if envelope.Data == nil {
		return invalid(path, errors.New("response has no data"))
	}

	*out = *envelope.Data
	return nil
}
