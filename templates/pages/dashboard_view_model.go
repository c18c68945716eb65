package pages

import (
	"time"
)

// CounterView is one headline counter card
type CounterView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// ChartView is one chart card. Version changes whenever the chart is re-rendered.
type ChartView struct {
	Slot     string `json:"slot"`
	Anchor   string `json:"anchor"`
	Title    string `json:"title"`
	Version  string `json:"version,omitempty"`
	Rendered bool   `json:"rendered"`
}

// NotificationView is a visible notification. Message is already sanitized.
type NotificationView struct {
	ID       string `json:"id"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Icon     string `json:"icon"`
}

// DashboardView holds the data for the dashboard page
type DashboardView struct {
	Counters      []CounterView      `json:"counters"`
	Charts        []ChartView        `json:"charts"`
	Notifications []NotificationView `json:"notifications"`
	Connected     bool               `json:"connected"`
	UpdatedAt     time.Time          `json:"updated_at"`
	PollEvery     time.Duration      `json:"-"`
}
