package models

import "time"

// Severity of a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

var severityIcons = map[Severity]string{
	SeveritySuccess: "check-circle",
	SeverityDanger:  "exclamation-triangle",
	SeverityWarning: "exclamation-circle",
	SeverityInfo:    "info-circle",
}

// Icon returns the icon name shown next to the message
func (s Severity) Icon() string {
	if icon, ok := severityIcons[s]; ok {
		return icon
	}
	return "info-circle"
}

// Notification is a transient, user-visible message. It is never persisted.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the display window has elapsed at now
func (n *Notification) IsExpired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
