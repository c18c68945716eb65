package models

import "fmt"

// Live channel event names
const (
	EventStudentCreated     = "student_created"
	EventStudentAdded       = "student_added"
	EventStudentUpdated     = "student_updated"
	EventStudentDeleted     = "student_deleted"
	EventGradeAdded         = "grade_added"
	EventAttendanceRecorded = "attendance_recorded"
	EventSubjectCreated     = "subject_created"
	EventSubjectUpdated     = "subject_updated"
	EventStatus             = "status"
	EventDashboardUpdated   = "dashboard_updated"

	// EventRequestDashboardUpdate is sent by the client
	EventRequestDashboardUpdate = "request_dashboard_update"
)

// LiveEvent is one frame of the live channel
type LiveEvent struct {
	Name string                 `json:"event"`
	Data map[string]interface{} `json:"data,omitempty"`
}

// String returns a payload field as text, or "" if absent
func (e LiveEvent) String(key string) string {
	v, ok := e.Data[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Number returns a numeric payload field
func (e LiveEvent) Number(key string) (float64, bool) {
	switch v := e.Data[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
