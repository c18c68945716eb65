package models

// Overview holds the headline counters of the dashboard
type Overview struct {
	TotalStudents     int     `json:"total_students"`
	TotalSubjects     int     `json:"total_subjects"`
	RecentEnrollments int     `json:"recent_enrollments"`
	AttendanceRate    float64 `json:"attendance_rate"`
	AverageGPA        float64 `json:"average_gpa"`
}

// EnrollmentPoint is one month of the enrollment trend
type EnrollmentPoint struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// GradeCount is the number of grades recorded for a letter grade
type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}

// GradeLevelCount is the number of active students in a grade level.
// Levels are free text such as "1st Year".
type GradeLevelCount struct {
	GradeLevel string `json:"grade"`
	Count      int    `json:"count"`
}

// AttendancePoint is the attendance rate of a single day
type AttendancePoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Rate    float64 `json:"rate"`
	Total   int     `json:"total,omitempty"`
	Present int     `json:"present,omitempty"`
}

// DashboardSnapshot is one fetched copy of the dashboard aggregates.
// It is never persisted.
type DashboardSnapshot struct {
	Overview          Overview          `json:"overview"`
	EnrollmentTrend   []EnrollmentPoint `json:"enrollment_trend"`
	GradeDistribution []GradeCount      `json:"grade_distribution"`
	StudentsByGrade   []GradeLevelCount `json:"students_by_grade"`
	AttendanceTrend   []AttendancePoint `json:"attendance_trend,omitempty"`
}

// StatsResponse is the envelope returned by the stats API
type StatsResponse[T any] struct {
	Success *bool  `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data"`
}
