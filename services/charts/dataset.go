package charts

import (
	"sort"
	"strconv"
	"time"

	"student_dashboard_go/models"
)

// Dataset is the passthrough of server aggregates to a chart
type Dataset struct {
	Label  string
	Labels []string
	Values []float64
	// Max pins the value axis. Zero lets the painter pick one.
	Max float64
}

// Len returns the number of categories
func (d Dataset) Len() int {
	return len(d.Labels)
}

// Value returns the value of a category and whether it exists
func (d Dataset) Value(label string) (float64, bool) {
	for i, l := range d.Labels {
		if l == label {
			return d.Values[i], true
		}
	}
	return 0, false
}

// EnrollmentDataset builds the enrollment trend line
func EnrollmentDataset(points []models.EnrollmentPoint) Dataset {
	ds := Dataset{Label: models.SlotEnrollment.Title()}
	for _, p := range points {
		ds.Labels = append(ds.Labels, p.Month)
		ds.Values = append(ds.Values, float64(p.Count))
	}
	return ds
}

// GradeDistributionDataset builds the grade doughnut. Categories always come
// from models.GradeLetters so the layout stays stable across refreshes:
// missing letters count as zero, letters outside the set are ignored.
func GradeDistributionDataset(counts []models.GradeCount) Dataset {
	byGrade := make(map[string]int, len(counts))
	for _, c := range counts {
		byGrade[c.Grade] += c.Count
	}

	ds := Dataset{
		Label:  models.SlotGrade.Title(),
		Labels: make([]string, len(models.GradeLetters)),
		Values: make([]float64, len(models.GradeLetters)),
	}
	for i, letter := range models.GradeLetters {
		ds.Labels[i] = letter
		ds.Values[i] = float64(byGrade[letter])
	}
	return ds
}

// AttendanceDataset builds the attendance trend line on a 0-100 axis
func AttendanceDataset(points []models.AttendancePoint) Dataset {
	ds := Dataset{Label: models.SlotAttendance.Title(), Max: 100}
	for _, p := range points {
		ds.Labels = append(ds.Labels, shortDate(p.Date))
		ds.Values = append(ds.Values, p.Rate)
	}
	return ds
}

// StudentsByGradeDataset builds the students per grade level bars, ordered by level.
// Labels are the server's level names as sent.
func StudentsByGradeDataset(counts []models.GradeLevelCount) Dataset {
	sorted := make([]models.GradeLevelCount, len(counts))
	copy(sorted, counts)
	sort.SliceStable(sorted, func(i, j int) bool { return gradeLevelLess(sorted[i].GradeLevel, sorted[j].GradeLevel) })

	ds := Dataset{Label: models.SlotStudentsByGrade.Title()}
	for _, c := range sorted {
		ds.Labels = append(ds.Labels, c.GradeLevel)
		ds.Values = append(ds.Values, float64(c.Count))
	}
	return ds
}

// gradeLevelLess orders "2nd Year" before "10th Year": a leading number is
// compared numerically, the rest as text.
func gradeLevelLess(a, b string) bool {
	na, restA := leadingNumber(a)
	nb, restB := leadingNumber(b)
	switch {
	case na >= 0 && nb >= 0 && na != nb:
		return na < nb
	case na >= 0 && nb >= 0:
		return restA < restB
	case na >= 0 || nb >= 0:
		return na >= 0
	}
	return a < b
}

// leadingNumber splits "12th Year" into 12 and "th Year". It returns -1 when s
// does not start with a digit.
func leadingNumber(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return -1, s
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return -1, s
	}
	return n, s[i:]
}

// shortDate turns 2026-10-19 into "Oct 19"
func shortDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2")
}
