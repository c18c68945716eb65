package models

// Slot names a chart binding site on the dashboard page
type Slot string

const (
	SlotEnrollment      Slot = "enrollment"
	SlotGrade           Slot = "grade"
	SlotAttendance      Slot = "attendance"
	SlotStudentsByGrade Slot = "studentsByGrade"
)

// ChartKind is the visualization used for a slot. It never depends on data.
type ChartKind string

const (
	ChartKindLine     ChartKind = "line"
	ChartKindDoughnut ChartKind = "doughnut"
	ChartKindBar      ChartKind = "bar"
)

// Anchor ids of the counters on the dashboard page
const (
	AnchorTotalStudents  = "totalStudents"
	AnchorTotalSubjects  = "totalSubjects"
	AnchorAttendanceRate = "attendanceRate"
	AnchorAverageGPA     = "averageGPA"
)

// GradeLetters is the fixed category order of the grade distribution chart
var GradeLetters = []string{"A", "B", "C", "D", "F"}

// Slots lists every chart slot in render order
var Slots = []Slot{SlotEnrollment, SlotGrade, SlotAttendance, SlotStudentsByGrade}

// CounterAnchors lists every counter anchor
var CounterAnchors = []string{AnchorTotalStudents, AnchorTotalSubjects, AnchorAttendanceRate, AnchorAverageGPA}

type slotInfo struct {
	anchor string
	kind   ChartKind
	title  string
}

var slotInfos = map[Slot]slotInfo{
	SlotEnrollment:      {anchor: "enrollmentChart", kind: ChartKindLine, title: "Total Students"},
	SlotGrade:           {anchor: "gradeChart", kind: ChartKindDoughnut, title: "Grade Distribution"},
	SlotAttendance:      {anchor: "attendanceChart", kind: ChartKindLine, title: "Attendance Rate (%)"},
	SlotStudentsByGrade: {anchor: "studentsByGradeChart", kind: ChartKindBar, title: "Students"},
}

// Anchor returns the page anchor id the slot renders into
func (s Slot) Anchor() string {
	return slotInfos[s].anchor
}

// Kind returns the fixed visualization of the slot
func (s Slot) Kind() ChartKind {
	return slotInfos[s].kind
}

// Title returns the dataset label shown on the chart
func (s Slot) Title() string {
	return slotInfos[s].title
}

// IsValid reports whether s is a known slot
func (s Slot) IsValid() bool {
	_, ok := slotInfos[s]
	return ok
}

// AllAnchors returns the anchor ids of a full dashboard page
func AllAnchors() []string {
	anchors := make([]string, 0, len(Slots)+len(CounterAnchors))
	for _, s := range Slots {
		anchors = append(anchors, s.Anchor())
	}
	return append(anchors, CounterAnchors...)
}
