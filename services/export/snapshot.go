// Package export writes the last rendered dashboard snapshot as a workbook.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"student_dashboard_go/models"
	"student_dashboard_go/services/charts"

	"github.com/xuri/excelize/v2"
)

const (
	SheetOverview        = "Overview"
	SheetEnrollment      = "Enrollment"
	SheetGrades          = "Grades"
	SheetAttendance      = "Attendance"
	SheetStudentsByGrade = "Students by Grade"
)

// ErrNoSnapshot is returned before the first successful refresh
var ErrNoSnapshot = errors.New("no dashboard snapshot yet")

// ContentType of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GenerateSnapshotWorkbook builds the workbook for snapshot
func GenerateSnapshotWorkbook(snapshot *models.DashboardSnapshot, updatedAt time.Time) (*bytes.Buffer, error) {
	if snapshot == nil {
		return nil, ErrNoSnapshot
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// Overview
	f.SetSheetName("Sheet1", SheetOverview)
	o := snapshot.Overview
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total students", o.TotalStudents},
		{"Total subjects", o.TotalSubjects},
		{"Recent enrollments", o.RecentEnrollments},
		{"Attendance rate (%)", o.AttendanceRate},
		{"Average GPA", o.AverageGPA},
		{"Updated at", updatedAt.Format(time.RFC3339)},
	}
	if err := writeRows(f, SheetOverview, rows, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(SheetOverview, "A", "A", 24)
	f.SetColWidth(SheetOverview, "B", "B", 28)

	// Chart series, one sheet each
	series := []struct {
		sheet   string
		headers []interface{}
		ds      charts.Dataset
	}{
		{SheetEnrollment, []interface{}{"Month", "Enrollments"}, charts.EnrollmentDataset(snapshot.EnrollmentTrend)},
		{SheetGrades, []interface{}{"Grade", "Count"}, charts.GradeDistributionDataset(snapshot.GradeDistribution)},
		{SheetAttendance, []interface{}{"Date", "Rate (%)"}, attendanceRows(snapshot.AttendanceTrend)},
		{SheetStudentsByGrade, []interface{}{"Grade level", "Students"}, charts.StudentsByGradeDataset(snapshot.StudentsByGrade)},
	}

	for _, s := range series {
		if _, err := f.NewSheet(s.sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.sheet, err)
		}
		rows := [][]interface{}{s.headers}
		for i, label := range s.ds.Labels {
			rows = append(rows, []interface{}{label, s.ds.Values[i]})
		}
		if err := writeRows(f, s.sheet, rows, headerStyle); err != nil {
			return nil, err
		}
		f.SetColWidth(s.sheet, "A", "B", 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// WriteSnapshotXLSX writes the snapshot workbook to w
func WriteSnapshotXLSX(w io.Writer, snapshot *models.DashboardSnapshot, updatedAt time.Time) error {
	buf, err := GenerateSnapshotWorkbook(snapshot, updatedAt)
	if err != nil {
		return err
	}
	_, err = buf.WriteTo(w)
	return err
}

// attendanceRows keeps full dates, unlike the chart labels
func attendanceRows(points []models.AttendancePoint) charts.Dataset {
	var ds charts.Dataset
	for _, p := range points {
		ds.Labels = append(ds.Labels, p.Date)
		ds.Values = append(ds.Values, p.Rate)
	}
	return ds
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetCellStyle(sheet, "A1", "B1", headerStyle)
}
