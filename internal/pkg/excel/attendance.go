package excel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/xuri/excelize/v2"
)

const AttendanceSheet = "Attendance"

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var attendanceHeader = []interface{}{
	"Date", "Employee ID", "Employee Name", "Employee Email", "Status",
	"Total Hours", "Break Minutes", "Punches", "Note",
}

// WriteAttendance renders one row per record into a single-sheet workbook
func WriteAttendance(w io.Writer, records []attendance.AttendanceResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), AttendanceSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(AttendanceSheet, "A1", &attendanceHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(attendanceHeader), 1)
	if err := f.SetCellStyle(AttendanceSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			rec.Date,
			rec.EmployeeID,
			deref(rec.EmployeeName),
			deref(rec.EmployeeEmail),
			rec.Status,
			rec.TotalHours,
			rec.BreakMinutes,
			formatPunches(rec.Punches),
			deref(rec.Note),
		}
		if err := f.SetSheetRow(AttendanceSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(AttendanceSheet, "A", "I", 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(AttendanceSheet, "H", "H", 40); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// FileName returns the download name for an export generated at t
func FileName(t time.Time) string {
	return fmt.Sprintf("attendance-%s.xlsx", t.UTC().Format("20060102-150405"))
}

// formatPunches joins punches as "in 09:00, out 17:30" in UTC
func formatPunches(punches []attendance.PunchResponse) string {
	parts := make([]string, 0, len(punches))
	for _, p := range punches {
		label := p.Time
		if t, err := time.Parse(time.RFC3339, p.Time); err == nil {
			label = t.UTC().Format("15:04")
		}
		parts = append(parts, p.Type+" "+label)
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
