package excel

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteAttendance(t *testing.T) {
	name, email, note := "Ada", "ada@example.com", "client visit"
	records := []attendance.AttendanceResponse{
		{
			EmployeeID:    "emp-1",
			EmployeeName:  &name,
			EmployeeEmail: &email,
			Date:          "2024-01-15",
			Punches: []attendance.PunchResponse{
				{Type: "in", Time: "2024-01-15T09:00:00Z"},
				{Type: "out", Time: "2024-01-15T17:30:00Z"},
			},
			TotalHours: 8.5,
			Status:     "Present",
			Note:       &note,
		},
		{
			EmployeeID: "emp-2",
			Date:       "2024-01-15",
			Punches:    []attendance.PunchResponse{},
			Status:     "Absent",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, records))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{AttendanceSheet}, f.GetSheetList())

	rows, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "Note", rows[0][8])

	assert.Equal(t, []string{"2024-01-15", "emp-1", "Ada", "ada@example.com", "Present", "8.5", "0", "in 09:00, out 17:30", "client visit"}, rows[1])

	// Trailing empty cells are trimmed by GetRows
	assert.Equal(t, "emp-2", rows[2][1])
	assert.Equal(t, "Absent", rows[2][4])
}

func TestWriteAttendance_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAttendance(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(AttendanceSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "attendance-20240115-093000.xlsx", FileName(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)))
}
