package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPunchRequest_Validate(t *testing.T) {
	req := PunchRequest{Type: " IN "}
	require.NoError(t, req.Validate())
	assert.Equal(t, PunchIn, req.Type)

	req = PunchRequest{Type: "lunch"}
	assert.ErrorIs(t, req.Validate(), ErrInvalidPunchType)
}

func TestSetStatusRequest_Validate(t *testing.T) {
	req := SetStatusRequest{Status: StatusHoliday}
	assert.NoError(t, req.Validate())

	req = SetStatusRequest{Status: StatusHalfDay}
	assert.ErrorIs(t, req.Validate(), ErrInvalidStatus)

	req = SetStatusRequest{Status: StatusLeave, Date: strPtr("15/01/2024")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Contains(t, verrs.ToMap(), "date")
}

func TestManualCorrectionRequest_Validate(t *testing.T) {
	hours := -1.0
	bad := Status("Sick")
	req := ManualCorrectionRequest{
		Date:       "not-a-date",
		Punches:    &[]PunchInput{{Type: "break", Time: "yesterday"}},
		TotalHours: &hours,
		Status:     &bad,
	}

	var verrs validator.ValidationErrors
	require.ErrorAs(t, req.Validate(), &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "date")
	assert.Contains(t, fields, "punches[0].type")
	assert.Contains(t, fields, "punches[0].time")
	assert.Contains(t, fields, "total_hours")
	assert.Contains(t, fields, "status")

	zero := 0.0
	ok := ManualCorrectionRequest{
		EmployeeID: "emp-1",
		Date:       "2024-01-15",
		Punches:    &[]PunchInput{{Type: "IN", Time: "2024-01-15T09:00:00+07:00"}},
		TotalHours: &zero,
	}
	require.NoError(t, ok.Validate())

	punches := ok.ParsedPunches()
	require.Len(t, punches, 1)
	assert.Equal(t, PunchIn, punches[0].Type)
	assert.Equal(t, time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC), punches[0].Time)
}

func TestAttendanceFilter_Validate(t *testing.T) {
	f := AttendanceFilter{}
	require.NoError(t, f.Validate())
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)

	f = AttendanceFilter{Page: 3, Limit: 10, From: strPtr("2024-01-01"), To: strPtr("2024-01-31"), Status: strPtr("Leave")}
	require.NoError(t, f.Validate())
	q := f.ToQuery(true)
	assert.Equal(t, 20, q.Offset)
	assert.Equal(t, 10, q.Limit)
	require.NotNil(t, q.Status)
	assert.Equal(t, StatusLeave, *q.Status)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), *q.To)

	all := f.ToQuery(false)
	assert.Zero(t, all.Offset)
	assert.Zero(t, all.Limit)

	f = AttendanceFilter{Limit: 500, From: strPtr("2024-02-01"), To: strPtr("2024-01-01"), Status: strPtr("Sick")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, f.Validate(), &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "limit")
	assert.Contains(t, fields, "to")
	assert.Contains(t, fields, "status")
}

func TestListFilter_Range(t *testing.T) {
	f := ListFilter{From: strPtr("2024-01-01")}
	require.NoError(t, f.Validate())
	from, to := f.Range()
	require.NotNil(t, from)
	assert.Nil(t, to)

	f = ListFilter{To: strPtr("soon")}
	assert.Error(t, f.Validate())
}

func TestToResponse(t *testing.T) {
	note := "doctor"
	att := Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Punches:    []Punch{{Type: PunchIn, Time: time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)}},
		Status:     StatusPresent,
		Note:       &note,
	}

	resp := ToResponse(att)
	assert.Equal(t, "2024-01-15", resp.Date)
	require.Len(t, resp.Punches, 1)
	assert.Equal(t, "in", resp.Punches[0].Type)
	assert.Equal(t, "2024-01-15T09:00:00Z", resp.Punches[0].Time)
	assert.Equal(t, "Present", resp.Status)
	assert.Equal(t, &note, resp.Note)
}
