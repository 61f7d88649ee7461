package attendance

import (
	"time"
)

type PunchType string

const (
	PunchIn  PunchType = "in"
	PunchOut PunchType = "out"
)

func (t PunchType) IsValid() bool {
	return t == PunchIn || t == PunchOut
}

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
	StatusHalfDay Status = "Half Day"
	StatusHoliday Status = "Holiday"
)

// AllStatuses lists every status a record can carry.
var AllStatuses = []Status{StatusPresent, StatusAbsent, StatusLeave, StatusHalfDay, StatusHoliday}

// SettableStatuses lists the statuses an employee may set on their own day.
var SettableStatuses = []Status{StatusPresent, StatusLeave, StatusHoliday, StatusAbsent}

func (s Status) IsValid() bool {
	return containsStatus(AllStatuses, s)
}

func (s Status) IsSettable() bool {
	return containsStatus(SettableStatuses, s)
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Punch is a single clock-in or clock-out event. Punches are never edited
// after being appended to a record.
type Punch struct {
	Type PunchType
	Time time.Time
}

type Attendance struct {
	ID           string
	EmployeeID   string
	Date         time.Time // UTC calendar day
	Punches      []Punch
	TotalHours   float64
	BreakMinutes int
	Status       Status
	Note         *string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	EmployeeName  *string
	EmployeeEmail *string
}

// IsFinalized reports whether the day already holds a full in/out pair.
func (a *Attendance) IsFinalized() bool {
	return len(a.Punches) >= 2
}

// LastPunch returns the most recent punch, or nil for an empty day.
func (a *Attendance) LastPunch() *Punch {
	if len(a.Punches) == 0 {
		return nil
	}
	return &a.Punches[len(a.Punches)-1]
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey is the serialization key of a single employee day.
func DayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + DateOf(date).Format(DateLayout)
}

const DateLayout = "2006-01-02"
