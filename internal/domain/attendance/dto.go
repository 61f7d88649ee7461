package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type PunchRequest struct {
	Type PunchType `json:"type"`
}

func (r *PunchRequest) Validate() error {
	r.Type = PunchType(strings.ToLower(strings.TrimSpace(string(r.Type))))
	if !r.Type.IsValid() {
		return ErrInvalidPunchType
	}
	return nil
}

type LeaveRequest struct {
	Date   *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Reason *string `json:"reason,omitempty"`
}

func (r *LeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && !validator.IsEmpty(*r.Date) {
		if _, valid := validator.ParseDay(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetStatusRequest struct {
	Status Status  `json:"status"`
	Date   *string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Reason *string `json:"reason,omitempty"`
}

func (r *SetStatusRequest) Validate() error {
	if !r.Status.IsSettable() {
		return ErrInvalidStatus
	}

	if r.Date != nil && !validator.IsEmpty(*r.Date) {
		if _, valid := validator.ParseDay(*r.Date); !valid {
			return validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
	}

	return nil
}

type PunchInput struct {
	Type PunchType `json:"type"`
	Time string    `json:"time"` // ISO8601
}

// ManualCorrectionRequest for admins to create or fix a day. Only non-nil
// fields are written; hours are not recomputed from punches.
type ManualCorrectionRequest struct {
	EmployeeID string        `json:"employee_id"`
	Date       string        `json:"date"` // YYYY-MM-DD
	Punches    *[]PunchInput `json:"punches,omitempty"`
	TotalHours *float64      `json:"total_hours,omitempty"`
	Status     *Status       `json:"status,omitempty"`
	Note       *string       `json:"note,omitempty"`
}

func (r *ManualCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.ParseDay(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.Punches != nil {
		for i, p := range *r.Punches {
			if !PunchType(strings.ToLower(string(p.Type))).IsValid() {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("punches[%d].type", i),
					Message: "type must be one of: in, out",
				})
			}
			if _, valid := validator.IsValidDateTime(p.Time); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("punches[%d].time", i),
					Message: "time must be an ISO8601 timestamp",
				})
			}
		}
	}

	if r.TotalHours != nil && *r.TotalHours < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "total_hours",
			Message: "total_hours must not be negative",
		})
	}

	if r.Status != nil && !r.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: Present, Absent, Leave, Half Day, Holiday",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ParsedPunches converts validated punch inputs into domain punches.
func (r *ManualCorrectionRequest) ParsedPunches() []Punch {
	if r.Punches == nil {
		return nil
	}
	punches := make([]Punch, 0, len(*r.Punches))
	for _, p := range *r.Punches {
		t, _ := validator.IsValidDateTime(p.Time)
		punches = append(punches, Punch{
			Type: PunchType(strings.ToLower(string(p.Type))),
			Time: t.UTC(),
		})
	}
	return punches
}

// ListFilter bounds a single employee's history by inclusive calendar dates.
type ListFilter struct {
	From *string `json:"from,omitempty"` // YYYY-MM-DD
	To   *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *ListFilter) Validate() error {
	_, _, err := parseRange(f.From, f.To)
	return err
}

// Range returns the parsed bounds. Call Validate first.
func (f *ListFilter) Range() (from, to *time.Time) {
	from, to, _ = parseRange(f.From, f.To)
	return from, to
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	From       *string `json:"from,omitempty"` // YYYY-MM-DD
	To         *string `json:"to,omitempty"`   // YYYY-MM-DD

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil && !Status(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: Present, Absent, Leave, Half Day, Holiday",
		})
	}

	if _, _, err := parseRange(f.From, f.To); err != nil {
		if rangeErrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, rangeErrs...)
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToQuery converts a validated filter into a repository query. When paginate
// is false every match is returned.
func (f *AttendanceFilter) ToQuery(paginate bool) Query {
	q := Query{EmployeeID: f.EmployeeID}
	if f.Status != nil {
		s := Status(*f.Status)
		q.Status = &s
	}
	q.From, q.To, _ = parseRange(f.From, f.To)
	if paginate {
		q.Offset = (f.Page - 1) * f.Limit
		q.Limit = f.Limit
	}
	return q
}

func parseRange(fromStr, toStr *string) (from, to *time.Time, err error) {
	var errs validator.ValidationErrors

	if fromStr != nil && !validator.IsEmpty(*fromStr) {
		if d, valid := validator.ParseDay(*fromStr); valid {
			from = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}

	if toStr != nil && !validator.IsEmpty(*toStr) {
		if d, valid := validator.ParseDay(*toStr); valid {
			to = &d
		} else {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}

	if from != nil && to != nil && to.Before(*from) {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return nil, nil, errs
	}
	return from, to, nil
}

type PunchResponse struct {
	Type string `json:"type"`
	Time string `json:"time"`
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	EmployeeEmail *string         `json:"employee_email,omitempty"`
	Date          string          `json:"date"`
	Punches       []PunchResponse `json:"punches"`
	TotalHours    float64         `json:"total_hours"`
	BreakMinutes  int             `json:"break_minutes"`
	Status        string          `json:"status"`
	Note          *string         `json:"note,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ToResponse converts an Attendance entity to AttendanceResponse
func ToResponse(att Attendance) AttendanceResponse {
	punches := make([]PunchResponse, 0, len(att.Punches))
	for _, p := range att.Punches {
		punches = append(punches, PunchResponse{
			Type: string(p.Type),
			Time: p.Time.UTC().Format(time.RFC3339),
		})
	}

	return AttendanceResponse{
		ID:            att.ID,
		EmployeeID:    att.EmployeeID,
		EmployeeName:  att.EmployeeName,
		EmployeeEmail: att.EmployeeEmail,
		Date:          att.Date.Format(DateLayout),
		Punches:       punches,
		TotalHours:    att.TotalHours,
		BreakMinutes:  att.BreakMinutes,
		Status:        string(att.Status),
		Note:          att.Note,
		CreatedAt:     att.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     att.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
