package attendance

import "errors"

// Attendance domain errors
var (
	// Conflicts: the operation is not applied and the record is unchanged
	ErrDoublePunch  = errors.New("double punch not allowed")
	ErrCompletedDay = errors.New("cannot change to Present for a completed day")
	ErrStaleRecord  = errors.New("attendance record was modified concurrently")

	// Validation
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidPunchType = errors.New("invalid punch type")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrForbidden          = errors.New("insufficient permissions for this attendance operation")
)
