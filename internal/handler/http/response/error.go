package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Invalid status", nil)
	case errors.Is(err, attendance.ErrInvalidPunchType):
		BadRequest(w, "Invalid punch type", nil)
	case errors.Is(err, attendance.ErrDoublePunch):
		Conflict(w, "Double punch not allowed")
	case errors.Is(err, attendance.ErrCompletedDay):
		Conflict(w, "Cannot change to Present for a completed day")
	case errors.Is(err, attendance.ErrStaleRecord):
		Conflict(w, "Attendance was modified concurrently, please retry")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrForbidden):
		Forbidden(w, "Insufficient permissions")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)

	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// Store failures
	case errors.Is(err, database.ErrPersistence):
		slog.Error("Persistence failure", "error", err)
		InternalServerError(w, "Storage is temporarily unavailable")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
