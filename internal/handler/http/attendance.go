package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/excel"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	RequestLeave(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetEmployeeAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	ManualCorrect(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// actorFromRequest writes a 401 and returns false when no identity is present
func actorFromRequest(w http.ResponseWriter, r *http.Request) (employee.Identity, bool) {
	actor, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return employee.Identity{}, false
	}
	return actor, true
}

// Punch implements AttendanceHandler.
func (h *attendanceHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req attendance.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.Punch(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch recorded", result)
}

// RequestLeave implements AttendanceHandler.
func (h *attendanceHandlerImpl) RequestLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req attendance.LeaveRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.RequestLeave(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave recorded", result)
}

// SetStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req attendance.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.SetStatus(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Status updated", result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ListForEmployee(r.Context(), actor, "", listFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeeAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	employeeID := chi.URLParam(r, "employeeID")
	if employeeID == "" {
		response.BadRequest(w, "Employee ID is required", nil)
		return
	}

	result, err := h.attendanceService.ListForEmployee(r.Context(), actor, employeeID, listFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ListAll(r.Context(), actor, attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	records, err := h.attendanceService.Export(r.Context(), actor, attendanceFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, excel.ContentType, excel.FileName(time.Now()))
	if err := excel.WriteAttendance(w, records); err != nil {
		// headers are already sent
		slog.Error("Failed to write attendance export", "error", err, "rows", len(records))
	}
}

// ManualCorrect implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualCorrect(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req attendance.ManualCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.ManualCorrect(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance corrected", result)
}

// decodeOptionalBody accepts an empty body as the zero request
func decodeOptionalBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func listFilterFromQuery(r *http.Request) attendance.ListFilter {
	var filter attendance.ListFilter
	if from := r.URL.Query().Get("from"); from != "" {
		filter.From = &from
	}
	if to := r.URL.Query().Get("to"); to != "" {
		filter.To = &to
	}
	return filter
}

func attendanceFilterFromQuery(r *http.Request) attendance.AttendanceFilter {
	query := r.URL.Query()
	base := listFilterFromQuery(r)
	filter := attendance.AttendanceFilter{From: base.From, To: base.To}

	if employeeID := query.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}

	// Invalid numbers fall through to the defaults; negatives are reported by Validate
	if p := query.Get("page"); p != "" {
		if page, err := strconv.Atoi(p); err == nil {
			filter.Page = page
		}
	}

	if l := query.Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil {
			filter.Limit = limit
		}
	}

	return filter
}
