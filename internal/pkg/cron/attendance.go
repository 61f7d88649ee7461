package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/attendance"
)

// MarkAbsentJobName identifies the absent marking job in logs and metrics
const MarkAbsentJobName = "mark_absent_employees"

// AbsenceMarker is the part of the attendance service the jobs need
type AbsenceMarker interface {
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}

type AttendanceJobs struct {
	marker AbsenceMarker
	now    func() time.Time
}

func NewAttendanceJobs(marker AbsenceMarker, now func() time.Time) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		marker: marker,
		now:    now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(MarkAbsentJobName, 1*time.Hour, j.MarkAbsentEmployees)
}

// MarkAbsentEmployees closes yesterday by marking employees without a record
// as Absent. Reruns are harmless since existing records are skipped.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := attendance.DateOf(j.now()).AddDate(0, 0, -1)

	marked, err := j.marker.MarkAbsent(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absent employees for %s: %w", yesterday.Format(attendance.DateLayout), err)
	}

	if marked > 0 {
		slog.Info("Cron: Marked employees absent", "date", yesterday.Format(attendance.DateLayout), "count", marked)
	}
	return nil
}
