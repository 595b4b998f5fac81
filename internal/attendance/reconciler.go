package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-attend/internal/employee"
	"go-attend/internal/events"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/shared/workday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileSummary reports one reconciliation run.
type ReconcileSummary struct {
	TargetDate time.Time
	Created    int
	Skipped    int
	Failed     int
}

// Reconciler guarantees every active employee ends the day with an attendance
// outcome: any employee with no record for the target date gets an ABSENT
// default. Existing records are never touched, which is what makes re-running
// the job for the same date a no-op.
type Reconciler struct {
	employees employee.Repository
	repo      Repository
	outbox    kafka.OutboxRepository
	loc       *time.Location
	logger    *zap.Logger
}

func NewReconciler(
	employees employee.Repository,
	repo Repository,
	outbox kafka.OutboxRepository,
	loc *time.Location,
	logger ...*zap.Logger,
) *Reconciler {
	l := zap.L().Named("attendance.reconciler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.reconciler")
	}
	return &Reconciler{
		employees: employees,
		repo:      repo,
		outbox:    outbox,
		loc:       loc,
		logger:    l,
	}
}

// MarkAbsentForToday runs the reconciliation for the current attendance day.
func (r *Reconciler) MarkAbsentForToday(ctx context.Context) (ReconcileSummary, error) {
	return r.MarkAbsentForDate(ctx, time.Now())
}

// MarkAbsentForDate ensures an AttendanceRecord exists for every active
// employee on the day containing at (in the deployment timezone). Failures
// are isolated per employee: one bad write never aborts the batch, the
// affected employee is picked up by the next run or by their own check-in.
func (r *Reconciler) MarkAbsentForDate(ctx context.Context, at time.Time) (ReconcileSummary, error) {
	day := workday.StartOfDay(at, r.loc)
	summary := ReconcileSummary{TargetDate: day}

	emps, err := r.employees.FindAllActive(ctx)
	if err != nil {
		r.logger.Error("list active employees failed", zap.Error(err))
		return summary, err
	}

	r.logger.Info("attendance reconciliation started",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("active_employees", len(emps)),
	)

	for i := range emps {
		emp := &emps[i]

		_, err := r.repo.FindByEmployeeAndDate(ctx, emp.ID.String(), day)
		if err == nil {
			// Day already accounted for, whatever the status.
			summary.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			summary.Failed++
			r.logger.Error("lookup attendance record failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			continue
		}

		rec := &AttendanceRecord{
			ID:         uuid.New(),
			EmployeeID: emp.ID,
			Date:       day,
			Status:     StatusAbsent,
		}

		if err := r.repo.Create(ctx, rec); err != nil {
			if IsDuplicateRecord(err) {
				// A check-in slipped in between lookup and insert; that path
				// owns the record now.
				summary.Skipped++
				continue
			}
			summary.Failed++
			r.logger.Error("create absent record failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			continue
		}

		summary.Created++
		r.queueAbsentMarked(ctx, rec)
	}

	r.logger.Info("attendance reconciliation completed",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	return summary, nil
}

// queueAbsentMarked stages a notification event. Best effort: the absent
// record itself is already committed.
func (r *Reconciler) queueAbsentMarked(ctx context.Context, rec *AttendanceRecord) {
	if r.outbox == nil {
		return
	}

	event := events.AbsentMarkedEvent{
		EventType:  "attendance_absent_marked",
		RecordID:   rec.ID.String(),
		EmployeeID: rec.EmployeeID.String(),
		Date:       rec.Date.Format("2006-01-02"),
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		r.logger.Error("marshal absent_marked event failed", zap.Error(err))
		return
	}

	if err := r.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "attendance_record",
		AggregateID:   rec.ID.String(),
		EventType:     event.EventType,
		Topic:         events.AbsentMarkedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		r.logger.Error("queue absent_marked event failed",
			zap.String("record_id", rec.ID.String()),
			zap.Error(err),
		)
	}
}
