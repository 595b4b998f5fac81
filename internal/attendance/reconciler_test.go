package attendance

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-attend/internal/employee"
	"go-attend/internal/messaging/kafka"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeEmployeeRepo struct {
	findAllActiveFn func(ctx context.Context) ([]employee.Employee, error)
}

func (f *fakeEmployeeRepo) FindByUserID(ctx context.Context, userID string) (*employee.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepo) FindAllActive(ctx context.Context) ([]employee.Employee, error) {
	return f.findAllActiveFn(ctx)
}

type fakeRepo struct {
	createFn     func(ctx context.Context, rec *AttendanceRecord) error
	findByDateFn func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, rec *AttendanceRecord) error {
	return f.createFn(ctx, rec)
}
func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	return f.findByDateFn(ctx, employeeID, date)
}
func (f *fakeRepo) FindByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	return nil, nil
}
func (f *fakeRepo) FindRecentByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time, limit int) ([]AttendanceRecord, error) {
	return nil, nil
}
func (f *fakeRepo) Update(ctx context.Context, rec *AttendanceRecord) error { return nil }

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func activeEmployees(n int) []employee.Employee {
	emps := make([]employee.Employee, n)
	for i := range emps {
		emps[i] = employee.Employee{ID: uuid.New(), Status: employee.StatusActive}
	}
	return emps
}

func TestReconciler_MarksMissingEmployeesAbsent(t *testing.T) {
	emps := activeEmployees(3)
	withRecord := emps[0].ID

	employees := &fakeEmployeeRepo{
		findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) { return emps, nil },
	}

	var created []AttendanceRecord
	repo := &fakeRepo{
		findByDateFn: func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
			if employeeID == withRecord.String() {
				return &AttendanceRecord{ID: uuid.New(), Status: StatusPresent}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, rec *AttendanceRecord) error {
			created = append(created, *rec)
			return nil
		},
	}

	outbox := &fakeOutbox{}
	r := NewReconciler(employees, repo, outbox, time.UTC)

	summary, err := r.MarkAbsentForToday(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)

	for _, rec := range created {
		assert.Equal(t, StatusAbsent, rec.Status)
		assert.Nil(t, rec.CheckIn)
		assert.Nil(t, rec.CheckOut)
	}

	assert.Len(t, outbox.events, 2)
	assert.Equal(t, "attendance_absent_marked", outbox.events[0].EventType)
}

func TestReconciler_SecondRunIsNoOp(t *testing.T) {
	emps := activeEmployees(2)

	employees := &fakeEmployeeRepo{
		findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) { return emps, nil },
	}

	store := map[string]*AttendanceRecord{}
	repo := &fakeRepo{
		findByDateFn: func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
			if rec, ok := store[employeeID]; ok {
				return rec, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, rec *AttendanceRecord) error {
			store[rec.EmployeeID.String()] = rec
			return nil
		},
	}

	r := NewReconciler(employees, repo, nil, time.UTC)
	ctx := context.Background()

	first, err := r.MarkAbsentForToday(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := r.MarkAbsentForToday(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Skipped)
}

func TestReconciler_DuplicateInsertCountsAsSkipped(t *testing.T) {
	emps := activeEmployees(1)

	employees := &fakeEmployeeRepo{
		findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) { return emps, nil },
	}

	repo := &fakeRepo{
		findByDateFn: func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, rec *AttendanceRecord) error {
			// A check-in landed between lookup and insert.
			return errors.New(`ERROR: duplicate key value violates unique constraint "uq_attendance_employee_date" (SQLSTATE 23505)`)
		},
	}

	r := NewReconciler(employees, repo, nil, time.UTC)

	summary, err := r.MarkAbsentForToday(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
}

func TestReconciler_FailureDoesNotAbortBatch(t *testing.T) {
	emps := activeEmployees(3)
	broken := emps[1].ID

	employees := &fakeEmployeeRepo{
		findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) { return emps, nil },
	}

	repo := &fakeRepo{
		findByDateFn: func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, rec *AttendanceRecord) error {
			if rec.EmployeeID == broken {
				return errors.New("connection reset by peer")
			}
			return nil
		},
	}

	r := NewReconciler(employees, repo, nil, time.UTC)

	summary, err := r.MarkAbsentForToday(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Failed)
}

func TestReconciler_TargetDateIsMidnight(t *testing.T) {
	employees := &fakeEmployeeRepo{
		findAllActiveFn: func(ctx context.Context) ([]employee.Employee, error) { return nil, nil },
	}
	repo := &fakeRepo{}

	r := NewReconciler(employees, repo, nil, time.UTC)

	at := time.Date(2026, 8, 15, 23, 45, 12, 0, time.UTC)
	summary, err := r.MarkAbsentForDate(context.Background(), at)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), summary.TargetDate)
}
