package checkin

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *CheckInOut) error
	FindLastCheckInSince(ctx context.Context, employeeID string, since time.Time) (*CheckInOut, error)
	FindRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]CheckInOut, error)
	FindByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]CheckInOut, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, e *CheckInOut) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// FindLastCheckInSince returns the newest CHECK_IN at or after since, the
// precondition for accepting a check-out.
func (r *repository) FindLastCheckInSince(ctx context.Context, employeeID string, since time.Time) (*CheckInOut, error) {
	var e CheckInOut
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("type = ?", TypeCheckIn).
		Where("timestamp >= ?", since).
		Order("timestamp DESC").
		First(&e).Error
	return &e, err
}

func (r *repository) FindRecentByEmployee(ctx context.Context, employeeID string, limit int) ([]CheckInOut, error) {
	var evs []CheckInOut
	err := r.db.WithContext(ctx).
		Preload("QRCode").
		Where("employee_id = ?", employeeID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&evs).Error
	return evs, err
}

func (r *repository) FindByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]CheckInOut, error) {
	var evs []CheckInOut
	err := r.db.WithContext(ctx).
		Preload("QRCode").
		Where("employee_id = ?", employeeID).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp ASC").
		Find(&evs).Error
	return evs, err
}
