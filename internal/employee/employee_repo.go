package employee

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByUserID(ctx context.Context, userID string) (*Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByUserID(ctx context.Context, userID string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Preload("Department").
		First(&emp, "user_id = ?", userID).Error
	return &emp, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Order("employee_number ASC").
		Find(&emps).Error
	return emps, err
}
