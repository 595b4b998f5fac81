package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const StatusActive = "ACTIVE"

// Employee is a read model over the employee directory. This service never
// creates or mutates employees; onboarding lives elsewhere.
type Employee struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	EmployeeNumber string         `gorm:"column:employee_number;type:varchar(50);not null"`
	FullName       string         `gorm:"column:full_name;type:varchar(255);not null"`
	Status         string         `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	DepartmentID   *uuid.UUID     `gorm:"column:department_id;type:uuid"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Department     *Department    `gorm:"foreignKey:DepartmentID;references:ID"`
}

func (Employee) TableName() string {
	return "employees"
}

type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"column:name"`
}

func (Department) TableName() string {
	return "departments"
}

// DepartmentName is the location fallback of last resort for check-ins.
func (e *Employee) DepartmentName() string {
	if e.Department != nil {
		return e.Department.Name
	}
	return ""
}
