package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusLate    = "LATE"
)

// AttendanceRecord is the derived daily summary: exactly one row per
// (employee, calendar day), enforced by uq_attendance_employee_date. The raw
// event log lives in check_in_outs; this row only reflects it.
type AttendanceRecord struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID  `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	Date       time.Time  `gorm:"column:date;type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:PRESENT"`
	CheckIn    *time.Time `gorm:"column:check_in;type:timestamptz"`
	CheckOut   *time.Time `gorm:"column:check_out;type:timestamptz"`
	Notes      *string    `gorm:"column:notes;type:text"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// ValidStatus reports whether s is a known attendance status. The enumeration
// is extensible; unknown values are rejected at the boundary, not here.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	default:
		return false
	}
}
