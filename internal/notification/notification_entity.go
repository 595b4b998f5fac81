package notification

import (
	"time"

	"github.com/google/uuid"
)

const TypeAbsentMarked = "ATTENDANCE_ABSENT_MARKED"

// Notification is a queued message for the back-office UI. EventID carries
// the originating domain event id and is unique, so replayed Kafka messages
// collapse into one row.
type Notification struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID    string    `gorm:"column:event_id;type:varchar(100);not null;uniqueIndex:uq_notification_event"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index"`
	Type       string    `gorm:"column:type;type:varchar(50);not null"`
	Title      string    `gorm:"column:title;type:varchar(255);not null"`
	Message    string    `gorm:"column:message;type:text;not null"`
	ReadAt     *time.Time `gorm:"column:read_at;type:timestamptz"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
