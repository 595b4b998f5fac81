package checkin

import (
	"time"

	"go-attend/internal/qrcode"

	"github.com/google/uuid"
)

const (
	TypeCheckIn  = "CHECK_IN"
	TypeCheckOut = "CHECK_OUT"

	MethodQRCode = "QR_CODE"
	MethodManual = "MANUAL"
)

// CheckInOut is one raw clock event. Rows are append-only: corrections go
// through the attendance record, never back into this log.
type CheckInOut struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID      `gorm:"column:employee_id;type:uuid;not null;index"`
	QRCodeID   *uuid.UUID     `gorm:"column:qr_code_id;type:uuid"`
	Timestamp  time.Time      `gorm:"column:timestamp;type:timestamptz;not null;index"`
	Type       string         `gorm:"column:type;type:varchar(20);not null"`
	Location   string         `gorm:"column:location;type:varchar(255);not null"`
	Latitude   *float64       `gorm:"column:latitude"`
	Longitude  *float64       `gorm:"column:longitude"`
	Method     string         `gorm:"column:method;type:varchar(20);not null;default:MANUAL"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	QRCode     *qrcode.QRCode `gorm:"foreignKey:QRCodeID;references:ID"`
}

func (CheckInOut) TableName() string {
	return "check_in_outs"
}

func ValidEventType(t string) bool {
	return t == TypeCheckIn || t == TypeCheckOut
}
