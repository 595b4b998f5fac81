package qrcode

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// QRCode is a physical check-in point: a printed code bound to a location and
// an optional validity window. QRData is the JSON payload encoded into the
// printed code; it carries a client-facing logical id that may differ from
// the storage id.
type QRCode struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	QRData     string     `gorm:"column:qr_data;type:text;not null"`
	Location   string     `gorm:"column:location;type:varchar(255);not null"`
	Status     string     `gorm:"column:status;type:varchar(20);not null;default:ACTIVE"`
	ExpiryDate *time.Time `gorm:"column:expiry_date;type:timestamptz"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (QRCode) TableName() string {
	return "qr_codes"
}
