package qrcode

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*QRCode, error)
	FindActiveByPayload(ctx context.Context, token string) ([]QRCode, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*QRCode, error) {
	var qr QRCode
	err := r.db.WithContext(ctx).First(&qr, "id = ?", id).Error
	return &qr, err
}

// FindActiveByPayload returns active codes whose raw payload contains the
// token. Callers still have to decode each payload and match the embedded id
// exactly; this query only narrows the candidate set.
func (r *repository) FindActiveByPayload(ctx context.Context, token string) ([]QRCode, error) {
	var qrs []QRCode
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusActive).
		Where("qr_data LIKE ?", "%"+token+"%").
		Find(&qrs).Error
	return qrs, err
}
