package qrcode

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	qrcodeerrors "go-attend/internal/qrcode/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolver turns a scanned token into a validated QRCode. Clients send either
// the storage id or the logical id embedded in the printed payload, so
// resolution is two-phase: exact id lookup first, then a scan of active codes
// matching the payload. The scan is linear over the narrowed candidate set.
type Resolver struct {
	repo   Repository
	logger *zap.Logger
}

func NewResolver(repo Repository, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("qrcode.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("qrcode.resolver")
	}
	return &Resolver{repo: repo, logger: l}
}

type payload struct {
	ID string `json:"id"`
}

// Resolve looks the token up and validates that the code is usable right now.
func (r *Resolver) Resolve(ctx context.Context, token string, now time.Time) (*QRCode, error) {
	qr, err := r.repo.FindByID(ctx, token)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		qr = nil
	}

	if qr == nil {
		qr, err = r.resolveByPayload(ctx, token)
		if err != nil {
			return nil, err
		}
	}

	if qr == nil {
		r.logger.Warn("qr code not found", zap.String("token", token))
		return nil, qrcodeerrors.ErrQRCodeNotFound
	}

	if qr.Status != StatusActive {
		return nil, qrcodeerrors.ErrQRCodeNotActive
	}

	if qr.ExpiryDate != nil && now.After(*qr.ExpiryDate) {
		return nil, qrcodeerrors.ErrQRCodeExpired
	}

	return qr, nil
}

func (r *Resolver) resolveByPayload(ctx context.Context, token string) (*QRCode, error) {
	candidates, err := r.repo.FindActiveByPayload(ctx, token)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		var p payload
		if err := json.Unmarshal([]byte(candidates[i].QRData), &p); err != nil {
			r.logger.Debug("skipping qr code with undecodable payload",
				zap.String("qr_code_id", candidates[i].ID.String()),
				zap.Error(err),
			)
			continue
		}
		if p.ID == token {
			return &candidates[i], nil
		}
	}

	return nil, nil
}
