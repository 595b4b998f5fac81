package qrcodeerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrQRCodeNotFound = apperror.New(
		apperror.CodeNotFound,
		"QR code not found",
		http.StatusNotFound,
	)

	ErrQRCodeNotActive = apperror.New(
		apperror.CodeInvalidState,
		"QR code is not active",
		http.StatusBadRequest,
	)

	ErrQRCodeExpired = apperror.New(
		apperror.CodeExpired,
		"QR code has expired",
		http.StatusBadRequest,
	)
)
