package checkinerrors

import (
	"net/http"

	"go-attend/internal/shared/apperror"
)

var (
	ErrNoCheckInToday = apperror.New(
		apperror.CodeInvalidSequence,
		"No check-in found for today. Please check in first.",
		http.StatusBadRequest,
	)

	ErrInvalidEventType = apperror.New(
		apperror.CodeInvalidInput,
		"Type must be CHECK_IN or CHECK_OUT",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be PRESENT, ABSENT or LATE",
		http.StatusBadRequest,
	)

	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"Date must be in YYYY-MM-DD format",
		http.StatusBadRequest,
	)
)
