package apperror

import (
	"errors"
	"net/http"
)

// HTTPError is the boundary representation of an error: what the handler is
// allowed to send back to the caller.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP translates any error into an HTTPError. Known *AppError values keep
// their code and status; everything else collapses into a generic 500 so
// internals never leak to the caller (the original error stays server-side).
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
