package attendance

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsDuplicateRecord reports whether err is a unique violation on the
// (employee_id, date) key. Both the reconciler and the check-in path treat it
// as "record already exists, switch to the update path" rather than a
// failure; it is the storage-level arbiter of the one-row-per-day invariant.
func IsDuplicateRecord(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_employee_date"
	}

	// gorm may surface the driver error as text only.
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_employee_date")
}
