package attendance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateRecord(t *testing.T) {
	assert.False(t, IsDuplicateRecord(nil))
	assert.False(t, IsDuplicateRecord(errors.New("connection refused")))

	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_employee_date"}
	assert.True(t, IsDuplicateRecord(pgErr))
	assert.True(t, IsDuplicateRecord(fmt.Errorf("create record: %w", pgErr)))

	otherConstraint := &pgconn.PgError{Code: "23505", ConstraintName: "uq_notification_event"}
	assert.False(t, IsDuplicateRecord(otherConstraint))

	textOnly := errors.New(`ERROR: duplicate key value violates unique constraint "uq_attendance_employee_date" (SQLSTATE 23505)`)
	assert.True(t, IsDuplicateRecord(textOnly))
}
