package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go-attend/internal/attendance"
	"go-attend/internal/employee"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/shared/connection"
	"go-attend/internal/shared/workday"

	"go.uber.org/zap"
)

// RunReconciler executes one reconciliation pass and exits. RECONCILE_DATE
// (YYYY-MM-DD, optional) targets a past day for backfill; default is today.
func RunReconciler() error {
	logger := zap.L().Named("app.reconciler")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	loc, err := workday.LoadLocation()
	if err != nil {
		return err
	}

	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	reconciler := attendance.NewReconciler(employeeRepo, attendanceRepo, outboxRepo, loc, logger)

	target := time.Now()
	if raw := os.Getenv("RECONCILE_DATE"); raw != "" {
		target, err = time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return fmt.Errorf("invalid RECONCILE_DATE %q: %w", raw, err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := reconciler.MarkAbsentForDate(ctx, target)
	if err != nil {
		return err
	}

	logger.Info("reconciliation completed",
		zap.String("target_date", summary.TargetDate.Format("2006-01-02")),
		zap.Int("created", summary.Created),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)

	return nil
}
