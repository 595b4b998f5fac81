package app

import (
	"database/sql"
	"os"
	"time"

	"go-attend/internal/attendance"
	"go-attend/internal/checkin"
	"go-attend/internal/employee"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/qrcode"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	loc *time.Location,
) (*attendance.Job, error) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	qrcodeRepo := qrcode.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	checkinRepo := checkin.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	qrResolver := qrcode.NewResolver(qrcodeRepo)
	checkinService := checkin.NewServiceWithOutbox(
		db,
		checkinRepo,
		attendanceRepo,
		employeeRepo,
		qrResolver,
		outboxRepo,
		loc,
		rdb,
	)

	// --- Handlers ---
	checkinHandler := checkin.NewHandlerWithRedis(checkinService, rdb)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		checkin.RegisterRoutes(api, checkinHandler, rdb)
	}

	// --- Scheduled Jobs ---
	reconciler := attendance.NewReconciler(employeeRepo, attendanceRepo, outboxRepo, loc)
	return attendance.NewJob(reconciler, os.Getenv("ATTENDANCE_CRON"), loc)
}
