package app

import (
	"os"

	"go-attend/internal/attendance"
	"go-attend/internal/middleware"
	"go-attend/internal/shared/connection"
	"go-attend/internal/shared/workday"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp wires infrastructure, routes and the midnight reconciliation job.
// The returned job is constructed but not started; the caller owns its
// lifecycle so shutdown can stop the schedule before the listener drains.
func BuildApp(router *gin.Engine) (*attendance.Job, error) {
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
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return nil, err
	}

	loc, err := workday.LoadLocation()
	if err != nil {
		return nil, err
	}
	zap.L().Info("attendance timezone loaded", zap.String("timezone", loc.String()))

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return registerModules(router, sqlDB, gormDB, rdb, loc)
}
