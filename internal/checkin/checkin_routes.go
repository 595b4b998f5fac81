package checkin

import (
	"go-attend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	checkins := r.Group("/checkin")
	checkins.Use(
		middleware.AuthMiddleware(),
		middleware.ExtractUserID(),
		middleware.RateLimitByUser(5, 10),
	)
	{
		checkins.POST("", middleware.Idempotency(rdb), h.Create)
		checkins.POST("/request", h.SubmitCorrection)
		checkins.GET("/today", h.GetToday)
		checkins.GET("/monthly-stats", h.GetMonthlyStats)
		checkins.GET("/records", h.GetMonthlyRecords)
		checkins.GET("", h.GetHistory)
	}
}
