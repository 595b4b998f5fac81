package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-attend/internal/middleware"
	"go-attend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestIdempotency_NoKeyPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := redismock.NewClientMock()

	r := gin.New()
	r.POST("/checkin", middleware.Idempotency(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkin", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplayReturnsCachedResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := redismock.NewClientMock()

	cacheKey := "idemp:/checkin:user-1:abc"
	mock.ExpectGet(cacheKey).SetVal(`{"success":true,"message":"Checked in successfully"}`)

	r := gin.New()
	r.POST("/checkin",
		func(c *gin.Context) { c.Set("user_id_validated", "user-1") },
		middleware.Idempotency(db),
		func(c *gin.Context) {
			t.Fatal("handler must not run on a cached replay")
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkin", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Checked in successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightRequestConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := redismock.NewClientMock()

	cacheKey := "idemp:/checkin:user-1:abc"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	r := gin.New()
	r.POST("/checkin",
		func(c *gin.Context) { c.Set("user_id_validated", "user-1") },
		middleware.Idempotency(db),
		func(c *gin.Context) {
			t.Fatal("handler must not run while the first attempt holds the lock")
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkin", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PROCESSING")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_FirstRequestAcquiresLock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock := redismock.NewClientMock()

	cacheKey := "idemp:/checkin:user-1:abc"
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	r := gin.New()
	r.POST("/checkin",
		func(c *gin.Context) { c.Set("user_id_validated", "user-1") },
		middleware.Idempotency(db),
		func(c *gin.Context) {
			assert.Equal(t, cacheKey, c.GetString("idempotency_cache_key"))
			assert.Equal(t, cacheKey+":lock", c.GetString("idempotency_lock_key"))
			c.JSON(http.StatusOK, response.Envelope{Success: true})
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkin", strings.NewReader(`{}`))
	req.Header.Set("Idempotency-Key", "abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
