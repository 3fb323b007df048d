package handler

import (
	"context"
	"net/http"
	"time"

	"malutoficina/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// DB and Redis gate the status code; integrations are reported only.
func Health(db *gorm.DB, rdb *redis.Client, faturamentoCB *infra.CircuitBreaker, wa *infra.WhatsAppClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb == nil || rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if faturamentoCB != nil {
			body["faturamento"] = faturamentoCB.State().String()
		}
		if wa != nil {
			body["whatsapp"] = wa.Estado().Estado
		}
		c.JSON(status, body)
	}
}
