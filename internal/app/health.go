package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const healthTimeout = 2 * time.Second

type healthStatus struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// Healthz pings the database and redis. A nil redis client reports
// "disabled" and does not fail the check.
func Healthz(in *Infra) gin.HandlerFunc {
	return healthz(in.DB, in.Redis)
}

func healthz(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := healthStatus{Database: "ok", Redis: "disabled"}
		healthy := true
		if err := db.PingContext(ctx); err != nil {
			status.Database = err.Error()
			healthy = false
		}
		if rdb != nil {
			status.Redis = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				status.Redis = err.Error()
				healthy = false
			}
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeInternalError, "Service unavailable", status)
			return
		}
		response.Success(c, http.StatusOK, status, nil)
	}
}
