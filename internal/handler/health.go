package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness plus the state of optional backends.  DB
// is nil under the memory store and Redis is nil when it was unreachable at
// startup.
type HealthHandler struct {
    DB    *sql.DB
    Redis *redis.Client
}

// Health answers GET /healthz.  It returns 503 only when the database is
// configured but not answering; a missing Redis degrades features without
// making the service unhealthy.
func (h *HealthHandler) Health(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status := http.StatusOK
    body := echo.Map{"status": "ok", "store": "memory", "redis": "disabled"}
    if h.DB != nil {
        body["store"] = "mysql"
        if err := h.DB.PingContext(ctx); err != nil {
            status = http.StatusServiceUnavailable
            body["status"] = "degraded"
            body["store"] = "unreachable"
        }
    }
    if h.Redis != nil {
        body["redis"] = "ok"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            body["redis"] = "unreachable"
        }
    }
    return c.JSON(status, body)
}
