package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-rides/internal/config"
    "github.com/iliyamo/event-rides/internal/handler"
    "github.com/iliyamo/event-rides/internal/middleware"
)

// EventDeps carries what the event routes need besides the handler.  Redis
// may be nil, which turns off both caching and rate limiting.
type EventDeps struct {
    JWTSecret string
    Redis     *redis.Client
    Cache     config.CacheConfig
    RateLimit config.RateLimitConfig
}

// RegisterEvents registers the event, participation and ride-matching
// endpoints under /v1.
//
// Public reads of events are served through the Redis response cache and
// every successful write under /v1/events purges it.  Stats, matches and
// suggestions are never cached.  Join, leave and self-service updates are
// additionally rate limited per user and event.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, d EventDeps) {
    cache := middleware.NewRedisCache(d.Cache, d.Redis)
    purge := middleware.PurgeCacheOnWrite(d.Cache, d.Redis)
    limit := middleware.NewTokenBucket(d.RateLimit, d.Redis)

    // ---- Public ----
    pub := e.Group("/v1")
    pub.GET("/events", h.ListEvents, cache)
    pub.GET("/events/:id", h.GetEvent, cache)
    pub.GET("/events/:id/stats", h.Stats)
    pub.GET("/events/:id/rides/matches", h.ListMatches)
    pub.POST("/events/:id/rides/suggestions", h.Suggestions)

    // ---- Authenticated ----
    g := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))

    ev := g.Group("/events", purge)
    ev.POST("", h.CreateEvent)
    ev.POST("/:id/publish", h.PublishEvent)
    ev.POST("/:id/cancel", h.CancelEvent)

    // Participation
    ev.POST("/:id/join", h.Join, limit)
    ev.POST("/:id/leave", h.Leave, limit)
    ev.PATCH("/:id/participants/me", h.UpdateMyParticipation, limit)

    // Organizer
    ev.GET("/:id/participants", h.ListParticipants)
    ev.PATCH("/:id/participants/:pid/approve", h.ApproveParticipant)
    ev.PATCH("/:id/participants/:pid/reject", h.RejectParticipant)

    // Rides
    ev.POST("/:id/rides/matches", h.CreateMatch)
    g.PATCH("/rides/matches/:id", h.UpdateMatch)
}
