package main // Entry point package

import (
    "context"
    "database/sql"
    "errors"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-rides/internal/config"
    "github.com/iliyamo/event-rides/internal/database"
    "github.com/iliyamo/event-rides/internal/handler"
    "github.com/iliyamo/event-rides/internal/queue"
    "github.com/iliyamo/event-rides/internal/repository"
    "github.com/iliyamo/event-rides/internal/repository/memstore"
    "github.com/iliyamo/event-rides/internal/router"
    "github.com/iliyamo/event-rides/internal/service"
)

// stores groups the three persistence contracts behind one driver choice.
type stores struct {
    db     *sql.DB // nil for the memory driver
    events repository.Store
    users  repository.UserStore
    tokens repository.TokenStore
}

func openStores(cfg config.Config) (stores, error) {
    if cfg.StoreDriver == config.StoreMemory {
        return stores{events: memstore.New(), users: memstore.NewUsers(), tokens: memstore.NewTokens()}, nil
    }
    db, err := database.Open(cfg)
    if err != nil {
        return stores{}, err
    }
    if cfg.AutoMigrate {
        ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
        defer cancel()
        if err := database.Migrate(ctx, db); err != nil {
            _ = db.Close()
            return stores{}, err
        }
    }
    return stores{
        db:     db,
        events: repository.NewSQLStore(db),
        users:  repository.NewUserRepo(db),
        tokens: repository.NewTokenRepo(db),
    }, nil
}

func main() {
    // A missing .env is fine; the environment may already be populated.
    if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
        log.Printf("load .env: %v", err)
    }
    cfg := config.Load()

    st, err := openStores(cfg)
    if err != nil {
        log.Fatalf("open store (%s): %v", cfg.StoreDriver, err)
    }
    if st.db != nil {
        defer st.db.Close()
    }

    var rdb *redis.Client
    if c, err := config.NewRedisClient(config.LoadRedisConfig()); err != nil {
        log.Printf("redis unavailable, caching and rate limiting disabled: %v", err)
    } else {
        rdb = c
        defer rdb.Close()
    }

    var pub service.ActivityPublisher
    if cfg.ActivityEnabled {
        pub = queue.NewPublisher()
        go func() {
            if err := queue.StartActivityConsumer(cfg.ActivityLogDir); err != nil {
                log.Printf("activity consumer stopped: %v", err)
            }
        }()
    }
    svc := service.New(st.events, pub)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.RequestID())

    router.RegisterRoutes(e, &handler.HealthHandler{DB: st.db, Redis: rdb})
    router.RegisterAuth(e, handler.NewAuthHandler(cfg, st.users, st.tokens), cfg.JWTSecret)
    router.RegisterEvents(e, handler.NewEventHandler(svc), router.EventDeps{
        JWTSecret: cfg.JWTSecret,
        Redis:     rdb,
        Cache:     config.LoadCacheConfig(),
        RateLimit: config.LoadRateLimitConfig(),
    })

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.StoreDriver)

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go func() {
        if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal(err)
        }
    }()
    <-ctx.Done()

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}
