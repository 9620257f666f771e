package config

import (
    "testing"
    "time"
)

func TestLoadRateLimitConfigShorthands(t *testing.T) {
    t.Setenv("RATE_LIMIT_BURST", "5")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    cfg := LoadRateLimitConfig()
    if cfg.Capacity != 5 {
        t.Errorf("Capacity = %d, want 5", cfg.Capacity)
    }
    if cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
        t.Errorf("refill = %d every %v, want 1 every 2s", cfg.RefillTokens, cfg.RefillInterval)
    }
    // TTL is raised to at least five refill intervals.
    if cfg.TTL != 10*time.Second {
        t.Errorf("TTL = %v, want 10s", cfg.TTL)
    }
    if cfg.KeyStrategy != "user_event" {
        t.Errorf("KeyStrategy = %q", cfg.KeyStrategy)
    }
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head ,")
    t.Setenv("CACHE_ENABLED", "off")

    cfg := LoadCacheConfig()
    if cfg.Enabled {
        t.Error("Enabled = true, want false")
    }
    if len(cfg.Methods) != 2 || !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
        t.Errorf("Methods = %v", cfg.Methods)
    }
    if cfg.Prefix != "events-cache" || cfg.TTL != 30*time.Second {
        t.Errorf("defaults = %q %v", cfg.Prefix, cfg.TTL)
    }
}

func TestLoadMemoryStoreSkipsDatabase(t *testing.T) {
    t.Setenv("APP_ENV", "test")
    t.Setenv("APP_PORT", "8080")
    t.Setenv("STORE_DRIVER", "Memory")
    t.Setenv("JWT_SECRET", "s")
    t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
    t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
    t.Setenv("BCRYPT_COST", "4")

    cfg := Load()
    if cfg.StoreDriver != StoreMemory {
        t.Fatalf("StoreDriver = %q", cfg.StoreDriver)
    }
    if cfg.DBHost != "" {
        t.Errorf("DBHost = %q, want empty", cfg.DBHost)
    }
    if cfg.ActivityLogDir != "logs" || !cfg.ActivityEnabled {
        t.Errorf("activity = %v %q", cfg.ActivityEnabled, cfg.ActivityLogDir)
    }
}

func TestLoadRedisConfig(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6380")
    if got := LoadRedisConfig().Addr; got != "cache:6380" {
        t.Errorf("Addr = %q", got)
    }
    t.Setenv("REDIS_HOST", "r")
    t.Setenv("REDIS_PORT", "1")
    t.Setenv("REDIS_TLS", "1")
    rc := LoadRedisConfig()
    if rc.Addr != "r:1" || !rc.TLS {
        t.Errorf("got %+v", rc)
    }
}
