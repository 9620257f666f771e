package database

import (
    "context"
    "database/sql"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/event-rides/internal/config"
)

// Open connects to MySQL using the DB_* settings in cfg and verifies the
// connection.
func Open(cfg config.Config) (*sql.DB, error) {
    mc := mysql.NewConfig()
    mc.User = cfg.DBUser
    mc.Passwd = cfg.DBPass
    mc.Net = "tcp"
    mc.Addr = cfg.DBHost + ":" + cfg.DBPort
    mc.DBName = cfg.DBName
    // DATETIME columns scan into time.Time, always in UTC.
    mc.ParseTime = true
    mc.Loc = time.UTC
    mc.Params = map[string]string{"charset": "utf8mb4"}

    db, err := sql.Open("mysql", mc.FormatDSN())
    if err != nil {
        return nil, err
    }

    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
