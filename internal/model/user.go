package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Users have no global role; organizer rights are per event and
// follow from Event.CreatedBy.
//
// Fields:
//  ID           – UUID primary key.
//  FullName     – display name.
//  Email        – unique, lower-cased email address.
//  Phone        – optional contact number.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           string    // users.id
    FullName     string    // users.full_name
    Email        string    // users.email
    Phone        *string   // users.phone (nullable)
    PasswordHash string    // users.password_hash
    CreatedAt    time.Time // users.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is not stored; only its SHA-256 hash.
type RefreshToken struct {
    UserID    string     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
}
