package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password, inserts the user and returns it.
func (r *UserRepo) Create(ctx context.Context, fullName, email string, phone *string, password string, cost int) (*model.User, error) {
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return nil, err
    }
    u := &model.User{
        ID:           uuid.NewString(),
        FullName:     strings.TrimSpace(fullName),
        Email:        strings.ToLower(strings.TrimSpace(email)),
        Phone:        phone,
        PasswordHash: hash,
        CreatedAt:    time.Now().UTC(),
    }
    _, err = r.DB.ExecContext(ctx,
        "INSERT INTO users (id, full_name, email, phone, password_hash, created_at) VALUES (?,?,?,?,?,?)",
        u.ID, u.FullName, u.Email, u.Phone, u.PasswordHash, u.CreatedAt)
    if err != nil {
        if isDuplicate(err) {
            return nil, ErrEmailExists
        }
        return nil, err
    }
    return u, nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    return r.getOne(ctx, "SELECT id,full_name,email,phone,password_hash,created_at FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
    return r.getOne(ctx, "SELECT id,full_name,email,phone,password_hash,created_at FROM users WHERE id=? LIMIT 1", id)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg string) (*model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx, q, arg).
        Scan(&u.ID, &u.FullName, &u.Email, &u.Phone, &u.PasswordHash, &u.CreatedAt)
    if err != nil {
        return nil, notFound(err)
    }
    return &u, nil
}
