package memstore

import (
    "context"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/event-rides/internal/model"
    "github.com/iliyamo/event-rides/internal/repository"
    "github.com/iliyamo/event-rides/internal/utils"
)

// Users implements repository.UserStore.
type Users struct {
    mu   sync.RWMutex
    byID map[string]model.User
}

func NewUsers() *Users { return &Users{byID: map[string]model.User{}} }

func (u *Users) Create(_ context.Context, fullName, email string, phone *string, password string, cost int) (*model.User, error) {
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return nil, err
    }
    email = strings.ToLower(strings.TrimSpace(email))
    u.mu.Lock()
    defer u.mu.Unlock()
    for _, existing := range u.byID {
        if existing.Email == email {
            return nil, repository.ErrEmailExists
        }
    }
    user := model.User{
        ID:           uuid.NewString(),
        FullName:     strings.TrimSpace(fullName),
        Email:        email,
        Phone:        phone,
        PasswordHash: hash,
        CreatedAt:    time.Now().UTC(),
    }
    u.byID[user.ID] = user
    return &user, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
    email = strings.ToLower(strings.TrimSpace(email))
    u.mu.RLock()
    defer u.mu.RUnlock()
    for _, user := range u.byID {
        if user.Email == email {
            return &user, nil
        }
    }
    return nil, repository.ErrNotFound
}

func (u *Users) GetByID(_ context.Context, id string) (*model.User, error) {
    u.mu.RLock()
    defer u.mu.RUnlock()
    user, ok := u.byID[id]
    if !ok {
        return nil, repository.ErrNotFound
    }
    return &user, nil
}

// Tokens implements repository.TokenStore.
type Tokens struct {
    mu     sync.Mutex
    byHash map[string]model.RefreshToken
}

func NewTokens() *Tokens { return &Tokens{byHash: map[string]model.RefreshToken{}} }

func (t *Tokens) StoreRefresh(_ context.Context, userID, tokenHash string, exp time.Time) error {
    t.mu.Lock()
    defer t.mu.Unlock()
    t.byHash[tokenHash] = model.RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: exp}
    return nil
}

func (t *Tokens) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
    t.mu.Lock()
    defer t.mu.Unlock()
    tok, ok := t.byHash[tokenHash]
    if !ok || tok.RevokedAt != nil || time.Now().UTC().After(tok.ExpiresAt) {
        return "", repository.ErrNotFound
    }
    return tok.UserID, nil
}

func (t *Tokens) RevokeByHash(_ context.Context, tokenHash string) error {
    t.mu.Lock()
    defer t.mu.Unlock()
    if tok, ok := t.byHash[tokenHash]; ok && tok.RevokedAt == nil {
        now := time.Now().UTC()
        tok.RevokedAt = &now
        t.byHash[tokenHash] = tok
    }
    return nil
}

func (t *Tokens) RevokeAllForUser(_ context.Context, userID string) error {
    t.mu.Lock()
    defer t.mu.Unlock()
    now := time.Now().UTC()
    for h, tok := range t.byHash {
        if tok.UserID == userID && tok.RevokedAt == nil {
            tok.RevokedAt = &now
            t.byHash[h] = tok
        }
    }
    return nil
}
