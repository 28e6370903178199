package identity

import (
	"context"
	"time"
)

// User is idenflow's canonical security principal.
// PasswordHash is the PHC-encoded argon2id digest; it must never appear in
// API responses or logs.
type User struct {
	ID           string
	Name         string
	Email        string
	EmailNorm    string
	PasswordHash string

	CreatedAt time.Time
}

// CreateUserInput describes a signup request.
type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
	Now          time.Time
}

// Store is the identity persistence boundary.
//
// GetUserByEmail looks up by the normalized form. Both lookups return
// ErrNotFound for missing users.
type Store interface {
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}
