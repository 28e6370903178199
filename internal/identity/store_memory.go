package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"idenflow/internal/identity/ids"
)

// MemoryStore is the dev fallback when no database is configured.
// All operations are serialized under one mutex; scale is not a concern here.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]User
	byEmail map[string]string // email_norm -> user id
}

// NewMemoryStore constructs an in-memory identity Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

// CreateUser registers a new user, enforcing case-insensitive email uniqueness.
func (s *MemoryStore) CreateUser(ctx context.Context, in CreateUserInput) (User, error) {
	const op = "identity.CreateUser"

	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" || in.PasswordHash == "" {
		return User{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "name, email and password digest are required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	norm := NormalizeEmail(email)

	id, err := ids.NewULID(now)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[norm]; exists {
		return User{}, ConflictError{Op: op, Field: "email"}
	}

	u := User{
		ID:           id,
		Name:         name,
		Email:        email,
		EmailNorm:    norm,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
	}
	s.byID[id] = u
	s.byEmail[norm] = id

	return u, nil
}

// GetUserByID returns the user or ErrNotFound.
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// GetUserByEmail returns the user matching the normalized email or ErrNotFound.
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return s.byID[id], nil
}
