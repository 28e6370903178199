package identity

import (
	"context"
	"testing"
	"time"
)

func TestCreateUser_AndLookups(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	u, err := st.CreateUser(ctx, CreateUserInput{
		Name:         "Alice",
		Email:        "Alice@Example.com",
		PasswordHash: "$argon2id$fake",
		Now:          now,
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if u.Email != "Alice@Example.com" {
		t.Fatalf("Email = %q, want original casing preserved", u.Email)
	}
	if u.EmailNorm != "alice@example.com" {
		t.Fatalf("EmailNorm = %q", u.EmailNorm)
	}
	if !u.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v", u.CreatedAt)
	}

	byID, err := st.GetUserByID(ctx, u.ID)
	if err != nil || byID.ID != u.ID {
		t.Fatalf("GetUserByID: %v %+v", err, byID)
	}

	// Lookup is case-insensitive.
	byEmail, err := st.GetUserByEmail(ctx, "ALICE@example.COM")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("GetUserByEmail: %v %+v", err, byEmail)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	_, err := st.CreateUser(ctx, CreateUserInput{
		Name: "Alice", Email: "alice@example.com", PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	_, err = st.CreateUser(ctx, CreateUserInput{
		Name: "Mallory", Email: "ALICE@EXAMPLE.COM", PasswordHash: "h2",
	})
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateUser_Invalid(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	cases := []CreateUserInput{
		{Email: "a@example.com", PasswordHash: "h"},
		{Name: "A", PasswordHash: "h"},
		{Name: "A", Email: "a@example.com"},
		{Name: "  ", Email: "a@example.com", PasswordHash: "h"},
	}
	for i, in := range cases {
		if _, err := st.CreateUser(ctx, in); !IsInvalidInput(err) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestGetUser_NotFound(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	if _, err := st.GetUserByID(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("GetUserByID: expected not found, got %v", err)
	}
	if _, err := st.GetUserByEmail(ctx, "missing@example.com"); !IsNotFound(err) {
		t.Fatalf("GetUserByEmail: expected not found, got %v", err)
	}
}
