package search

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestCreate_AssignsIDAndTimestamp(t *testing.T) {
	st := NewMemoryStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rec, err := st.Create(context.Background(), CreateInput{
		OwnerID:      "owner-1",
		SearchTerm:   "jdoe",
		TotalMatches: 2,
		Matches: []Match{
			{Username: "jdoe1", Confidence: 0.9, Status: StatusConfirmed},
			{Username: "jdoe2", Confidence: 0.4, Status: "bogus"},
		},
		Now: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if !rec.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt = %v, want %v", rec.CreatedAt, now)
	}
	if rec.OwnerID != "owner-1" {
		t.Fatalf("OwnerID = %q", rec.OwnerID)
	}
	if rec.Matches[0].Status != StatusConfirmed {
		t.Fatalf("valid status rewritten to %q", rec.Matches[0].Status)
	}
	if rec.Matches[1].Status != StatusPending {
		t.Fatalf("invalid status not defaulted, got %q", rec.Matches[1].Status)
	}
}

func TestCreate_MissingOwner(t *testing.T) {
	st := NewMemoryStore()

	_, err := st.Create(context.Background(), CreateInput{SearchTerm: "x"})
	if !IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestGetByID_OwnerScoped(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	rec, err := st.Create(ctx, CreateInput{OwnerID: "alice", SearchTerm: "q"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := st.GetByID(ctx, "alice", rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ID != rec.ID {
		t.Fatalf("got id %q, want %q", got.ID, rec.ID)
	}

	// Another owner must see the same not-found error as a missing id.
	if _, err := st.GetByID(ctx, "bob", rec.ID); !IsNotFound(err) {
		t.Fatalf("cross-owner read: expected not found, got %v", err)
	}
	if _, err := st.GetByID(ctx, "alice", "no-such-id"); !IsNotFound(err) {
		t.Fatalf("missing id: expected not found, got %v", err)
	}
}

func TestListByOwner_OrderAndIsolation(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := st.Create(ctx, CreateInput{
			OwnerID:    "alice",
			SearchTerm: fmt.Sprintf("q%d", i),
			Now:        base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	if _, err := st.Create(ctx, CreateInput{OwnerID: "bob", SearchTerm: "other", Now: base}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := st.ListByOwner(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Most recent first.
	for i, want := range []string{ids[2], ids[1], ids[0]} {
		if got[i].ID != want {
			t.Fatalf("got[%d].ID = %q, want %q", i, got[i].ID, want)
		}
		if got[i].OwnerID != "alice" {
			t.Fatalf("got[%d] belongs to %q", i, got[i].OwnerID)
		}
	}
}

func TestListByOwner_TiesNewestInsertFirst(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first, err := st.Create(ctx, CreateInput{OwnerID: "alice", SearchTerm: "a", Now: now})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := st.Create(ctx, CreateInput{OwnerID: "alice", SearchTerm: "b", Now: now})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := st.ListByOwner(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("tie order wrong: %v / %v vs want %v / %v", got[0].ID, got[1].ID, second.ID, first.ID)
	}
}

func TestListByOwner_Limit(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < DefaultListLimit+5; i++ {
		_, err := st.Create(ctx, CreateInput{
			OwnerID:    "alice",
			SearchTerm: "q",
			Now:        base.Add(time.Duration(i) * time.Second),
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := st.ListByOwner(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != DefaultListLimit {
		t.Fatalf("len = %d, want %d", len(got), DefaultListLimit)
	}

	got, err = st.ListByOwner(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func TestListByOwner_EmptyOwner(t *testing.T) {
	st := NewMemoryStore()

	got, err := st.ListByOwner(context.Background(), "nobody", 0)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}
