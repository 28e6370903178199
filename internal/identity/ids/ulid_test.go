package ids

import (
	"testing"
	"time"
)

func TestNewULID(t *testing.T) {
	t.Parallel()

	id, err := NewULID(time.Now().UTC())
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("len = %d, want 26", len(id))
	}

	// Zero time falls back to now instead of producing a fixed epoch.
	id2, err := NewULID(time.Time{})
	if err != nil {
		t.Fatalf("NewULID zero: %v", err)
	}
	if len(id2) != 26 {
		t.Fatalf("len = %d, want 26", len(id2))
	}
}

func TestNewULID_TimeOrdered(t *testing.T) {
	t.Parallel()

	early, err := NewULID(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	late, err := NewULID(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewULID: %v", err)
	}
	if !(early < late) {
		t.Fatalf("expected %q < %q", early, late)
	}
}
