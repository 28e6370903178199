package search

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"idenflow/internal/identity/ids"
)

// MemoryStore is the dev fallback when no database is configured.
//
// Records are kept in insertion order per owner; each write is a single
// append under the mutex, so concurrent creates never interleave within a
// record.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]Record
	byOwner map[string][]string // owner id -> record ids in insertion order
}

// NewMemoryStore constructs an in-memory record Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]Record),
		byOwner: make(map[string][]string),
	}
}

// Create persists a new record with a fresh id and creation timestamp.
func (s *MemoryStore) Create(ctx context.Context, in CreateInput) (Record, error) {
	const op = "search.Create"

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing owner id"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	id, err := ids.NewULID(now)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:            id,
		OwnerID:       in.OwnerID,
		CreatedAt:     now,
		SourceProfile: in.SourceProfile,
		Matches:       normalizeMatches(in.Matches),
		SearchTerm:    in.SearchTerm,
		TotalMatches:  in.TotalMatches,
	}

	s.mu.Lock()
	s.byID[id] = rec
	s.byOwner[in.OwnerID] = append(s.byOwner[in.OwnerID], id)
	s.mu.Unlock()

	return rec, nil
}

// GetByID returns the record iff it exists AND belongs to ownerID.
// A record of another owner is reported as ErrNotFound, indistinguishable
// from a truly missing one.
func (s *MemoryStore) GetByID(ctx context.Context, ownerID, recordID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[recordID]
	if !ok || rec.OwnerID != ownerID {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

// ListByOwner returns the owner's records, most recent first.
// Creation time descending; ties resolve by insertion order (later insert
// first). Limit is clamped to DefaultListLimit.
func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit = clampLimit(limit)

	s.mu.Lock()
	order := s.byOwner[ownerID]
	all := make([]Record, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		all = append(all, s.byID[order[i]])
	}
	s.mu.Unlock()

	// Creation time descending. The slice starts in reverse insertion order,
	// so the stable sort leaves equal timestamps newest-insert first, matching
	// the Postgres store's ORDER BY created_at DESC, id DESC.
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
