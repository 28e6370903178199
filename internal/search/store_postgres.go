package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"idenflow/internal/identity/ids"
)

// PostgresStore implements record persistence over PostgreSQL.
//
// Source profiles and match lists are stored as JSONB: the server never
// queries inside them, so a relational breakdown would buy nothing. Each
// create is a single-row INSERT, which gives the per-record atomicity the
// store promises without multi-row transactions.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgSchemaRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the record store (default "idenflow").
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("search: empty schema")
		}
		if !pgSchemaRe.MatchString(schema) {
			return fmt.Errorf("search: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
// The pool is owned by the caller and is never closed here.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "idenflow",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("search: nil pool")
	}
	return st, nil
}

// Create persists a new record with a fresh id and creation timestamp.
// Storage failures surface as ErrUnavailable.
func (s *PostgresStore) Create(ctx context.Context, in CreateInput) (Record, error) {
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

	matches := normalizeMatches(in.Matches)

	profileJSON, err := json.Marshal(in.SourceProfile)
	if err != nil {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "source profile not serializable"}
	}
	matchesJSON, err := json.Marshal(matches)
	if err != nil {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "matches not serializable"}
	}

	records := s.ident("search_records")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+records+` (
		     id, owner_id, created_at, source_profile, matches, search_term, total_matches
		   ) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, in.OwnerID, now, profileJSON, matchesJSON, in.SearchTerm, in.TotalMatches,
	)
	if err != nil {
		return Record{}, OpError{Op: op, Kind: ErrUnavailable, Msg: err.Error()}
	}

	return Record{
		ID:            id,
		OwnerID:       in.OwnerID,
		CreatedAt:     now,
		SourceProfile: in.SourceProfile,
		Matches:       matches,
		SearchTerm:    in.SearchTerm,
		TotalMatches:  in.TotalMatches,
	}, nil
}

// GetByID returns the record iff it exists AND belongs to ownerID.
// The owner check is part of the WHERE clause, so "missing" and "not yours"
// are the same ErrNotFound by construction.
func (s *PostgresStore) GetByID(ctx context.Context, ownerID, recordID string) (Record, error) {
	const op = "search.GetByID"

	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(recordID) == "" {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing owner or record id"}
	}

	records := s.ident("search_records")

	row := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, created_at, source_profile, matches, search_term, total_matches
		   FROM `+records+`
		  WHERE id = $1 AND owner_id = $2`,
		recordID, ownerID,
	)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, OpError{Op: op, Kind: ErrUnavailable, Msg: err.Error()}
	}
	return rec, nil
}

// ListByOwner returns the owner's records, newest first, capped at
// DefaultListLimit. Ties on created_at resolve by id descending; ULIDs are
// time-ordered, so that matches insertion order within a tie.
func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Record, error) {
	const op = "search.ListByOwner"

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "missing owner id"}
	}

	limit = clampLimit(limit)
	records := s.ident("search_records")

	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, created_at, source_profile, matches, search_term, total_matches
		   FROM `+records+`
		  WHERE owner_id = $1
		  ORDER BY created_at DESC, id DESC
		  LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, OpError{Op: op, Kind: ErrUnavailable, Msg: err.Error()}
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, OpError{Op: op, Kind: ErrUnavailable, Msg: err.Error()}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, OpError{Op: op, Kind: ErrUnavailable, Msg: err.Error()}
	}
	return out, nil
}

// ---- helpers ----

func (s *PostgresStore) ident(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec         Record
		profileJSON []byte
		matchesJSON []byte
	)

	if err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.CreatedAt,
		&profileJSON,
		&matchesJSON,
		&rec.SearchTerm,
		&rec.TotalMatches,
	); err != nil {
		return Record{}, err
	}

	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &rec.SourceProfile); err != nil {
			return Record{}, err
		}
	}
	rec.Matches = []Match{}
	if len(matchesJSON) > 0 {
		if err := json.Unmarshal(matchesJSON, &rec.Matches); err != nil {
			return Record{}, err
		}
	}
	return rec, nil
}
