package search

import (
	"context"
	"time"
)

// Match lifecycle statuses.
// Status is mutable by shape (per-entry review is a future capability),
// but no operation in this package rewrites it after creation.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusFlagged   = "flagged"
)

// DefaultListLimit caps ListByOwner results.
const DefaultListLimit = 100

// SourceProfile is the profile a search started from. The server treats it
// as opaque display data; only the client interprets it.
type SourceProfile struct {
	Username   string     `json:"username,omitempty"`
	Platform   string     `json:"platform,omitempty"`
	ProfilePic string     `json:"profilePic,omitempty"`
	Bio        string     `json:"bio,omitempty"`
	Location   string     `json:"location,omitempty"`
	JoinDate   *time.Time `json:"joinDate,omitempty"`
	Posts      int        `json:"posts,omitempty"`
	Followers  int        `json:"followers,omitempty"`
}

// MatchPoints flags which profile attributes contributed to a match.
type MatchPoints struct {
	Username       bool `json:"username"`
	Bio            bool `json:"bio"`
	Location       bool `json:"location"`
	JoinDate       bool `json:"joinDate"`
	PostingPattern bool `json:"postingPattern"`
}

// Match is one candidate-match entry inside a record.
type Match struct {
	ID            string       `json:"id,omitempty"`
	Username      string       `json:"username,omitempty"`
	Platform      string       `json:"platform,omitempty"`
	ProfilePic    string       `json:"profilePic,omitempty"`
	Bio           string       `json:"bio,omitempty"`
	Location      string       `json:"location,omitempty"`
	JoinDate      *time.Time   `json:"joinDate,omitempty"`
	Posts         int          `json:"posts,omitempty"`
	Followers     int          `json:"followers,omitempty"`
	Confidence    float64      `json:"confidence"`
	MatchPoints   *MatchPoints `json:"matchPoints,omitempty"`
	Status        string       `json:"status"`
	ConfirmedDate *time.Time   `json:"confirmedDate,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

// Record is one persisted identity-search session.
// OwnerID is fixed at creation and never reassigned.
type Record struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"ownerId"`
	CreatedAt     time.Time     `json:"createdAt"`
	SourceProfile SourceProfile `json:"sourceProfile"`
	Matches       []Match       `json:"matches"`
	SearchTerm    string        `json:"searchTerm"`
	TotalMatches  int           `json:"totalMatches"`
}

// CreateInput describes a record creation request.
// ID and CreatedAt are always assigned by the store; caller-supplied values
// do not exist at this layer.
type CreateInput struct {
	OwnerID       string
	SourceProfile SourceProfile
	Matches       []Match
	SearchTerm    string
	TotalMatches  int
	Now           time.Time
}

// Store is the record persistence boundary.
//
// Ownership contract: GetByID succeeds iff ownerID matches the stored
// record's owner; ListByOwner never returns records of another owner.
type Store interface {
	Create(ctx context.Context, in CreateInput) (Record, error)
	GetByID(ctx context.Context, ownerID, recordID string) (Record, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Record, error)
}

// normalizeMatches applies default lifecycle status to incoming entries.
func normalizeMatches(in []Match) []Match {
	if len(in) == 0 {
		return []Match{}
	}
	out := make([]Match, len(in))
	copy(out, in)
	for i := range out {
		switch out[i].Status {
		case StatusPending, StatusConfirmed, StatusFlagged:
		default:
			out[i].Status = StatusPending
		}
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
