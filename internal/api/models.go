package api

import (
	"time"

	"idenflow/internal/search"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse never carries the credential digest.
type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

// createRecordRequest mirrors the creation body. ID and OwnerID are accepted
// so clients sending them are not rejected, but the server always overwrites
// both.
type createRecordRequest struct {
	ID            string               `json:"id"`
	OwnerID       string               `json:"ownerId"`
	SourceProfile search.SourceProfile `json:"sourceProfile"`
	Matches       []search.Match       `json:"matches"`
	SearchTerm    string               `json:"searchTerm"`
	TotalMatches  int                  `json:"totalMatches"`
}

type createRecordResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type recordResponse struct {
	Success bool          `json:"success"`
	Data    search.Record `json:"data"`
}

type recordListResponse struct {
	Success bool            `json:"success"`
	Data    []search.Record `json:"data"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}
