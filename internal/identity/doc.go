// Package identity implements idenflow's user accounts.
//
// An identity is the root of ownership for search records: every record is
// owned by exactly one identity, fixed at creation. The package contains the
// User model, email normalization, and store implementations (in-memory and
// Postgres).
package identity
