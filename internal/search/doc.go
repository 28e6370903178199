// Package search persists identity-search session records.
//
// Every record is owned by exactly one user, fixed at creation. All reads are
// owner-scoped: a record belonging to another user is indistinguishable from
// a nonexistent one, which keeps "not found" and "not yours" a single
// predicate instead of two leaky checks.
package search
