// Package api is idenflow's HTTP boundary.
//
// Every authenticated request moves through the same short pipeline: extract
// the bearer credential, verify it, run the owner-scoped store operation, map
// the result to a response. On a successful record creation the response is
// committed to the caller first and the realtime publish happens after, as a
// secondary effect that can never fail the request.
package api
