// Package credential issues and verifies idenflow's bearer credentials.
//
// A credential is a signed, time-bounded JWT (HS256) asserting a user id and
// email. Verification is stateless: validity is re-derived from the signature
// and expiry on every call, so no server-side session table exists and
// revocation before expiry is out of scope.
package credential
