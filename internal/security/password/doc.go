// Package password provides Argon2id password hashing with PHC-style
// encoded digests. It is the single capability the rest of the server uses:
// hash(password) -> digest and verify(password, digest) -> bool.
package password
