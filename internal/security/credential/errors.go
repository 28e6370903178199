package credential

import "errors"

// Public, stable errors for callers.
var (
	// ErrInvalidCredential covers malformed tokens, bad signatures and expiry.
	// Callers get a single indistinguishable failure to avoid token probing.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrSecretTooShort is returned at construction when the signing secret
	// is below the HS256 minimum we enforce.
	ErrSecretTooShort = errors.New("credential secret too short")
)
