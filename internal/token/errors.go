package token

import (
	"errors"
	"fmt"
	"time"
)

// Failure kinds reported by Issue and Verify. Exactly one of ErrConfiguration,
// ErrMalformedToken, ErrExpired or ErrInvalidSignature matches a Verify error.
var (
	ErrConfiguration    = errors.New("token: signing secret not configured")
	ErrMalformedToken   = errors.New("token: malformed")
	ErrExpired          = errors.New("token: expired")
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrMalformedEncoding is returned by Decode for text outside the unpadded base64url alphabet.
	ErrMalformedEncoding = errors.New("token: malformed encoding")
	// ErrInvalidInput rejects issue-time arguments (ttl, reserved claims).
	ErrInvalidInput = errors.New("token: invalid input")
)

// ExpiredError carries the expiration instant of a rejected token.
type ExpiredError struct {
	ExpiresAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token: expired at %s", e.ExpiresAt.UTC().Format(time.RFC3339))
}

// Is reports ErrExpired equivalence so callers can use errors.Is.
func (e *ExpiredError) Is(target error) bool {
	return target == ErrExpired
}

func malformed(cause error) error {
	return fmt.Errorf("%w: %v", ErrMalformedToken, cause)
}
