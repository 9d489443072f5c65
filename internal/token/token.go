// Package token issues and verifies compact HMAC-signed credentials for
// administrative sessions. A credential is three base64url segments joined by
// dots: header, claims and an HMAC-SHA256 signature over the first two.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const (
	// Algorithm names the signing algorithm written to every header.
	Algorithm = "HS256"
	delimiter = "."
	segments  = 3
)

var signingMethod = jwt.SigningMethodHS256

// Issue signs claims with secret. iat is set to the current time and exp to
// iat+ttl; both must be unset on input.
func Issue(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	return issueAt(claims, secret, ttl, time.Now())
}

// Verify checks credential against secret and returns its claims.
//
// The signature is checked before expiration, so a forged token is reported
// as ErrInvalidSignature whether or not its exp has passed.
func Verify(credential string, secret []byte) (*Claims, error) {
	return verifyAt(credential, secret, time.Now())
}

func issueAt(claims Claims, secret []byte, ttl time.Duration, now time.Time) (string, error) {
	if len(secret) == 0 {
		return "", ErrConfiguration
	}
	if ttl < time.Second || ttl%time.Second != 0 {
		return "", fmt.Errorf("%w: ttl must be a positive whole number of seconds, got %s", ErrInvalidInput, ttl)
	}
	if claims.IssuedAt != 0 || claims.ExpiresAt != 0 {
		return "", fmt.Errorf("%w: iat and exp are set by the issuer", ErrInvalidInput)
	}
	for _, name := range reservedClaims {
		if _, ok := claims.Extra[name]; ok {
			return "", fmt.Errorf("%w: extra claim %q shadows a named claim", ErrInvalidInput, name)
		}
	}

	claims.IssuedAt = now.Unix()
	claims.ExpiresAt = claims.IssuedAt + int64(ttl/time.Second)

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

func verifyAt(credential string, secret []byte, now time.Time) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrConfiguration
	}

	parts := strings.Split(credential, delimiter)
	if len(parts) != segments {
		return nil, malformed(fmt.Errorf("expected %d segments, got %d", segments, len(parts)))
	}
	for i, part := range parts {
		if idx := indexForeign(part); idx >= 0 {
			return nil, malformed(fmt.Errorf("segment %d: unexpected character at offset %d", i, idx))
		}
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(credential, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}); err != nil {
		return nil, classify(err, claims)
	}
	return claims, nil
}

// classify folds golang-jwt errors into the package taxonomy.
func classify(err error, claims *Claims) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return malformed(err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return malformed(err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return &ExpiredError{ExpiresAt: claims.ExpiresTime()}
	default:
		return malformed(err)
	}
}

// Kind names the failure class of err for logs and metrics: "configuration",
// "malformed", "expired", "invalid_signature", or "" when err is nil or foreign.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	}
	return ""
}
