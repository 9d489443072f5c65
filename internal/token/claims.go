package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Role enumerates administrative roles carried in a token.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

const (
	claimSubject   = "sub"
	claimEmail     = "email"
	claimRole      = "role"
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
)

var reservedClaims = []string{claimSubject, claimEmail, claimRole, claimIssuedAt, claimExpiresAt}

// Claims is the payload of a token. Extra holds application-defined fields
// and is flattened into the same JSON object as the named claims.
type Claims struct {
	Subject   string
	Email     string
	Role      Role
	IssuedAt  int64
	ExpiresAt int64
	Extra     map[string]any
}

// MarshalJSON emits a flat object with keys in sorted order, so equal claims
// always serialize to identical bytes.
func (c Claims) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(c.Extra)+len(reservedClaims))
	for k, v := range c.Extra {
		fields[k] = v
	}
	if c.Subject != "" {
		fields[claimSubject] = c.Subject
	}
	if c.Email != "" {
		fields[claimEmail] = c.Email
	}
	if c.Role != "" {
		fields[claimRole] = string(c.Role)
	}
	if c.IssuedAt != 0 {
		fields[claimIssuedAt] = c.IssuedAt
	}
	if c.ExpiresAt != 0 {
		fields[claimExpiresAt] = c.ExpiresAt
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads a flat claims object. Numbers in Extra decode as json.Number.
func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	if fields == nil {
		return errors.New("claims must be a JSON object")
	}

	var (
		out Claims
		err error
	)
	if out.Subject, err = stringClaim(fields, claimSubject); err != nil {
		return err
	}
	if out.Email, err = stringClaim(fields, claimEmail); err != nil {
		return err
	}
	role, err := stringClaim(fields, claimRole)
	if err != nil {
		return err
	}
	out.Role = Role(role)
	if out.IssuedAt, err = intClaim(fields, claimIssuedAt); err != nil {
		return err
	}
	if out.ExpiresAt, err = intClaim(fields, claimExpiresAt); err != nil {
		return err
	}

	for _, name := range reservedClaims {
		delete(fields, name)
	}
	if len(fields) > 0 {
		out.Extra = fields
	}
	*c = out
	return nil
}

// IssuedTime returns iat as a time, or the zero time when unset.
func (c Claims) IssuedTime() time.Time {
	if c.IssuedAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.IssuedAt, 0)
}

// ExpiresTime returns exp as a time, or the zero time when unset.
func (c Claims) ExpiresTime() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.ExpiresAt, 0)
}

// The methods below satisfy jwt.Claims.

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(c.ExpiresTime()), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(c.IssuedTime()), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (c Claims) GetIssuer() (string, error) { return "", nil }

func (c Claims) GetSubject() (string, error) { return c.Subject, nil }

func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

func stringClaim(fields map[string]any, name string) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("claim %q must be a string", name)
	}
	return s, nil
}

func intClaim(fields map[string]any, name string) (int64, error) {
	raw, ok := fields[name]
	if !ok {
		return 0, nil
	}
	num, ok := raw.(json.Number)
	if !ok {
		return 0, fmt.Errorf("claim %q must be a number", name)
	}
	v, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("claim %q must be whole seconds: %w", name, err)
	}
	return v, nil
}
