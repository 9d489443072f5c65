package token

import (
	"encoding/json"
	"fmt"

	jwt "github.com/golang-jwt/jwt/v5"
)

// segmentParser decodes with the same codec the verifier uses, in strict mode.
var segmentParser = jwt.NewParser(jwt.WithStrictDecoding())

// Encode returns the unpadded base64url form of b.
func Encode(b []byte) string {
	return new(jwt.Token).EncodeSegment(b)
}

// Decode reverses Encode. Padding, characters outside [A-Za-z0-9_-], an
// impossible length or non-zero trailing bits yield ErrMalformedEncoding.
func Decode(s string) ([]byte, error) {
	if i := indexForeign(s); i >= 0 {
		return nil, fmt.Errorf("%w: unexpected character at offset %d", ErrMalformedEncoding, i)
	}
	b, err := segmentParser.DecodeSegment(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return b, nil
}

// MarshalClaims returns the canonical serialization of c.
func MarshalClaims(c Claims) ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalClaims parses bytes produced by MarshalClaims.
func UnmarshalClaims(b []byte) (Claims, error) {
	var c Claims
	if err := json.Unmarshal(b, &c); err != nil {
		return Claims{}, err
	}
	return c, nil
}

func isAlphabet(r byte) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r == '-' || r == '_':
		return true
	}
	return false
}

func indexForeign(s string) int {
	for i := 0; i < len(s); i++ {
		if !isAlphabet(s[i]) {
			return i
		}
	}
	return -1
}
