package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	inputs := [][]byte{
		{},
		{0},
		{0xff},
		{0xfb, 0xff},
		[]byte("hello, world"),
		[]byte(`{"alg":"HS256"}`),
	}
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	inputs = append(inputs, all)

	for _, in := range inputs {
		enc := Encode(in)
		assert.NotContains(t, enc, "=")
		assert.NotContains(t, enc, ".")
		assert.NotContains(t, enc, "+")
		assert.NotContains(t, enc, "/")

		out, err := Decode(enc)
		require.NoError(t, err)
		assert.Equal(t, len(in), len(out))
		if len(in) > 0 {
			assert.Equal(t, in, out)
		}
	}
}

func TestDecodeRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"padding":           "YQ==",
		"standard alphabet": "a+b/",
		"delimiter":         "ab.c",
		"newline":           "YW\nJj",
		"space":             "YW Jj",
		"impossible length": "a",
		"trailing bits":     "YR",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(in)
			assert.ErrorIs(t, err, ErrMalformedEncoding)
		})
	}
}

func TestMarshalClaimsIsCanonical(t *testing.T) {
	t.Parallel()

	c := Claims{
		Subject:   "a1",
		Email:     "a@x.com",
		Role:      RoleSuperAdmin,
		IssuedAt:  10,
		ExpiresAt: 20,
		Extra:     map[string]any{"zeta": "z", "alpha": true, "mid": 3},
	}

	first, err := MarshalClaims(c)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := MarshalClaims(c)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t,
		`{"alpha":true,"email":"a@x.com","exp":20,"iat":10,"mid":3,"role":"super_admin","sub":"a1","zeta":"z"}`,
		string(first))
}

func TestUnmarshalClaims(t *testing.T) {
	t.Parallel()

	c, err := UnmarshalClaims([]byte(`{"sub":"a1","role":"admin","exp":20,"iat":10,"dept":"news","n":7}`))
	require.NoError(t, err)
	assert.Equal(t, "a1", c.Subject)
	assert.Equal(t, RoleAdmin, c.Role)
	assert.Equal(t, int64(10), c.IssuedAt)
	assert.Equal(t, int64(20), c.ExpiresAt)
	assert.Equal(t, "news", c.Extra["dept"])
	assert.EqualValues(t, "7", c.Extra["n"])

	_, err = UnmarshalClaims([]byte(`{"sub":1}`))
	assert.Error(t, err)
	_, err = UnmarshalClaims([]byte(`{"exp":"soon"}`))
	assert.Error(t, err)
	_, err = UnmarshalClaims([]byte(`{"exp":1.5}`))
	assert.Error(t, err)
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleSuperAdmin.Valid())
	assert.False(t, Role("editor").Valid())
	assert.False(t, Role("").Valid())
}
