package identity

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestUserID(t *testing.T) {
	assert.Equal(t, "auth0_0", UserID(""))
	assert.Equal(t, "auth0_61", UserID("a"))
	// "ab": 97*31 + 98 = 3105
	assert.Equal(t, "auth0_c21", UserID("ab"))
	assert.Equal(t, UserID("Ops@Acme.io"), UserID("ops@acme.io"))
	assert.NotEqual(t, UserID("ops@acme.io"), UserID("dev@acme.io"))
}

func TestUserID_NegativeHashIsAbsolute(t *testing.T) {
	id := UserID("a.very.long.address.that.overflows@example.com")
	assert.Regexp(t, `^auth0_[0-9a-f]+$`, id)
}

func TestStatic(t *testing.T) {
	email, err := Static{Address: " ops@acme.io "}.Email(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ops@acme.io", email)

	_, err = Static{}.Email(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestToken_Unverified(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	raw := signed(t, jwt.MapClaims{"email": "ada@acme.io", "exp": now.Add(time.Hour).Unix()}, []byte("issuer-secret"))

	email, err := Token{Raw: raw, Now: func() time.Time { return now }}.Email(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "ada@acme.io", email)
}

func TestToken_Expired(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	raw := signed(t, jwt.MapClaims{"email": "ada@acme.io", "exp": now.Add(-time.Minute).Unix()}, []byte("k"))

	_, err := Token{Raw: raw, Now: func() time.Time { return now }}.Email(context.Background())

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_VerifiedWithSecret(t *testing.T) {
	secret := []byte("shared")
	good := signed(t, jwt.MapClaims{"email": "ada@acme.io"}, secret)
	bad := signed(t, jwt.MapClaims{"email": "eve@acme.io"}, []byte("other"))

	email, err := Token{Raw: good, Secret: secret}.Email(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada@acme.io", email)

	_, err = Token{Raw: bad, Secret: secret}.Email(context.Background())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestToken_Errors(t *testing.T) {
	_, err := Token{}.Email(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = Token{Raw: "not.a.jwt"}.Email(context.Background())
	assert.ErrorIs(t, err, ErrInvalidToken)

	noEmail := signed(t, jwt.MapClaims{"sub": "123"}, []byte("k"))
	_, err = Token{Raw: noEmail}.Email(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestFirst(t *testing.T) {
	p := First{Token{}, Static{Address: "ops@acme.io"}}
	email, err := p.Email(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ops@acme.io", email)

	_, err = First{Static{}, Token{}}.Email(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)

	_, err = First{}.Email(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}
