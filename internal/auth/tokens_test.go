package auth

import (
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/persona-keeper/internal/errs"
)

func makeJWT(t *testing.T, sub string, key []byte, method jwt.SigningMethod, iat time.Time, ttl time.Duration) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(iat),
		NotBefore: jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(iat.Add(ttl)),
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestTokens_IssueResolve(t *testing.T) {
	t.Parallel()

	tk := NewTokens([]byte("secret"), time.Minute)
	id := uuid.Must(uuid.NewV4())

	out, err := tk.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, out.AccessToken)
	require.True(t, out.ExpiresAt.After(time.Now()))

	got, err := tk.Resolve(out.AccessToken)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestTokens_ResolveRejects(t *testing.T) {
	t.Parallel()

	key := []byte("secret")
	tk := NewTokens(key, time.Minute)
	sub := uuid.Must(uuid.NewV4()).String()
	now := time.Now().UTC()

	cases := map[string]string{
		"empty":       "",
		"garbage":     "this-is-not-a-jwt",
		"expired":     makeJWT(t, sub, key, jwt.SigningMethodHS256, now.Add(-2*time.Hour), time.Hour),
		"wrong alg":   makeJWT(t, sub, key, jwt.SigningMethodHS384, now, time.Hour),
		"wrong key":   makeJWT(t, sub, []byte("other"), jwt.SigningMethodHS256, now, time.Hour),
		"bad subject": makeJWT(t, "not-a-uuid", key, jwt.SigningMethodHS256, now, time.Hour),
		"nil subject": makeJWT(t, uuid.Nil.String(), key, jwt.SigningMethodHS256, now, time.Hour),
		"future nbf":  makeJWT(t, sub, key, jwt.SigningMethodHS256, now.Add(10*time.Minute), time.Hour),
	}
	for name, tok := range cases {
		_, err := tk.Resolve(tok)
		require.ErrorIs(t, err, errs.ErrUnauthenticated, name)
	}
}

func TestTokens_LeewayAcceptsSlightSkew(t *testing.T) {
	t.Parallel()

	key := []byte("k")
	tk := NewTokens(key, time.Minute)
	sub := uuid.Must(uuid.NewV4())
	tok := makeJWT(t, sub.String(), key, jwt.SigningMethodHS256, time.Now().UTC().Add(10*time.Second), time.Hour)

	got, err := tk.Resolve(tok)
	require.NoError(t, err)
	require.Equal(t, sub, got)
}
