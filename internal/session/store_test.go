package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	token, err := store.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, token, "unknown session has no token")

	require.NoError(t, store.SetToken(ctx, "sess-1", "tok-a"))
	token, err = store.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)

	require.NoError(t, store.Clear(ctx, "sess-1"))
	token, err = store.Token(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, token, "logout clears the stored token")
}

func TestTokenContextRoundTrip(t *testing.T) {
	ctx := WithToken(context.Background(), "tok-b")

	assert.Equal(t, "tok-b", TokenFromContext(ctx))
	assert.Equal(t, "tok-b", ContextSource{}.Token(ctx))
	assert.Empty(t, TokenFromContext(context.Background()))
}

func TestPeekReadsClaimsWithoutVerification(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("some-backend-secret"))
	require.NoError(t, err)

	claims, err := Peek(signed)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestPeekRejectsGarbage(t *testing.T) {
	_, err := Peek("not-a-token")
	assert.Error(t, err)
}
