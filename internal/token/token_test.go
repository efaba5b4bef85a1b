package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(Config{
		Secret:       "test-secret",
		AccessExpiry: 30 * time.Minute,
	})
}

func TestGenerateAuthTokens_RoundTrip(t *testing.T) {
	svc := newTestService()

	tokens, err := svc.GenerateAuthTokens("user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access.Token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), tokens.Access.Expires, 5*time.Second)

	subject, err := svc.Verify(tokens.Access.Token, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
}

func TestVerify_WrongSecret(t *testing.T) {
	tokens, err := newTestService().GenerateAuthTokens("user@example.com")
	require.NoError(t, err)

	other := NewService(Config{Secret: "other-secret", AccessExpiry: time.Hour})
	_, err = other.Verify(tokens.Access.Token, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	svc := newTestService()

	signed, err := svc.Generate("user@example.com", TypeAccess, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = svc.Verify(signed, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_WrongType(t *testing.T) {
	svc := newTestService()

	signed, err := svc.Generate("user@example.com", TypeRefresh, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = svc.Verify(signed, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := newTestService().Verify("not-a-token", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
