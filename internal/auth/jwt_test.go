package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("alice", secret)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	username, err := ValidateToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestGenerateToken_EmptyUsername(t *testing.T) {
	t.Parallel()

	_, err := GenerateToken("", []byte("secret"))
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("bob", []byte("right-secret"))
	require.NoError(t, err)

	_, err = ValidateToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	claims := jwt.MapClaims{
		"sub": "carol",
		"iat": 1000,
		"exp": 2000, // long past
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ValidateToken(tok, secret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateToken_Garbage(t *testing.T) {
	t.Parallel()

	_, err := ValidateToken("not-a-token", []byte("secret"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}
