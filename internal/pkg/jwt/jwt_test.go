package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)

	token, err := svc.GenerateToken("reader@example.com", "unsubscribe")
	require.NoError(t, err)

	subject, err := svc.ValidateToken(token, "unsubscribe")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", subject)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).GenerateToken("x@example.com", "unsubscribe")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ValidateToken(token, "unsubscribe")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("secret", -time.Minute)
	token, err := svc.GenerateToken("x@example.com", "unsubscribe")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token, "unsubscribe")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongPurpose(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken("x@example.com", "other")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token, "unsubscribe")
	assert.ErrorIs(t, err, ErrWrongPurpose)
}
