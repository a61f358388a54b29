package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateValidateRoundTrip(t *testing.T) {
	m := NewTokenManager(Config{Secret: "test-secret", ExpiryHours: 1})

	userID := uuid.New()
	locations := []string{uuid.NewString()}
	token, err := m.Generate(userID, "clinician@example.com", "Jordan Reyes", "clinician", locations)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "clinician@example.com", claims.Email)
	assert.Equal(t, "clinician", claims.Role)
	assert.Equal(t, locations, claims.LocationIDs)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager(Config{Secret: "secret-a", ExpiryHours: 1})
	verifier := NewTokenManager(Config{Secret: "secret-b", ExpiryHours: 1})

	token, err := issuer.Generate(uuid.New(), "x@example.com", "X", "clinician", nil)
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := NewTokenManager(Config{Secret: "test-secret", ExpiryHours: 1})
	_, err := m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiryDefault(t *testing.T) {
	m := NewTokenManager(Config{Secret: "test-secret"})
	assert.Equal(t, float64(24), m.Expiry().Hours())
}
