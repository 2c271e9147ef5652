package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/project-management-api/internal/models"
)

func TestTokenService_GenerateAndParse(t *testing.T) {
	tokens := NewTokenService("test-secret")

	user := &models.User{ID: 7, Role: models.RoleAdmin}
	signed, err := tokens.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	require.Equal(t, uint64(7), claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestTokenService_Parse_WrongSecret(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.Generate(&models.User{ID: 1, Role: models.RoleMember})
	require.NoError(t, err)

	other := NewTokenService("other-secret")
	_, err = other.Parse(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Parse_Garbage(t *testing.T) {
	tokens := NewTokenService("test-secret")

	_, err := tokens.Parse("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Parse_Tampered(t *testing.T) {
	tokens := NewTokenService("test-secret")

	signed, err := tokens.Generate(&models.User{ID: 1, Role: models.RoleMember})
	require.NoError(t, err)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = tokens.Parse(tampered)
	require.ErrorIs(t, err, ErrInvalidToken)
}
