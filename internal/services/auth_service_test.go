package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// racingUserRepo simulates a concurrent registration: the email check sees
// nothing, then the insert hits the unique index
type racingUserRepo struct {
	repository.UserRepository
}

func (r *racingUserRepo) FindByEmail(email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingUserRepo) Create(user *models.User) error {
	return gorm.ErrDuplicatedKey
}

func TestAuthService_Register_ConcurrentDuplicateEmail(t *testing.T) {
	svc := NewAuthService(&racingUserRepo{})

	_, err := svc.Register(RegisterInput{
		Name:     "Late Arrival",
		Email:    "taken@example.com",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}
