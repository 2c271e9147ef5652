package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhive/project-management-api/internal/constants"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"gorm.io/gorm"
)

// ErrInvalidRole is returned for a role outside admin and member.
var ErrInvalidRole = errors.New("invalid role")

// UserService handles the admin-facing member management.
type UserService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB, userRepo repository.UserRepository, taskRepo repository.TaskRepository) *UserService {
	return &UserService{db: db, userRepo: userRepo, taskRepo: taskRepo}
}

// ListMembers lists all users with the member role.
func (s *UserService) ListMembers() ([]models.User, error) {
	members, err := s.userRepo.ListByRole(models.RoleMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// CreateMember creates a user on behalf of an admin.
func (s *UserService) CreateMember(input RegisterInput) (*models.User, error) {
	auth := AuthService{userRepo: s.userRepo}
	return auth.Register(input)
}

// UpdateMemberInput carries the optional member fields to change.
type UpdateMemberInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

// UpdateMember updates a user's info, including role changes.
func (s *UserService) UpdateMember(id uint64, input UpdateMemberInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, ErrEmailRequired
		}
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hash, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleMember {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteMember removes a user. Tasks assigned to the user become unassigned
// in the same unit of work, so no task ever references a deleted user.
func (s *UserService) DeleteMember(id uint64) error {
	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).UnassignUser(id); err != nil {
			return fmt.Errorf("failed to unassign tasks: %w", err)
		}
		if err := s.userRepo.WithTx(tx).Delete(id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}
