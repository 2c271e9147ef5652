package repository

import (
	"github.com/taskhive/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// WithTx returns the repository bound to the given unit of work
func (r *GormUserRepository) WithTx(tx UnitOfWork) UserRepository {
	return &GormUserRepository{db: tx}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole lists all users with the given role
func (r *GormUserRepository) ListByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role = ?", role).Order("name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListByIDs returns the users whose ids appear in the list
func (r *GormUserRepository) ListByIDs(ids []uint64) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user row. Unassigning the user's tasks first is the
// caller's job, inside the same unit of work. Audit rows the user left behind
// (comments, uploads, activity entries) survive with the reference cleared;
// the user's own inbox goes with them.
func (r *GormUserRepository) Delete(id uint64) error {
	detach := []string{
		"UPDATE comments SET user_id = NULL WHERE user_id = ?",
		"UPDATE attachments SET uploaded_by = NULL WHERE uploaded_by = ?",
		"UPDATE project_files SET uploaded_by = NULL WHERE uploaded_by = ?",
		"UPDATE activity_logs SET user_id = NULL WHERE user_id = ?",
		"UPDATE notifications SET triggered_by = NULL WHERE triggered_by = ?",
		"DELETE FROM notifications WHERE user_id = ?",
		"DELETE FROM project_members WHERE user_id = ?",
	}
	for _, stmt := range detach {
		if err := r.db.Exec(stmt, id).Error; err != nil {
			return err
		}
	}
	return r.db.Delete(&models.User{}, id).Error
}
