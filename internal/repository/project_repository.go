package repository

import (
	"github.com/taskhive/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// WithTx returns the repository bound to the given unit of work
func (r *GormProjectRepository) WithTx(tx UnitOfWork) ProjectRepository {
	return &GormProjectRepository{db: tx}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// List lists all projects
func (r *GormProjectRepository) List() ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// ListByMember lists the projects a user is a member of
func (r *GormProjectRepository) ListByMember(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Update persists changes to a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and everything it owns: tasks with their comments
// and attachments, project files, the membership set, and the project's
// activity log.
func (r *GormProjectRepository) Delete(id uint64) error {
	taskSub := r.db.Model(&models.Task{}).Select("task_number").Where("project_id = ?", id)

	if err := r.db.
		Where("task_project_id = ? AND task_number IN (?)", id, taskSub).
		Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	if err := r.db.
		Where("task_project_id = ? AND task_number IN (?)", id, taskSub).
		Delete(&models.Attachment{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ProjectFile{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("project_id = ?", id).Delete(&models.ActivityLog{}).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
		return err
	}

	return r.db.Delete(&models.Project{}, id).Error
}

// IsMember reports whether the user belongs to the project's membership set
func (r *GormProjectRepository) IsMember(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Table("project_members").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMembers lists the project's members
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN project_members ON project_members.user_id = users.id").
		Where("project_members.project_id = ?", projectID).
		Order("users.name").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ListMemberIDs lists the ids of the project's members
func (r *GormProjectRepository) ListMemberIDs(projectID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Table("project_members").
		Where("project_id = ?", projectID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ReplaceMembers atomically replaces the membership set with the given users
func (r *GormProjectRepository) ReplaceMembers(project *models.Project, users []models.User) error {
	members := make([]*models.User, len(users))
	for i := range users {
		members[i] = &users[i]
	}
	return r.db.Model(project).Association("Members").Replace(members)
}

// CreateFile adds a project file row
func (r *GormProjectRepository) CreateFile(file *models.ProjectFile) error {
	return r.db.Create(file).Error
}

// ListFiles lists a project's files
func (r *GormProjectRepository) ListFiles(projectID uint64) ([]models.ProjectFile, error) {
	var files []models.ProjectFile
	err := r.db.
		Preload("Uploader").
		Where("project_id = ?", projectID).
		Order("uploaded_at DESC").
		Find(&files).Error
	if err != nil {
		return nil, err
	}
	return files, nil
}

// FindFile finds one project file by id
func (r *GormProjectRepository) FindFile(projectID, fileID uint64) (*models.ProjectFile, error) {
	var file models.ProjectFile
	err := r.db.
		Where("id = ? AND project_id = ?", fileID, projectID).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes a project file row
func (r *GormProjectRepository) DeleteFile(id uint64) error {
	return r.db.Delete(&models.ProjectFile{}, id).Error
}

// ListActivity lists a project's activity log, newest first
func (r *GormProjectRepository) ListActivity(projectID uint64) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := r.db.
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
