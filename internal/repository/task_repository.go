package repository

import (
	"github.com/taskhive/project-management-api/internal/database"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// WithTx returns the repository bound to the given unit of work
func (r *GormTaskRepository) WithTx(tx UnitOfWork) TaskRepository {
	return &GormTaskRepository{db: tx}
}

// NextNumber returns the next free task number within a project. Numbers are
// assigned by the application; the composite key has no auto-increment.
func (r *GormTaskRepository) NextNumber(projectID uint64) (uint64, error) {
	var max uint64
	err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Select("COALESCE(MAX(task_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByRef finds a task by composite key with optional preloading
func (r *GormTaskRepository) FindByRef(ref models.TaskRef, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	err := query.
		Where("project_id = ? AND task_number = ?", ref.ProjectID, ref.TaskNumber).
		First(&task).Error
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves a page of tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter, params utils.PaginationParams) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if filter.ProjectID != nil {
		query = query.Where("project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	err := query.
		Preload("Assignee").
		Preload("Project").
		Order("project_id, task_number").
		Scopes(database.Paginate(params)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByProject lists all tasks of a project
func (r *GormTaskRepository) ListByProject(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Assignee").
		Where("project_id = ?", projectID).
		Order("task_number").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListIncomplete lists the tasks of a project whose status is not completed
func (r *GormTaskRepository) ListIncomplete(projectID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("project_id = ? AND status <> ?", projectID, models.TaskStatusCompleted).
		Order("task_number").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its comments and attachments
func (r *GormTaskRepository) Delete(ref models.TaskRef) error {
	if err := r.db.
		Where("task_project_id = ? AND task_number = ?", ref.ProjectID, ref.TaskNumber).
		Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := r.db.
		Where("task_project_id = ? AND task_number = ?", ref.ProjectID, ref.TaskNumber).
		Delete(&models.Attachment{}).Error; err != nil {
		return err
	}

	return r.db.
		Where("project_id = ? AND task_number = ?", ref.ProjectID, ref.TaskNumber).
		Delete(&models.Task{}).Error
}

// UnassignUser clears assigned_to on every task assigned to the user
func (r *GormTaskRepository) UnassignUser(userID uint64) error {
	return r.db.Model(&models.Task{}).
		Where("assigned_to = ?", userID).
		Update("assigned_to", nil).Error
}

// CreateComment adds a comment to a task
func (r *GormTaskRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// ListComments lists a task's comments, newest first
func (r *GormTaskRepository) ListComments(ref models.TaskRef) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.
		Preload("Author").
		Where("task_project_id = ? AND task_number = ?", ref.ProjectID, ref.TaskNumber).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateAttachment adds an attachment row to a task
func (r *GormTaskRepository) CreateAttachment(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// ListAttachments lists a task's attachments
func (r *GormTaskRepository) ListAttachments(ref models.TaskRef) ([]models.Attachment, error) {
	var attachments []models.Attachment
	err := r.db.
		Where("task_project_id = ? AND task_number = ?", ref.ProjectID, ref.TaskNumber).
		Order("uploaded_at DESC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// FindAttachment finds one attachment of a task by id
func (r *GormTaskRepository) FindAttachment(ref models.TaskRef, id uint64) (*models.Attachment, error) {
	var attachment models.Attachment
	err := r.db.
		Where("id = ? AND task_project_id = ? AND task_number = ?", id, ref.ProjectID, ref.TaskNumber).
		First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// DeleteAttachment removes an attachment row
func (r *GormTaskRepository) DeleteAttachment(id uint64) error {
	return r.db.Delete(&models.Attachment{}, id).Error
}
