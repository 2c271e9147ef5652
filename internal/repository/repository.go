package repository

import (
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/utils"
	"gorm.io/gorm"
)

// UnitOfWork is the transaction handle for a single request's mutation. The
// caller opens it, threads it through every repository involved, and commits
// or rolls it back exactly once.
type UnitOfWork = *gorm.DB

// UserRepository defines the interface for user data access
type UserRepository interface {
	// WithTx returns a copy of the repository bound to the given unit of work
	WithTx(tx UnitOfWork) UserRepository

	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListByRole lists all users with the given role
	ListByRole(role models.Role) ([]models.User, error)

	// ListByIDs returns the users whose ids appear in the list; unknown ids
	// are simply absent from the result
	ListByIDs(ids []uint64) ([]models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete removes a user row
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	ProjectID  *uint64
	Status     *models.TaskStatus
	Priority   *models.Priority
	AssignedTo *uint64
}

// TaskRepository defines the interface for task, comment and attachment data
// access. Tasks are addressed by their composite key everywhere.
type TaskRepository interface {
	WithTx(tx UnitOfWork) TaskRepository

	// NextNumber returns the next free task number within a project
	NextNumber(projectID uint64) (uint64, error)

	// Create creates a new task
	Create(task *models.Task) error

	// FindByRef finds a task by composite key with optional preloading
	FindByRef(ref models.TaskRef, preload ...string) (*models.Task, error)

	// List retrieves a page of tasks matching the filter, with the total
	// count before paging
	List(filter TaskFilter, params utils.PaginationParams) ([]models.Task, int64, error)

	// ListByProject lists all tasks of a project
	ListByProject(projectID uint64) ([]models.Task, error)

	// ListIncomplete lists the tasks of a project whose status is not completed
	ListIncomplete(projectID uint64) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task and its comments and attachments
	Delete(ref models.TaskRef) error

	// UnassignUser clears assigned_to on every task assigned to the user
	UnassignUser(userID uint64) error

	// CreateComment adds a comment to a task
	CreateComment(comment *models.Comment) error

	// ListComments lists a task's comments, newest first
	ListComments(ref models.TaskRef) ([]models.Comment, error)

	// CreateAttachment adds an attachment row to a task
	CreateAttachment(attachment *models.Attachment) error

	// ListAttachments lists a task's attachments
	ListAttachments(ref models.TaskRef) ([]models.Attachment, error)

	// FindAttachment finds one attachment of a task by id
	FindAttachment(ref models.TaskRef, id uint64) (*models.Attachment, error)

	// DeleteAttachment removes an attachment row
	DeleteAttachment(id uint64) error
}

// ProjectRepository defines the interface for project, membership, project
// file and activity log data access
type ProjectRepository interface {
	WithTx(tx UnitOfWork) ProjectRepository

	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List lists all projects
	List() ([]models.Project, error)

	// ListByMember lists the projects a user is a member of
	ListByMember(userID uint64) ([]models.Project, error)

	// Update persists changes to a project
	Update(project *models.Project) error

	// Delete removes a project and everything it owns
	Delete(id uint64) error

	// IsMember reports whether the user belongs to the project's membership
	// set, via an indexed lookup on the association table
	IsMember(projectID, userID uint64) (bool, error)

	// ListMembers lists the project's members
	ListMembers(projectID uint64) ([]models.User, error)

	// ListMemberIDs lists the ids of the project's members
	ListMemberIDs(projectID uint64) ([]uint64, error)

	// ReplaceMembers atomically replaces the membership set with the given
	// users and returns them
	ReplaceMembers(project *models.Project, users []models.User) error

	// CreateFile adds a project file row
	CreateFile(file *models.ProjectFile) error

	// ListFiles lists a project's files
	ListFiles(projectID uint64) ([]models.ProjectFile, error)

	// FindFile finds one project file by id
	FindFile(projectID, fileID uint64) (*models.ProjectFile, error)

	// DeleteFile removes a project file row
	DeleteFile(id uint64) error

	// ListActivity lists a project's activity log, newest first
	ListActivity(projectID uint64) ([]models.ActivityLog, error)
}

// NotificationRepository defines the interface for per-recipient inbox access
type NotificationRepository interface {
	WithTx(tx UnitOfWork) NotificationRepository

	// ListByRecipient lists a page of the user's notifications, newest
	// first, with the total count before paging
	ListByRecipient(userID uint64, params utils.PaginationParams) ([]models.Notification, int64, error)

	// CountUnread counts the user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// MarkRead marks one of the user's notifications as read
	MarkRead(id, userID uint64) error

	// MarkAllRead marks all of the user's notifications as read
	MarkAllRead(userID uint64) error
}

// ReportRepository defines the read-only aggregation queries
type ReportRepository interface {
	// CountProjects counts all projects
	CountProjects() (int64, error)

	// CountTasks counts all tasks
	CountTasks() (int64, error)

	// CountMembers counts users with the member role
	CountMembers() (int64, error)

	// GroupTasksByStatus returns task counts grouped by status
	GroupTasksByStatus() (map[models.TaskStatus]int64, error)

	// GroupTasksByPriority returns task counts grouped by priority
	GroupTasksByPriority() (map[models.Priority]int64, error)
}
