package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskhive/project-management-api/internal/events"
	"github.com/taskhive/project-management-api/internal/logger"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectNameRequired = errors.New("project name is required")
)

// IncompleteTasksError reports the tasks blocking project completion.
type IncompleteTasksError struct {
	Tasks []models.Task
}

func (e *IncompleteTasksError) Error() string {
	return fmt.Sprintf("project has %d incomplete tasks", len(e.Tasks))
}

// ProjectService handles the project lifecycle: CRUD, membership, and the
// all-tasks-completed gate on marking a project complete.
type ProjectService struct {
	db          *gorm.DB
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	store       *storage.LocalStore
	log         *logger.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(db *gorm.DB, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository, store *storage.LocalStore, log *logger.Logger) *ProjectService {
	return &ProjectService{
		db:          db,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		store:       store,
		log:         log,
	}
}

// List lists all projects.
func (s *ProjectService) List() ([]models.Project, error) {
	return s.projectRepo.List()
}

// ListByMember lists the projects the user belongs to.
func (s *ProjectService) ListByMember(userID uint64) ([]models.Project, error) {
	return s.projectRepo.ListByMember(userID)
}

// Get returns one project.
func (s *ProjectService) Get(id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ProjectDetail bundles a project with everything shown on its detail page.
type ProjectDetail struct {
	Project  models.Project
	Tasks    []models.Task
	Members  []models.User
	Activity []models.ActivityLog
	Files    []models.ProjectFile
}

// Detail returns a project with its tasks, members, activity log and files.
func (s *ProjectService) Detail(id uint64) (*ProjectDetail, error) {
	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	members, err := s.projectRepo.ListMembers(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	activity, err := s.projectRepo.ListActivity(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	files, err := s.projectRepo.ListFiles(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return &ProjectDetail{
		Project:  *project,
		Tasks:    tasks,
		Members:  members,
		Activity: activity,
		Files:    files,
	}, nil
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	DueDate     *time.Time
	Priority    models.Priority
}

// Create creates a project. The completion date always starts null.
func (s *ProjectService) Create(actorID uint64, input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Priority:    priority,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).Create(project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID, fmt.Sprintf("Created project '%s'", project.Name))
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// UpdateProjectInput carries the optional project fields to change. Date
// changes are not validated against existing tasks retroactively.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	DueDate     *time.Time
	Priority    *models.Priority
}

// Update edits a project.
func (s *ProjectService) Update(actorID, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartDate != nil {
		project.StartDate = input.StartDate
	}
	if input.DueDate != nil {
		project.DueDate = input.DueDate
	}
	if input.Priority != nil {
		project.Priority = *input.Priority
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).Update(project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID, fmt.Sprintf("Updated project '%s'", project.Name))
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project and everything it owns. Stored files are removed
// from disk after the transaction commits; removal failures are logged and
// not retried.
func (s *ProjectService) Delete(id uint64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	var urls []string
	files, err := s.projectRepo.ListFiles(id)
	if err != nil {
		return fmt.Errorf("failed to list files: %w", err)
	}
	for _, f := range files {
		urls = append(urls, f.FileURL)
	}
	tasks, err := s.taskRepo.ListByProject(id)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	for _, t := range tasks {
		attachments, err := s.taskRepo.ListAttachments(t.Ref())
		if err != nil {
			return fmt.Errorf("failed to list attachments: %w", err)
		}
		for _, a := range attachments {
			urls = append(urls, a.FileURL)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.projectRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.cleanupFiles(urls)
	return nil
}

// ReplaceMembers atomically replaces the project's membership set. Unknown
// user ids are silently ignored; newly added members are notified.
func (s *ProjectService) ReplaceMembers(actorID, projectID uint64, memberIDs []uint64) (int, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return 0, err
	}

	previous, err := s.projectRepo.ListMemberIDs(projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to list members: %w", err)
	}
	existing := make(map[uint64]struct{}, len(previous))
	for _, id := range previous {
		existing[id] = struct{}{}
	}

	var count int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		users, err := s.userRepo.WithTx(tx).ListByIDs(memberIDs)
		if err != nil {
			return fmt.Errorf("failed to resolve members: %w", err)
		}

		if err := s.projectRepo.WithTx(tx).ReplaceMembers(project, users); err != nil {
			return fmt.Errorf("failed to replace members: %w", err)
		}
		count = len(users)

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Updated members for project '%s'. Total members: %d", project.Name, count))
		for _, u := range users {
			if _, ok := existing[u.ID]; ok {
				continue
			}
			rec.Notify(events.Notice{
				RecipientID: u.ID,
				Message:     fmt.Sprintf("You were added to project '%s'", project.Name),
				Type:        models.NotificationAssignment,
				ProjectID:   &project.ID,
				TriggeredBy: &actorID,
			})
		}
		return events.Apply(tx, rec)
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Complete marks a project completed. If any task is not completed the
// operation fails with the offending tasks and the project is untouched.
func (s *ProjectService) Complete(actorID, projectID uint64) (*models.Project, error) {
	project, err := s.Get(projectID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		incomplete, err := s.taskRepo.WithTx(tx).ListIncomplete(projectID)
		if err != nil {
			return fmt.Errorf("failed to check tasks: %w", err)
		}
		if len(incomplete) > 0 {
			return &IncompleteTasksError{Tasks: incomplete}
		}

		now := time.Now()
		project.CompletionDate = &now
		if err := s.projectRepo.WithTx(tx).Update(project); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID, fmt.Sprintf("Marked project '%s' as completed", project.Name))
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// cleanupFiles best-effort removes stored files whose rows are gone.
func (s *ProjectService) cleanupFiles(urls []string) {
	for _, url := range urls {
		if err := s.store.Delete(url); err != nil {
			s.log.Warn("orphaned file left on disk", zap.String("url", url), zap.Error(err))
		}
	}
}
