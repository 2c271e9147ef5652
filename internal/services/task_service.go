package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskhive/project-management-api/internal/events"
	"github.com/taskhive/project-management-api/internal/logger"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/storage"
	"github.com/taskhive/project-management-api/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskTitleRequired = errors.New("task title is required")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrNotPendingReview  = errors.New("task is not pending review")
	ErrAssigneeNotMember = errors.New("assignee is not a member of the project")
	ErrCommentRequired   = errors.New("comment content is required")
)

// DateBoundError names the task date that falls outside the project's dates.
type DateBoundError struct {
	Field string
	Bound string
}

func (e *DateBoundError) Error() string {
	return fmt.Sprintf("task %s is outside the project %s", e.Field, e.Bound)
}

// TaskService handles the task lifecycle, including the review workflow and
// task comments. Tasks are addressed by (project id, task number) everywhere.
type TaskService struct {
	db          *gorm.DB
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	store       *storage.LocalStore
	log         *logger.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(db *gorm.DB, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository, store *storage.LocalStore, log *logger.Logger) *TaskService {
	return &TaskService{
		db:          db,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		store:       store,
		log:         log,
	}
}

// Get returns one task with its project and assignee loaded.
func (s *TaskService) Get(ref models.TaskRef) (*models.Task, error) {
	task, err := s.taskRepo.FindByRef(ref, "Project", "Assignee")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// TaskDetail bundles a task with its comments and attachments.
type TaskDetail struct {
	Task        models.Task
	Comments    []models.Comment
	Attachments []models.Attachment
}

// Detail returns a task with its comments and attachments.
func (s *TaskService) Detail(ref models.TaskRef) (*TaskDetail, error) {
	task, err := s.Get(ref)
	if err != nil {
		return nil, err
	}

	comments, err := s.taskRepo.ListComments(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	attachments, err := s.taskRepo.ListAttachments(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}

	return &TaskDetail{Task: *task, Comments: comments, Attachments: attachments}, nil
}

// List retrieves a page of tasks matching the filter.
func (s *TaskService) List(filter repository.TaskFilter, params utils.PaginationParams) ([]models.Task, int64, error) {
	return s.taskRepo.List(filter, params)
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID   uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.Priority
	StartDate   *time.Time
	DueDate     *time.Time
	AssignedTo  *uint64
}

// Create creates a task inside a project. The task number is assigned from
// the project's own sequence inside the transaction, so concurrent creates
// in the same project never collide.
func (s *TaskService) Create(actorID uint64, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := checkDateBounds(project, input.StartDate, input.DueDate); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(input.ProjectID, input.AssignedTo); err != nil {
		return nil, err
	}

	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
	}
	// Reaching completed via any path stamps the completion date
	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletionDate = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		number, err := s.taskRepo.WithTx(tx).NextNumber(input.ProjectID)
		if err != nil {
			return fmt.Errorf("failed to allocate task number: %w", err)
		}
		task.TaskNumber = number

		if err := s.taskRepo.WithTx(tx).Create(task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Created task '%s' (#%d) in project '%s'", task.Title, task.TaskNumber, project.Name))
		if task.AssignedTo != nil && *task.AssignedTo != actorID {
			ref := task.Ref()
			rec.Notify(events.Notice{
				RecipientID: *task.AssignedTo,
				Message:     fmt.Sprintf("You were assigned task '%s' in project '%s'", task.Title, project.Name),
				Type:        models.NotificationAssignment,
				Task:        &ref,
				ProjectID:   &project.ID,
				TriggeredBy: &actorID,
			})
		}
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// UpdateTaskInput carries the optional task fields to change. AssignedTo
// distinguishes "leave alone" (nil) from "unassign" (pointer to nil).
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *models.Priority
	StartDate   *time.Time
	DueDate     *time.Time
	AssignedTo  **uint64
}

// Update edits a task. Date changes are validated against the project's
// dates the same way creation is.
func (s *TaskService) Update(actorID uint64, ref models.TaskRef, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	project := &task.Project

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.StartDate != nil {
		task.StartDate = input.StartDate
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := checkDateBounds(project, task.StartDate, task.DueDate); err != nil {
		return nil, err
	}

	var newAssignee *uint64
	reassigned := false
	if input.AssignedTo != nil {
		newAssignee = *input.AssignedTo
		if err := s.checkAssignee(ref.ProjectID, newAssignee); err != nil {
			return nil, err
		}
		reassigned = newAssignee != nil &&
			(task.AssignedTo == nil || *task.AssignedTo != *newAssignee)
		task.AssignedTo = newAssignee
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Updated task '%s' (#%d) in project '%s'", task.Title, task.TaskNumber, project.Name))
		if reassigned && *newAssignee != actorID {
			rec.Notify(events.Notice{
				RecipientID: *newAssignee,
				Message:     fmt.Sprintf("You were assigned task '%s' in project '%s'", task.Title, project.Name),
				Type:        models.NotificationAssignment,
				Task:        &ref,
				ProjectID:   &project.ID,
				TriggeredBy: &actorID,
			})
		}
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes a task with its comments and attachments. Attachment files
// are removed from disk after the transaction commits.
func (s *TaskService) Delete(actorID uint64, ref models.TaskRef) error {
	task, err := s.Get(ref)
	if err != nil {
		return err
	}

	attachments, err := s.taskRepo.ListAttachments(ref)
	if err != nil {
		return fmt.Errorf("failed to list attachments: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Delete(ref); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &ref.ProjectID,
			fmt.Sprintf("Deleted task '%s' (#%d)", task.Title, task.TaskNumber))
		return events.Apply(tx, rec)
	})
	if err != nil {
		return err
	}

	for _, a := range attachments {
		if err := s.store.Delete(a.FileURL); err != nil {
			s.log.Warn("orphaned file left on disk", zap.String("url", a.FileURL), zap.Error(err))
		}
	}
	return nil
}

// UpdateStatus changes a task's status on behalf of the actor. A member
// moving a task to completed lands it in pending review instead, and the
// admins are asked to review it. Only an admin transition to completed stamps
// the completion date.
func (s *TaskService) UpdateStatus(actorID uint64, actorRole models.Role, ref models.TaskRef, status models.TaskStatus) (*models.Task, error) {
	if !models.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	task, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	project := &task.Project

	requested := status
	review := false
	if status == models.TaskStatusCompleted && actorRole != models.RoleAdmin {
		status = models.TaskStatusPendingReview
		review = true
	}

	task.Status = status
	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletionDate = &now
	} else {
		task.CompletionDate = nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Changed status of task '%s' (#%d) to %s", task.Title, task.TaskNumber, status))

		if review {
			admins, err := adminIDs(s.userRepo)
			if err != nil {
				return err
			}
			rec.NotifyEach(admins, actorID, events.Notice{
				Message: fmt.Sprintf("Task '%s' in project '%s' is awaiting review", task.Title, project.Name),
				Type:    models.NotificationReview,
				Task:    &ref, ProjectID: &project.ID, TriggeredBy: &actorID,
			})
		} else if actorRole != models.RoleAdmin {
			admins, err := adminIDs(s.userRepo)
			if err != nil {
				return err
			}
			rec.NotifyEach(admins, actorID, events.Notice{
				Message: fmt.Sprintf("Status of task '%s' in project '%s' changed to %s", task.Title, project.Name, requested),
				Type:    models.NotificationTaskStatus,
				Task:    &ref, ProjectID: &project.ID, TriggeredBy: &actorID,
			})
		} else if task.AssignedTo != nil && *task.AssignedTo != actorID {
			rec.Notify(events.Notice{
				RecipientID: *task.AssignedTo,
				Message:     fmt.Sprintf("Status of task '%s' in project '%s' changed to %s", task.Title, project.Name, status),
				Type:        models.NotificationTaskStatus,
				Task:        &ref, ProjectID: &project.ID, TriggeredBy: &actorID,
			})
		}
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Approve accepts a task that is pending review, marking it completed and
// stamping the completion date.
func (s *TaskService) Approve(actorID uint64, ref models.TaskRef) (*models.Task, error) {
	return s.review(actorID, ref, models.TaskStatusCompleted, "approved")
}

// Reject sends a task that is pending review back to in progress.
func (s *TaskService) Reject(actorID uint64, ref models.TaskRef) (*models.Task, error) {
	return s.review(actorID, ref, models.TaskStatusInProgress, "rejected")
}

func (s *TaskService) review(actorID uint64, ref models.TaskRef, outcome models.TaskStatus, verdict string) (*models.Task, error) {
	task, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusPendingReview {
		return nil, ErrNotPendingReview
	}
	project := &task.Project

	task.Status = outcome
	if outcome == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletionDate = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).Update(task); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Review %s for task '%s' (#%d)", verdict, task.Title, task.TaskNumber))
		if task.AssignedTo != nil && *task.AssignedTo != actorID {
			rec.Notify(events.Notice{
				RecipientID: *task.AssignedTo,
				Message:     fmt.Sprintf("Your task '%s' in project '%s' was %s", task.Title, project.Name, verdict),
				Type:        models.NotificationReview,
				Task:        &ref, ProjectID: &project.ID, TriggeredBy: &actorID,
			})
		}
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// AddComment appends a comment to a task and notifies the assignee and the
// admins, never the author.
func (s *TaskService) AddComment(actorID uint64, ref models.TaskRef, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentRequired
	}

	task, err := s.Get(ref)
	if err != nil {
		return nil, err
	}
	project := &task.Project

	comment := &models.Comment{
		Task:    ref,
		UserID:  &actorID,
		Content: content,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).CreateComment(comment); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}

		admins, err := adminIDs(s.userRepo)
		if err != nil {
			return err
		}
		recipients := admins
		if task.AssignedTo != nil && !contains(recipients, *task.AssignedTo) {
			recipients = append(recipients, *task.AssignedTo)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Commented on task '%s' (#%d)", task.Title, task.TaskNumber))
		rec.NotifyEach(recipients, actorID, events.Notice{
			Message: fmt.Sprintf("New comment on task '%s' in project '%s'", task.Title, project.Name),
			Type:    models.NotificationComment,
			Task:    &ref, ProjectID: &project.ID, TriggeredBy: &actorID,
		})
		return events.Apply(tx, rec)
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// ListComments lists a task's comments, newest first.
func (s *TaskService) ListComments(ref models.TaskRef) ([]models.Comment, error) {
	if _, err := s.Get(ref); err != nil {
		return nil, err
	}
	return s.taskRepo.ListComments(ref)
}

// checkDateBounds verifies the task dates fall inside the project's dates.
// Bounds the project leaves null are not enforced.
func checkDateBounds(project *models.Project, start, due *time.Time) error {
	if start != nil {
		if project.StartDate != nil && start.Before(*project.StartDate) {
			return &DateBoundError{Field: "start_date", Bound: "start_date"}
		}
		if project.DueDate != nil && start.After(*project.DueDate) {
			return &DateBoundError{Field: "start_date", Bound: "due_date"}
		}
	}
	if due != nil {
		if project.StartDate != nil && due.Before(*project.StartDate) {
			return &DateBoundError{Field: "due_date", Bound: "start_date"}
		}
		if project.DueDate != nil && due.After(*project.DueDate) {
			return &DateBoundError{Field: "due_date", Bound: "due_date"}
		}
	}
	return nil
}

// checkAssignee verifies the assignee, when set, belongs to the project.
func (s *TaskService) checkAssignee(projectID uint64, assignee *uint64) error {
	if assignee == nil {
		return nil
	}
	ok, err := s.projectRepo.IsMember(projectID, *assignee)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return ErrAssigneeNotMember
	}
	return nil
}

func adminIDs(userRepo repository.UserRepository) ([]uint64, error) {
	admins, err := userRepo.ListByRole(models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	ids := make([]uint64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
