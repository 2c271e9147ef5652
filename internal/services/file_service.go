package services

import (
	"errors"
	"fmt"
	"io"

	"github.com/taskhive/project-management-api/internal/events"
	"github.com/taskhive/project-management-api/internal/logger"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"github.com/taskhive/project-management-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

// FileService handles project files and task attachments. The blob store and
// the database are separate systems; a row is only committed after the file
// is on disk, and a stored file whose row cannot be committed is removed
// best effort.
type FileService struct {
	db          *gorm.DB
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	store       *storage.LocalStore
	log         *logger.Logger
}

// NewFileService creates a new FileService.
func NewFileService(db *gorm.DB, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, userRepo repository.UserRepository, store *storage.LocalStore, log *logger.Logger) *FileService {
	return &FileService{
		db:          db,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		store:       store,
		log:         log,
	}
}

// UploadProjectFile stores a file against a project and notifies the
// project's members.
func (s *FileService) UploadProjectFile(actorID, projectID uint64, filename string, src io.Reader) (*models.ProjectFile, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	fileURL, err := s.store.Save(fmt.Sprintf("projects/%d", projectID), filename, src)
	if err != nil {
		return nil, err
	}

	file := &models.ProjectFile{
		Filename:   filename,
		FileURL:    fileURL,
		UploadedBy: &actorID,
		ProjectID:  projectID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).CreateFile(file); err != nil {
			return fmt.Errorf("failed to create file record: %w", err)
		}

		members, err := s.projectRepo.WithTx(tx).ListMemberIDs(projectID)
		if err != nil {
			return fmt.Errorf("failed to list members: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &project.ID,
			fmt.Sprintf("Uploaded file '%s' to project '%s'", filename, project.Name))
		rec.NotifyEach(members, actorID, events.Notice{
			Message:     fmt.Sprintf("File '%s' was uploaded to project '%s'", filename, project.Name),
			Type:        models.NotificationFile,
			ProjectID:   &project.ID,
			TriggeredBy: &actorID,
		})
		return events.Apply(tx, rec)
	})
	if err != nil {
		s.discard(fileURL)
		return nil, err
	}

	return file, nil
}

// ListProjectFiles lists a project's files.
func (s *FileService) ListProjectFiles(projectID uint64) ([]models.ProjectFile, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return s.projectRepo.ListFiles(projectID)
}

// DeleteProjectFile removes a project file row and its stored file.
func (s *FileService) DeleteProjectFile(actorID, projectID, fileID uint64) error {
	file, err := s.projectRepo.FindFile(projectID, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to find file: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).DeleteFile(file.ID); err != nil {
			return fmt.Errorf("failed to delete file record: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &projectID, fmt.Sprintf("Deleted file '%s'", file.Filename))
		return events.Apply(tx, rec)
	})
	if err != nil {
		return err
	}

	s.discard(file.FileURL)
	return nil
}

// UploadAttachment stores a file against a task and notifies the assignee
// and the admins.
func (s *FileService) UploadAttachment(actorID uint64, ref models.TaskRef, filename string, src io.Reader) (*models.Attachment, error) {
	task, err := s.taskRepo.FindByRef(ref, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	fileURL, err := s.store.Save(fmt.Sprintf("tasks/%d/%d", ref.ProjectID, ref.TaskNumber), filename, src)
	if err != nil {
		return nil, err
	}

	attachment := &models.Attachment{
		Filename:   filename,
		FileURL:    fileURL,
		UploadedBy: &actorID,
		Task:       ref,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).CreateAttachment(attachment); err != nil {
			return fmt.Errorf("failed to create attachment record: %w", err)
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
		rec.Activity(actorID, &ref.ProjectID,
			fmt.Sprintf("Uploaded file '%s' to task '%s' (#%d)", filename, task.Title, task.TaskNumber))
		rec.NotifyEach(recipients, actorID, events.Notice{
			Message:     fmt.Sprintf("File '%s' was uploaded to task '%s' in project '%s'", filename, task.Title, task.Project.Name),
			Type:        models.NotificationFile,
			Task:        &ref,
			ProjectID:   &ref.ProjectID,
			TriggeredBy: &actorID,
		})
		return events.Apply(tx, rec)
	})
	if err != nil {
		s.discard(fileURL)
		return nil, err
	}

	return attachment, nil
}

// ListAttachments lists a task's attachments.
func (s *FileService) ListAttachments(ref models.TaskRef) ([]models.Attachment, error) {
	if _, err := s.taskRepo.FindByRef(ref); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return s.taskRepo.ListAttachments(ref)
}

// DeleteAttachment removes an attachment row and its stored file.
func (s *FileService) DeleteAttachment(actorID uint64, ref models.TaskRef, attachmentID uint64) error {
	attachment, err := s.taskRepo.FindAttachment(ref, attachmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to find attachment: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.taskRepo.WithTx(tx).DeleteAttachment(attachment.ID); err != nil {
			return fmt.Errorf("failed to delete attachment record: %w", err)
		}

		rec := events.NewRecorder()
		rec.Activity(actorID, &ref.ProjectID,
			fmt.Sprintf("Deleted attachment '%s' from task #%d", attachment.Filename, ref.TaskNumber))
		return events.Apply(tx, rec)
	})
	if err != nil {
		return err
	}

	s.discard(attachment.FileURL)
	return nil
}

// discard best-effort removes a stored file whose row is gone or was never
// committed.
func (s *FileService) discard(fileURL string) {
	if err := s.store.Delete(fileURL); err != nil {
		s.log.Warn("orphaned file left on disk", zap.String("url", fileURL), zap.Error(err))
	}
}
