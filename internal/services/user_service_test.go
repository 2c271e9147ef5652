package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskhive/project-management-api/internal/database"
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupUserServiceTest opens an in-memory database with foreign key
// enforcement on, the way the production drivers behave
func setupUserServiceTest(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	return db, NewUserService(db, userRepo, taskRepo)
}

func createTestUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserService_DeleteMember(t *testing.T) {
	db, svc := setupUserServiceTest(t)

	admin := createTestUser(t, db, "admin@example.com", models.RoleAdmin)
	member := createTestUser(t, db, "member@example.com", models.RoleMember)

	project := &models.Project{Name: "Launch", Priority: models.PriorityMedium}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Exec("INSERT INTO project_members (project_id, user_id) VALUES (?, ?)", project.ID, member.ID).Error)

	task := &models.Task{
		ProjectID:  project.ID,
		TaskNumber: 1,
		Title:      "Build",
		Status:     models.TaskStatusInProgress,
		Priority:   models.PriorityMedium,
		AssignedTo: &member.ID,
	}
	require.NoError(t, db.Create(task).Error)

	// Everything the member has ever touched
	require.NoError(t, db.Create(&models.Comment{Task: task.Ref(), UserID: &member.ID, Content: "on it"}).Error)
	require.NoError(t, db.Create(&models.Attachment{Task: task.Ref(), UploadedBy: &member.ID, Filename: "notes.txt", FileURL: "/uploads/tasks/1/1/notes.txt"}).Error)
	require.NoError(t, db.Create(&models.ProjectFile{ProjectID: project.ID, UploadedBy: &member.ID, Filename: "plan.pdf", FileURL: "/uploads/projects/1/plan.pdf"}).Error)
	require.NoError(t, db.Create(&models.ActivityLog{UserID: &member.ID, ProjectID: &project.ID, Action: "Commented on task 'Build' (#1)"}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: member.ID, Type: models.NotificationAssignment, Message: "You were assigned task 'Build'"}).Error)
	require.NoError(t, db.Create(&models.Notification{UserID: admin.ID, TriggeredBy: &member.ID, Type: models.NotificationComment, Message: "New comment on task 'Build'"}).Error)

	require.NoError(t, svc.DeleteMember(member.ID))

	// The user row is gone and the task is unassigned
	err := db.First(&models.User{}, member.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var reloaded models.Task
	require.NoError(t, db.Where("project_id = ? AND task_number = ?", project.ID, 1).First(&reloaded).Error)
	require.Nil(t, reloaded.AssignedTo)

	// Audit rows survive with the reference cleared
	var comment models.Comment
	require.NoError(t, db.First(&comment).Error)
	require.Nil(t, comment.UserID)

	var attachment models.Attachment
	require.NoError(t, db.First(&attachment).Error)
	require.Nil(t, attachment.UploadedBy)

	var file models.ProjectFile
	require.NoError(t, db.First(&file).Error)
	require.Nil(t, file.UploadedBy)

	var log models.ActivityLog
	require.NoError(t, db.First(&log).Error)
	require.Nil(t, log.UserID)

	// The member's inbox goes with them; notifications they triggered stay
	var inbox int64
	db.Model(&models.Notification{}).Where("user_id = ?", member.ID).Count(&inbox)
	require.Zero(t, inbox)

	var adminNotification models.Notification
	require.NoError(t, db.Where("user_id = ?", admin.ID).First(&adminNotification).Error)
	require.Nil(t, adminNotification.TriggeredBy)

	var memberships int64
	db.Table("project_members").Where("user_id = ?", member.ID).Count(&memberships)
	require.Zero(t, memberships)
}

func TestUserService_DeleteMember_NotFound(t *testing.T) {
	_, svc := setupUserServiceTest(t)

	err := svc.DeleteMember(9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}
