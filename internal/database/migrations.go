package database

import (
	"fmt"

	"github.com/taskhive/project-management-api/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model. Tasks get their
// composite (project_id, task_number) primary key from the model tags.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.Attachment{},
		&models.ProjectFile{},
		&models.ActivityLog{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return addIndexes(db)
}

// addIndexes adds lookup indexes that AutoMigrate does not create. The
// project_members pair index backs the membership capability query.
func addIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		{"project_members", "idx_project_members_pair", "project_id, user_id"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},
		{"tasks", "idx_tasks_status", "status"},
		{"comments", "idx_comments_task", "task_project_id, task_number"},
		{"attachments", "idx_attachments_task", "task_project_id, task_number"},
		{"notifications", "idx_notifications_recipient", "user_id, is_read"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}
		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
