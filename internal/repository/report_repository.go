package repository

import (
	"github.com/taskhive/project-management-api/internal/models"
	"gorm.io/gorm"
)

// GormReportRepository is a GORM implementation of ReportRepository. All
// queries are read-only aggregations.
type GormReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &GormReportRepository{db: db}
}

// CountProjects counts all projects
func (r *GormReportRepository) CountProjects() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}

// CountTasks counts all tasks
func (r *GormReportRepository) CountTasks() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountMembers counts users with the member role
func (r *GormReportRepository) CountMembers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.RoleMember).Count(&count).Error
	return count, err
}

type statusCount struct {
	Status models.TaskStatus
	Count  int64
}

// GroupTasksByStatus returns task counts grouped by status
func (r *GormReportRepository) GroupTasksByStatus() (map[models.TaskStatus]int64, error) {
	var rows []statusCount
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

type priorityCount struct {
	Priority models.Priority
	Count    int64
}

// GroupTasksByPriority returns task counts grouped by priority
func (r *GormReportRepository) GroupTasksByPriority() (map[models.Priority]int64, error) {
	var rows []priorityCount
	err := r.db.Model(&models.Task{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[models.Priority]int64, len(rows))
	for _, row := range rows {
		result[row.Priority] = row.Count
	}
	return result, nil
}
