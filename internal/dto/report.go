package dto

import (
	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/services"
)

// ReportSummaryDTO is the admin dashboard aggregate in API responses
type ReportSummaryDTO struct {
	TotalProjects   int64                       `json:"total_projects"`
	TotalTasks      int64                       `json:"total_tasks"`
	TotalMembers    int64                       `json:"total_members"`
	TasksByStatus   map[models.TaskStatus]int64 `json:"tasks_by_status"`
	TasksByPriority map[models.Priority]int64   `json:"tasks_by_priority"`
	CompletionRate  float64                     `json:"completion_rate"`
}

// ToReportSummaryDTO converts a report summary
func ToReportSummaryDTO(summary *services.ReportSummary) ReportSummaryDTO {
	return ReportSummaryDTO{
		TotalProjects:   summary.TotalProjects,
		TotalTasks:      summary.TotalTasks,
		TotalMembers:    summary.TotalMembers,
		TasksByStatus:   summary.TasksByStatus,
		TasksByPriority: summary.TasksByPriority,
		CompletionRate:  summary.CompletionRate,
	}
}
