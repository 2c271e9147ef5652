package services

import (
	"fmt"
	"math"

	"github.com/taskhive/project-management-api/internal/models"
	"github.com/taskhive/project-management-api/internal/repository"
)

// ReportSummary is the admin dashboard aggregate.
type ReportSummary struct {
	TotalProjects   int64
	TotalTasks      int64
	TotalMembers    int64
	TasksByStatus   map[models.TaskStatus]int64
	TasksByPriority map[models.Priority]int64
	CompletionRate  float64
}

// ReportService computes read-only aggregates for the admin dashboard.
type ReportService struct {
	reportRepo repository.ReportRepository
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{reportRepo: reportRepo}
}

// Summary computes the dashboard counts. The completion rate is the share of
// completed tasks as a percentage, rounded to one decimal, and 0 when there
// are no tasks.
func (s *ReportService) Summary() (*ReportSummary, error) {
	totalProjects, err := s.reportRepo.CountProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	totalTasks, err := s.reportRepo.CountTasks()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	totalMembers, err := s.reportRepo.CountMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	byStatus, err := s.reportRepo.GroupTasksByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to group tasks by status: %w", err)
	}
	byPriority, err := s.reportRepo.GroupTasksByPriority()
	if err != nil {
		return nil, fmt.Errorf("failed to group tasks by priority: %w", err)
	}

	var rate float64
	if totalTasks > 0 {
		rate = float64(byStatus[models.TaskStatusCompleted]) / float64(totalTasks) * 100
		rate = math.Round(rate*10) / 10
	}

	return &ReportSummary{
		TotalProjects:   totalProjects,
		TotalTasks:      totalTasks,
		TotalMembers:    totalMembers,
		TasksByStatus:   byStatus,
		TasksByPriority: byPriority,
		CompletionRate:  rate,
	}, nil
}
