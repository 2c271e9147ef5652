package models

import "fmt"

// TaskRef addresses a task by its project-scoped composite key. Tasks have no
// surrogate id; every table referencing a task carries these two columns.
type TaskRef struct {
	ProjectID  uint64 `gorm:"column:task_project_id;not null" json:"project_id"`
	TaskNumber uint64 `gorm:"column:task_number;not null" json:"task_number"`
}

func (r TaskRef) String() string {
	return fmt.Sprintf("%d/%d", r.ProjectID, r.TaskNumber)
}
