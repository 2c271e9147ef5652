// Package events collects the side records of a mutation (activity-log
// entries and notifications) so they can be inserted inside the same
// transaction as the mutation itself, without the business code touching
// those tables directly.
package events

import (
	"github.com/taskhive/project-management-api/internal/models"
	"gorm.io/gorm"
)

// Activity is an audit-trail entry to append.
type Activity struct {
	ActorID   uint64
	ProjectID *uint64
	Action    string
}

// Notice is a notification row to insert for a single recipient.
type Notice struct {
	RecipientID uint64
	Message     string
	Type        models.NotificationType
	Task        *models.TaskRef
	ProjectID   *uint64
	TriggeredBy *uint64
}

// Recorder accumulates events during a unit of work.
type Recorder struct {
	activities []Activity
	notices    []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Activity records an audit-trail entry.
func (r *Recorder) Activity(actorID uint64, projectID *uint64, action string) {
	r.activities = append(r.activities, Activity{ActorID: actorID, ProjectID: projectID, Action: action})
}

// Notify records a notification for one recipient.
func (r *Recorder) Notify(n Notice) {
	r.notices = append(r.notices, n)
}

// NotifyEach fans a notice out to every recipient except the excluded user.
// Passing 0 as exclude disables the exclusion.
func (r *Recorder) NotifyEach(recipients []uint64, exclude uint64, n Notice) {
	for _, id := range recipients {
		if id == exclude {
			continue
		}
		n.RecipientID = id
		r.notices = append(r.notices, n)
	}
}

// Apply inserts every recorded event using the given transaction. Delivery is
// at most once: if the transaction rolls back, the events vanish with it.
func Apply(tx *gorm.DB, r *Recorder) error {
	for _, a := range r.activities {
		actor := a.ActorID
		log := models.ActivityLog{
			Action:    a.Action,
			UserID:    &actor,
			ProjectID: a.ProjectID,
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
	}

	for _, n := range r.notices {
		row := models.Notification{
			Message:     n.Message,
			Type:        n.Type,
			UserID:      n.RecipientID,
			ProjectID:   n.ProjectID,
			TriggeredBy: n.TriggeredBy,
		}
		if n.Task != nil {
			row.TaskProjectID = &n.Task.ProjectID
			row.TaskNumber = &n.Task.TaskNumber
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}

	return nil
}
