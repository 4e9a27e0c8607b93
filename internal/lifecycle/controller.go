// Package lifecycle enforces the task assignment workflow: which status
// transitions are legal, who may drive them, and the assignment and
// rejection rules that guard them. All writes against a task row are
// single guarded statements inside a transaction, so two concurrent actions
// on the same task can never both succeed from the same state.
package lifecycle

import (
	"errors"

	"fieldops-api/internal/models"
	"fieldops-api/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit trail action names, one per workflow verb.
const (
	actionCreated     = "created"
	actionStarted     = "started"
	actionSubmitted   = "submitted"
	actionResubmitted = "resubmitted"
	actionApproved    = "approved"
	actionRejected    = "rejected"
	actionReassigned  = "reassigned"
)

// Notifier delivers fire-and-forget workflow events. A nil Notifier is
// valid; delivery failure never rolls back a transition.
type Notifier interface {
	NotifyTask(userID string, evt realtime.TaskEvent)
	NotifyAdmins(evt realtime.TaskEvent)
}

// Controller owns all mutations of Task.status. The storage handle is
// passed in explicitly so tests can run against an in-memory store.
type Controller struct {
	db       *gorm.DB
	notifier Notifier
}

// NewController builds a Controller over the given store. notifier may be nil.
func NewController(db *gorm.DB, notifier Notifier) *Controller {
	return &Controller{db: db, notifier: notifier}
}

// CreateTaskInput carries everything an admin supplies when creating a task.
// TechnicianID is optional; a task created without one still starts ASSIGNED,
// just with no technician bound yet.
type CreateTaskInput struct {
	ProjectID     string
	TaskType      models.TaskType
	TechnicianID  string
	Schedule      Schedule
	LocationName  string
	LocationNotes string
	CreatedByID   string
}

// CreateTask validates references and schedule, then persists a new task in
// ASSIGNED state.
func (c *Controller) CreateTask(in CreateTaskInput) (*models.Task, error) {
	if !in.TaskType.Valid() {
		return nil, &ValidationError{Field: "taskType", Reason: "unknown task type"}
	}

	var project models.Project
	if err := c.db.First(&project, "id = ?", in.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.TechnicianID != "" {
		if err := c.requireTechnician(in.TechnicianID); err != nil {
			return nil, err
		}
	}

	schedule, err := normalizeSchedule(in.Schedule)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:                   uuid.NewString(),
		ProjectID:            in.ProjectID,
		TaskType:             in.TaskType,
		Status:               models.StatusAssigned,
		AssignedTechnicianID: in.TechnicianID,
		ScheduledStartDate:   schedule.ScheduledStartDate,
		ScheduledEndDate:     schedule.ScheduledEndDate,
		DueDate:              schedule.DueDate,
		EngagementNotes:      schedule.EngagementNotes,
		LocationName:         in.LocationName,
		LocationNotes:        in.LocationNotes,
		CreatedByID:          in.CreatedByID,
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		return tx.Create(&models.TaskAudit{
			TaskID:  task.ID,
			Action:  actionCreated,
			ActorID: in.CreatedByID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	c.notify(task.AssignedTechnicianID, realtime.EventTaskCreated, &task, in.CreatedByID)
	return &task, nil
}

// Start moves a task from ASSIGNED to IN_PROGRESS_TECH. Only the assigned
// technician may start their task.
func (c *Controller) Start(taskID, actorTechnicianID string) (*models.Task, error) {
	task, err := c.load(taskID)
	if err != nil {
		return nil, err
	}
	if task.AssignedTechnicianID != actorTechnicianID {
		return nil, &ValidationError{Field: "actorTechnicianId", Reason: "task is assigned to a different technician"}
	}

	updated, err := c.transition(taskID, models.StatusAssigned, models.StatusInProgressTech,
		actorTechnicianID, actionStarted, "", nil)
	if err != nil {
		return nil, err
	}
	c.notify(task.CreatedByID, realtime.EventTaskStarted, updated, actorTechnicianID)
	return updated, nil
}

// Submit hands completed work over for review. Field-only task types
// (proctor, cylinder pickup) have no review step and complete immediately.
// A task in REJECTED_NEEDS_FIX resubmits back into review and sheds its
// rejection fields.
func (c *Controller) Submit(taskID, actorTechnicianID string) (*models.Task, error) {
	task, err := c.load(taskID)
	if err != nil {
		return nil, err
	}
	if task.AssignedTechnicianID != actorTechnicianID {
		return nil, &ValidationError{Field: "actorTechnicianId", Reason: "task is assigned to a different technician"}
	}

	var (
		from    = task.Status
		to      models.TaskStatus
		action  = actionSubmitted
		updates map[string]any
	)
	switch task.Status {
	case models.StatusInProgressTech:
		if task.TaskType.RequiresReview() {
			to = models.StatusReadyForReview
		} else {
			to = models.StatusApproved
		}
	case models.StatusRejectedNeedsFix:
		to = models.StatusReadyForReview
		action = actionResubmitted
		updates = map[string]any{
			"rejection_remarks":     "",
			"resubmission_due_date": "",
		}
	default:
		return nil, &InvalidTransitionError{From: task.Status, To: models.StatusReadyForReview}
	}

	updated, err := c.transition(taskID, from, to, actorTechnicianID, action, "", updates)
	if err != nil {
		return nil, err
	}
	c.notifyAdmins(realtime.EventTaskSubmitted, updated, actorTechnicianID)
	return updated, nil
}

// Approve accepts reviewed work. APPROVED is terminal: no later action can
// reopen the task.
func (c *Controller) Approve(taskID, actorAdminID string) (*models.Task, error) {
	if err := c.requireAdmin(actorAdminID); err != nil {
		return nil, err
	}

	updated, err := c.transition(taskID, models.StatusReadyForReview, models.StatusApproved,
		actorAdminID, actionApproved, "", nil)
	if err != nil {
		return nil, err
	}
	c.notify(updated.AssignedTechnicianID, realtime.EventTaskApproved, updated, actorAdminID)
	return updated, nil
}

// load fetches a task or reports ErrNotFound.
func (c *Controller) load(taskID string) (*models.Task, error) {
	var task models.Task
	if err := c.db.First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// transition applies status(from -> to) plus any extra column updates as one
// guarded statement, and records the audit row in the same transaction. If
// another writer got there first the guard matches zero rows and the caller
// gets InvalidTransitionError carrying the state that writer left behind.
func (c *Controller) transition(taskID string, from, to models.TaskStatus,
	actorID, action, comments string, extra map[string]any) (*models.Task, error) {

	updates := map[string]any{"status": to}
	for col, val := range extra {
		updates[col] = val
	}

	var result models.Task
	err := c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("id = ? AND status = ?", taskID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Task
			if err := tx.First(&current, "id = ?", taskID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			return &InvalidTransitionError{From: current.Status, To: to}
		}

		if err := tx.Create(&models.TaskAudit{
			TaskID:   taskID,
			Action:   action,
			ActorID:  actorID,
			Comments: comments,
		}).Error; err != nil {
			return err
		}

		return tx.First(&result, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// notify emits a workflow event if a notifier is wired and the target is known.
func (c *Controller) notify(userID, event string, task *models.Task, actorID string) {
	if c.notifier == nil || task == nil {
		return
	}
	c.notifier.NotifyTask(userID, taskEvent(event, task, actorID))
}

// notifyAdmins fans an event out to every connected admin.
func (c *Controller) notifyAdmins(event string, task *models.Task, actorID string) {
	if c.notifier == nil || task == nil {
		return
	}
	c.notifier.NotifyAdmins(taskEvent(event, task, actorID))
}

func taskEvent(event string, task *models.Task, actorID string) realtime.TaskEvent {
	return realtime.TaskEvent{
		Type:      event,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Status:    string(task.Status),
		ActorID:   actorID,
	}
}
