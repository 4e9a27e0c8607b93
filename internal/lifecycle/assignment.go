package lifecycle

import (
	"fieldops-api/internal/models"
	"fieldops-api/internal/realtime"

	"gorm.io/gorm"
)

// Schedule bundles the scheduling metadata that travels with an assignment.
// ScheduledEndDate only means anything when UseDateRange is set; turning the
// range off clears any previously stored end date rather than leaving it
// behind.
type Schedule struct {
	UseDateRange       bool
	ScheduledStartDate string
	ScheduledEndDate   string
	DueDate            string
	EngagementNotes    string
}

// ReassignInput carries a technician (re)assignment request.
// ConfirmIfInFlight must be set when moving a task that is already in
// progress or under review to a different technician.
type ReassignInput struct {
	TechnicianID      string
	Schedule          Schedule
	ConfirmIfInFlight bool
}

// normalizeSchedule validates and canonicalizes a schedule before any write.
// Dates come back in ISO form; the end/start comparison is done on the
// normalized strings so no timezone conversion can shift a calendar date.
func normalizeSchedule(s Schedule) (Schedule, error) {
	var err error
	if s.ScheduledStartDate, err = NormalizeDate(s.ScheduledStartDate); err != nil {
		return Schedule{}, &ValidationError{Field: "scheduledStartDate", Reason: err.Error()}
	}
	if s.ScheduledEndDate, err = NormalizeDate(s.ScheduledEndDate); err != nil {
		return Schedule{}, &ValidationError{Field: "scheduledEndDate", Reason: err.Error()}
	}
	if s.DueDate, err = NormalizeDate(s.DueDate); err != nil {
		return Schedule{}, &ValidationError{Field: "dueDate", Reason: err.Error()}
	}

	if !s.UseDateRange {
		s.ScheduledEndDate = ""
	}
	if s.ScheduledEndDate != "" && s.ScheduledStartDate != "" &&
		s.ScheduledEndDate < s.ScheduledStartDate {
		return Schedule{}, &InvalidDateRangeError{Start: s.ScheduledStartDate, End: s.ScheduledEndDate}
	}
	return s, nil
}

// inFlight reports whether a technician currently has work under way on the
// task, which is what makes a reassignment disruptive.
func inFlight(status models.TaskStatus) bool {
	return status == models.StatusInProgressTech || status == models.StatusReadyForReview
}

// Reassign binds a technician and schedule to a task without touching its
// status. All validation happens before any write, so a failed call leaves
// the assignment fields exactly as they were.
func (c *Controller) Reassign(taskID string, in ReassignInput, actorAdminID string) (*models.Task, error) {
	if err := c.requireAdmin(actorAdminID); err != nil {
		return nil, err
	}

	task, err := c.load(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == models.StatusApproved {
		return nil, &ValidationError{Field: "status", Reason: "task is already approved"}
	}

	if err := c.requireTechnician(in.TechnicianID); err != nil {
		return nil, err
	}

	schedule, err := normalizeSchedule(in.Schedule)
	if err != nil {
		return nil, err
	}

	previousTechnician := task.AssignedTechnicianID
	if inFlight(task.Status) && previousTechnician != "" &&
		previousTechnician != in.TechnicianID && !in.ConfirmIfInFlight {
		return nil, ErrReassignmentNotConfirmed
	}

	var updated models.Task
	err = c.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Task{}).
			Where("id = ?", taskID).
			Updates(map[string]any{
				"assigned_technician_id": in.TechnicianID,
				"scheduled_start_date":   schedule.ScheduledStartDate,
				"scheduled_end_date":     schedule.ScheduledEndDate,
				"due_date":               schedule.DueDate,
				"engagement_notes":       schedule.EngagementNotes,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(&models.TaskAudit{
			TaskID:  taskID,
			Action:  actionReassigned,
			ActorID: actorAdminID,
		}).Error; err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", taskID).Error
	})
	if err != nil {
		return nil, err
	}

	c.notify(in.TechnicianID, realtime.EventTaskReassigned, &updated, actorAdminID)
	if previousTechnician != "" && previousTechnician != in.TechnicianID {
		c.notify(previousTechnician, realtime.EventTaskReassigned, &updated, actorAdminID)
	}
	return &updated, nil
}
