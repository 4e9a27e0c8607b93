package lifecycle

import (
	"strings"

	"fieldops-api/internal/models"
	"fieldops-api/internal/realtime"
)

// Reject records an admin's rejection of submitted work. Remarks and a
// resubmission due date are both required; the same technician keeps the
// task to fix and resubmit.
func (c *Controller) Reject(taskID, actorAdminID, remarks, resubmissionDueDate string) (*models.Task, error) {
	if err := c.requireAdmin(actorAdminID); err != nil {
		return nil, err
	}

	remarks = strings.TrimSpace(remarks)
	if remarks == "" {
		return nil, &ValidationError{Field: "rejectionRemarks", Reason: "remarks are required"}
	}

	due, err := NormalizeDate(resubmissionDueDate)
	if err != nil {
		return nil, &ValidationError{Field: "resubmissionDueDate", Reason: err.Error()}
	}
	if due == "" {
		return nil, &ValidationError{Field: "resubmissionDueDate", Reason: "resubmission due date is required"}
	}
	if due < today() {
		return nil, &ValidationError{Field: "resubmissionDueDate", Reason: "resubmission due date must not be in the past"}
	}

	updated, err := c.transition(taskID, models.StatusReadyForReview, models.StatusRejectedNeedsFix,
		actorAdminID, actionRejected, remarks, map[string]any{
			"rejection_remarks":     remarks,
			"resubmission_due_date": due,
		})
	if err != nil {
		return nil, err
	}

	c.notify(updated.AssignedTechnicianID, realtime.EventTaskRejected, updated, actorAdminID)
	return updated, nil
}
