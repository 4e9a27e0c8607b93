package lifecycle

import (
	"testing"

	"fieldops-api/internal/models"

	"github.com/stretchr/testify/require"
)

// submitForReview walks a fresh task up to READY_FOR_REVIEW.
func submitForReview(t *testing.T, c *Controller, taskID, techID string) {
	t.Helper()
	_, err := c.Start(taskID, techID)
	require.NoError(t, err)
	_, err = c.Submit(taskID, techID)
	require.NoError(t, err)
}

func TestReject_EmptyRemarksFails(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)
	submitForReview(t, c, task.ID, tech.ID)

	var validationErr *ValidationError
	for _, remarks := range []string{"", "   "} {
		_, err := c.Reject(task.ID, admin.ID, remarks, "2999-03-01")
		require.ErrorAs(t, err, &validationErr)
	}

	// Validation failed before any persistence.
	var current models.Task
	require.NoError(t, db.First(&current, "id = ?", task.ID).Error)
	require.Equal(t, models.StatusReadyForReview, current.Status)
	require.Empty(t, current.RejectionRemarks)
}

func TestReject_DateValidation(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)
	submitForReview(t, c, task.ID, tech.ID)

	var validationErr *ValidationError
	for _, due := range []string{
		"",           // missing
		"2025-13-01", // month out of range
		"13-01-2025", // month out of range in US form too
		"2025-02-30", // day out of range
		"next tuesday",
	} {
		_, err := c.Reject(task.ID, admin.ID, "fix proctor curve", due)
		require.ErrorAs(t, err, &validationErr, "due date %q", due)
	}
}

func TestReject_PastDueDateFails(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)
	submitForReview(t, c, task.ID, tech.ID)

	old := today
	today = func() string { return "2025-03-15" }
	t.Cleanup(func() { today = old })

	var validationErr *ValidationError
	_, err := c.Reject(task.ID, admin.ID, "fix slump", "2025-03-14")
	require.ErrorAs(t, err, &validationErr)

	// Present-day resubmission is allowed.
	rejected, err := c.Reject(task.ID, admin.ID, "fix slump", "2025-03-15")
	require.NoError(t, err)
	require.Equal(t, models.StatusRejectedNeedsFix, rejected.Status)
}

func TestReject_NormalizesUSDateForm(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)
	submitForReview(t, c, task.ID, tech.ID)

	rejected, err := c.Reject(task.ID, admin.ID, "density readings incomplete", "03-01-2999")
	require.NoError(t, err)
	require.Equal(t, "2999-03-01", rejected.ResubmissionDueDate)
	require.Equal(t, "density readings incomplete", rejected.RejectionRemarks)
}

func TestReject_NonAdminActorRefused(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)
	submitForReview(t, c, task.ID, tech.ID)

	var validationErr *ValidationError
	_, err := c.Reject(task.ID, tech.ID, "fix slump", "2999-03-01")
	require.ErrorAs(t, err, &validationErr)

	_, err = c.Approve(task.ID, tech.ID)
	require.ErrorAs(t, err, &validationErr)
}
