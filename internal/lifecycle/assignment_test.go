package lifecycle

import (
	"testing"

	"fieldops-api/internal/models"
	"fieldops-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestReassign_InvalidDateRangeLeavesTaskUnchanged(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	var dateRangeErr *InvalidDateRangeError
	_, err := c.Reassign(task.ID, ReassignInput{
		TechnicianID: tech.ID,
		Schedule: Schedule{
			UseDateRange:       true,
			ScheduledStartDate: "2025-06-10",
			ScheduledEndDate:   "2025-06-01",
		},
	}, admin.ID)
	require.ErrorAs(t, err, &dateRangeErr)

	// No partial write: assignment fields are exactly as created.
	var current models.Task
	require.NoError(t, db.First(&current, "id = ?", task.ID).Error)
	require.Equal(t, tech.ID, current.AssignedTechnicianID)
	require.Empty(t, current.ScheduledStartDate)
	require.Empty(t, current.ScheduledEndDate)
}

func TestReassign_DateRangeOffClearsEndDate(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	// Assign with a range first.
	updated, err := c.Reassign(task.ID, ReassignInput{
		TechnicianID: tech.ID,
		Schedule: Schedule{
			UseDateRange:       true,
			ScheduledStartDate: "2025-06-01",
			ScheduledEndDate:   "2025-06-10",
		},
	}, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-06-10", updated.ScheduledEndDate)

	// Toggling the range off clears the stored end date.
	updated, err = c.Reassign(task.ID, ReassignInput{
		TechnicianID: tech.ID,
		Schedule: Schedule{
			UseDateRange:       false,
			ScheduledStartDate: "2025-06-01",
			ScheduledEndDate:   "2025-06-10",
		},
	}, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-06-01", updated.ScheduledStartDate)
	require.Empty(t, updated.ScheduledEndDate)
}

func TestReassign_NormalizesUSDates(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	updated, err := c.Reassign(task.ID, ReassignInput{
		TechnicianID: tech.ID,
		Schedule: Schedule{
			UseDateRange:       true,
			ScheduledStartDate: "06-01-2025",
			ScheduledEndDate:   "06-10-2025",
			DueDate:            "06-20-2025",
		},
	}, admin.ID)
	require.NoError(t, err)
	require.Equal(t, "2025-06-01", updated.ScheduledStartDate)
	require.Equal(t, "2025-06-10", updated.ScheduledEndDate)
	require.Equal(t, "2025-06-20", updated.DueDate)
}

func TestReassign_InFlightRequiresConfirmation(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	replacement, err := testutil.SeedUser(db, "replacement-tech", "pw-tech-3", models.RoleTechnician)
	require.NoError(t, err)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	_, err = c.Start(task.ID, tech.ID)
	require.NoError(t, err)

	// Swapping technicians mid-work without the flag is refused.
	_, err = c.Reassign(task.ID, ReassignInput{TechnicianID: replacement.ID}, admin.ID)
	require.ErrorIs(t, err, ErrReassignmentNotConfirmed)

	// Updating the same technician's schedule needs no confirmation.
	_, err = c.Reassign(task.ID, ReassignInput{
		TechnicianID: tech.ID,
		Schedule:     Schedule{DueDate: "2999-07-01"},
	}, admin.ID)
	require.NoError(t, err)

	// With the flag, the swap goes through and status is untouched.
	updated, err := c.Reassign(task.ID, ReassignInput{
		TechnicianID:      replacement.ID,
		ConfirmIfInFlight: true,
	}, admin.ID)
	require.NoError(t, err)
	require.Equal(t, replacement.ID, updated.AssignedTechnicianID)
	require.Equal(t, models.StatusInProgressTech, updated.Status)
}

func TestReassign_BeforeWorkStartsNeedsNoConfirmation(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	replacement, err := testutil.SeedUser(db, "replacement-tech", "pw-tech-3", models.RoleTechnician)
	require.NoError(t, err)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	updated, err := c.Reassign(task.ID, ReassignInput{TechnicianID: replacement.ID}, admin.ID)
	require.NoError(t, err)
	require.Equal(t, replacement.ID, updated.AssignedTechnicianID)
	require.Equal(t, models.StatusAssigned, updated.Status)
}

func TestReassign_BadTechnicianReference(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	_, err := c.Reassign(task.ID, ReassignInput{TechnicianID: "no-such-user"}, admin.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Admins cannot be assigned field work.
	_, err = c.Reassign(task.ID, ReassignInput{TechnicianID: admin.ID}, admin.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReassign_ApprovedTaskRefused(t *testing.T) {
	c, db := newTestController(t)
	admin, tech := seedWorkflowUsers(t, db)
	task := seedTask(t, c, db, models.TypeDensity, admin.ID, tech.ID)

	_, err := c.Start(task.ID, tech.ID)
	require.NoError(t, err)
	_, err = c.Submit(task.ID, tech.ID)
	require.NoError(t, err)
	_, err = c.Approve(task.ID, admin.ID)
	require.NoError(t, err)

	var validationErr *ValidationError
	_, err = c.Reassign(task.ID, ReassignInput{TechnicianID: tech.ID}, admin.ID)
	require.ErrorAs(t, err, &validationErr)
}
