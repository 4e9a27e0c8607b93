package models

import (
	"gorm.io/gorm"
)

// TaskStatus represents where a task sits in the assignment workflow
type TaskStatus string

const (
	StatusAssigned         TaskStatus = "ASSIGNED"
	StatusInProgressTech   TaskStatus = "IN_PROGRESS_TECH"
	StatusReadyForReview   TaskStatus = "READY_FOR_REVIEW"
	StatusApproved         TaskStatus = "APPROVED"
	StatusRejectedNeedsFix TaskStatus = "REJECTED_NEEDS_FIX"
)

// TaskType represents the kind of inspection or testing work
type TaskType string

const (
	TypeDensity                   TaskType = "density"
	TypeProctor                   TaskType = "proctor"
	TypeRebar                     TaskType = "rebar"
	TypeCompressiveStrength       TaskType = "compressive_strength"
	TypeCylinderPickup            TaskType = "cylinder_pickup"
	TypeDensityReport             TaskType = "density_report"
	TypeCompressiveStrengthReport TaskType = "compressive_strength_report"
)

// Valid reports whether t is one of the known task types.
func (t TaskType) Valid() bool {
	switch t {
	case TypeDensity, TypeProctor, TypeRebar, TypeCompressiveStrength,
		TypeCylinderPickup, TypeDensityReport, TypeCompressiveStrengthReport:
		return true
	}
	return false
}

// RequiresReview reports whether submitted work of this type goes through
// admin approve/reject. Proctor and cylinder pickup are field-only and
// complete without review.
func (t TaskType) RequiresReview() bool {
	switch t {
	case TypeProctor, TypeCylinderPickup:
		return false
	}
	return true
}

// TechnicianRef is the response-side view of an assigned technician
type TechnicianRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Task represents one unit of field work or reporting against a project.
// Date fields hold date-only strings (YYYY-MM-DD); they are compared
// lexically so no timezone conversion ever shifts them.
type Task struct {
	ID                   string         `json:"id" gorm:"primaryKey"`
	ProjectID            string         `json:"projectId" gorm:"column:project_id;not null;index"`
	TaskType             TaskType       `json:"taskType" gorm:"column:task_type;not null"`
	Status               TaskStatus     `json:"status" gorm:"not null;default:'ASSIGNED'"`
	AssignedTechnicianID string         `json:"assignedTechnicianId" gorm:"column:assigned_technician_id;index"`
	AssignedTechnician   *TechnicianRef `json:"assignedTechnician,omitempty" gorm:"-"`
	ScheduledStartDate   string         `json:"scheduledStartDate" gorm:"column:scheduled_start_date"`
	ScheduledEndDate     string         `json:"scheduledEndDate" gorm:"column:scheduled_end_date"`
	DueDate              string         `json:"dueDate" gorm:"column:due_date"`
	EngagementNotes      string         `json:"engagementNotes" gorm:"column:engagement_notes"`
	LocationName         string         `json:"locationName" gorm:"column:location_name"`
	LocationNotes        string         `json:"locationNotes" gorm:"column:location_notes"`
	RejectionRemarks     string         `json:"rejectionRemarks" gorm:"column:rejection_remarks"`
	ResubmissionDueDate  string         `json:"resubmissionDueDate" gorm:"column:resubmission_due_date"`
	CreatedByID          string         `json:"-" gorm:"column:created_by_id;index"`
	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
