package models

import "time"

// TaskAudit is one row of the per-task action trail, written in the same
// transaction as the status change it records.
type TaskAudit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    string    `json:"taskId" gorm:"column:task_id;index;not null"`
	Action    string    `json:"action" gorm:"not null"`
	ActorID   string    `json:"actorId" gorm:"column:actor_id"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName specifies the table name for TaskAudit Model
func (TaskAudit) TableName() string {
	return "task_audits"
}
