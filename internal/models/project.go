package models

import (
	"gorm.io/gorm"
)

// Project represents a customer engagement. Its project number is the
// external filing key used for report folders, so it is unique and never
// changes once assigned.
type Project struct {
	ID            string `json:"id" gorm:"primaryKey"`
	ProjectNumber string `json:"projectNumber" gorm:"column:project_number;uniqueIndex;not null"`
	ClientName    string `json:"clientName" gorm:"column:client_name"`
	SiteAddress   string `json:"siteAddress" gorm:"column:site_address"`
	CreatedByID   string `json:"-" gorm:"column:created_by_id;index"`
	gorm.Model
}

// TableName specifies the table name for Project Model
func (Project) TableName() string {
	return "projects"
}
