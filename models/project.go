package models

import "time"

// Project represents the projects table. A project owns its teams; the
// review period length (total sprints) is fixed per project.
type Project struct {
	ProjectID          int        `gorm:"primaryKey;column:project_id" json:"id"`
	Name               string     `gorm:"column:name" json:"name"`
	MaxTeams           int        `gorm:"column:max_teams" json:"maxTeams"`
	MaxStudentsPerTeam int        `gorm:"column:max_students_per_team" json:"maxStudentsPerTeam"`
	TotalSprints       int        `gorm:"column:total_sprints" json:"totalSprints"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt          *time.Time `gorm:"column:updated_at" json:"updatedAt,omitempty"`

	Teams []Team `gorm:"foreignKey:ProjectID;references:ProjectID" json:"teams"`
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}
