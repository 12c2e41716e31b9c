package models

import "time"

// Team represents the teams table. Creation order (team_id) gives the
// stable indexing the review schedule generator depends on. Once a team
// is locked its membership is frozen.
type Team struct {
	TeamID    int        `gorm:"primaryKey;column:team_id" json:"id"`
	Name      string     `gorm:"column:name;unique" json:"name"`
	Color     string     `gorm:"column:color" json:"color"`
	IsLocked  bool       `gorm:"column:is_locked" json:"isLocked"`
	ProjectID *int       `gorm:"column:project_id" json:"projectId,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updatedAt,omitempty"`

	Students []Student `gorm:"foreignKey:TeamID;references:TeamID" json:"students"`
}

// TableName overrides the table name for Team
func (Team) TableName() string {
	return "teams"
}

// HasRep reports whether the team already has a representative.
func (t *Team) HasRep() bool {
	for _, s := range t.Students {
		if s.IsRep {
			return true
		}
	}
	return false
}
