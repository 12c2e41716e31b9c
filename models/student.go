package models

import "time"

// Student represents the students table.
type Student struct {
	StudentID int        `gorm:"primaryKey;column:student_id" json:"id"`
	Name      string     `gorm:"column:name" json:"name"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	IsRep     bool       `gorm:"column:is_rep" json:"isRep"`
	TeamID    *int       `gorm:"column:team_id" json:"teamId,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updatedAt,omitempty"`
}

// TableName overrides the table name for Student
func (Student) TableName() string {
	return "students"
}
