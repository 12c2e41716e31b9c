package models

// Assignment letters used for both student and team grades.
const (
	AssignmentLetterA  = "A"  // assignment
	AssignmentLetterR  = "R"  // peer review
	AssignmentLetterI  = "I"  // implementation
	AssignmentLetterC  = "C"  // communication
	AssignmentLetterET = "ET" // team extra
	AssignmentLetterE  = "E"  // extra
)

// ValidAssignmentLetter reports whether the letter is a known assignment
// category.
func ValidAssignmentLetter(letter string) bool {
	switch letter {
	case AssignmentLetterA, AssignmentLetterR, AssignmentLetterI,
		AssignmentLetterC, AssignmentLetterET, AssignmentLetterE:
		return true
	}
	return false
}

// Grade represents the grades table: one score per student, sprint and
// assignment category.
type Grade struct {
	GradeID    int    `gorm:"primaryKey;column:grade_id" json:"id"`
	StudentID  int    `gorm:"column:student_id;index" json:"studentId"`
	Sprint     int    `gorm:"column:sprint;index" json:"sprint"`
	Assignment string `gorm:"column:assignment;index" json:"assignment"`
	Score      int    `gorm:"column:score" json:"score"`

	Student *Student `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

// TableName overrides the table name for Grade
func (Grade) TableName() string {
	return "grades"
}

// TeamGrade represents the team_grades table: one team-level score per
// sprint and assignment category.
type TeamGrade struct {
	TeamGradeID int     `gorm:"primaryKey;column:team_grade_id" json:"id"`
	TeamID      int     `gorm:"column:team_id;index" json:"teamId"`
	Sprint      int     `gorm:"column:sprint;index" json:"sprint"`
	Assignment  string  `gorm:"column:assignment;index" json:"assignment"`
	Score       int     `gorm:"column:score" json:"score"`
	Comments    *string `gorm:"column:comments" json:"comments,omitempty"`

	Team *Team `gorm:"foreignKey:TeamID;references:TeamID" json:"team,omitempty"`
}

// TableName overrides the table name for TeamGrade
func (TeamGrade) TableName() string {
	return "team_grades"
}
