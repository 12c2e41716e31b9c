package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Review statuses
const (
	ReviewStatusPending   = "pending"
	ReviewStatusSubmitted = "submitted"
	ReviewStatusGraded    = "graded"
)

// Artifact types attachable to a peer review
const (
	ArtifactSummary  = "summary"
	ArtifactComments = "comments"
)

// SuggestedGrades is the reviewer's suggested score payload, stored as a
// JSON column on the review record.
type SuggestedGrades struct {
	Assignment int  `json:"assignment"`
	Iteration  *int `json:"iteration,omitempty"`
}

// Value implements driver.Valuer for the suggested_grades JSON column.
func (g SuggestedGrades) Value() (driver.Value, error) {
	return json.Marshal(g)
}

// Scan implements sql.Scanner for the suggested_grades JSON column.
func (g *SuggestedGrades) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, g)
	case string:
		return json.Unmarshal([]byte(v), g)
	default:
		return errors.New("unsupported type for suggested grades")
	}
}

// PeerReview represents the peer_reviews table: one reviewing assignment
// of one team by another for a given sprint. reviewing_team_id and
// reviewed_team_id are never equal for generated records.
type PeerReview struct {
	ReviewID        int              `gorm:"primaryKey;column:review_id" json:"id"`
	Sprint          int              `gorm:"column:sprint;index" json:"sprint"`
	ReviewingTeamID int              `gorm:"column:reviewing_team_id;index" json:"reviewingTeamId"`
	ReviewedTeamID  int              `gorm:"column:reviewed_team_id;index" json:"reviewedTeamId"`
	ReportLink      *string          `gorm:"column:report_link" json:"reviewedTeamReportLink,omitempty"`
	SummaryFileID   *int             `gorm:"column:summary_file_id" json:"-"`
	CommentsFileID  *int             `gorm:"column:comments_file_id" json:"-"`
	SummaryLink     *string          `gorm:"column:summary_link" json:"summaryPDFLink,omitempty"`
	CommentsLink    *string          `gorm:"column:comments_link" json:"commentsPDFLink,omitempty"`
	Status          string           `gorm:"column:status" json:"status"`
	SubmittedAt     *time.Time       `gorm:"column:submitted_at" json:"submittedAt"`
	DueDate         *time.Time       `gorm:"column:due_date" json:"dueDate,omitempty"`
	SuggestedGrades *SuggestedGrades `gorm:"column:suggested_grades;type:json" json:"suggestedGrades,omitempty"`
	ReviewGrade     *int             `gorm:"column:review_grade" json:"reviewGrade,omitempty"`

	ReviewingTeam *Team `gorm:"foreignKey:ReviewingTeamID;references:TeamID" json:"reviewingTeam,omitempty"`
	ReviewedTeam  *Team `gorm:"foreignKey:ReviewedTeamID;references:TeamID" json:"reviewedTeam,omitempty"`
}

// TableName overrides the table name for PeerReview
func (PeerReview) TableName() string {
	return "peer_reviews"
}

// ArtifactFileID returns the stored file id for the given artifact type.
func (r *PeerReview) ArtifactFileID(artifactType string) *int {
	if artifactType == ArtifactSummary {
		return r.SummaryFileID
	}
	return r.CommentsFileID
}
