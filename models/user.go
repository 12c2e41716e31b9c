package models

import (
	"time"
)

// User roles
const (
	RoleInstructor = "instructor"
	RoleStudent    = "student"
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"id"`
	Name      string     `gorm:"column:name" json:"name"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	Role      string     `gorm:"column:role" json:"role"`
	StudentID *int       `gorm:"column:student_id" json:"studentId,omitempty"`
	TeamID    *int       `gorm:"column:team_id" json:"teamId,omitempty"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"createdAt,omitempty"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"updatedAt,omitempty"`

	// Relations
	Student *Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Team    *Team    `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

// UserToken stores password reset tokens.
type UserToken struct {
	TokenID   int        `gorm:"primaryKey;column:token_id" json:"token_id"`
	UserID    int        `gorm:"column:user_id" json:"user_id"`
	TokenHash string     `gorm:"column:token_hash" json:"-"`
	TokenType string     `gorm:"column:token_type" json:"token_type"`
	IsRevoked bool       `gorm:"column:is_revoked" json:"is_revoked"`
	ExpiresAt time.Time  `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (UserToken) TableName() string {
	return "user_tokens"
}
