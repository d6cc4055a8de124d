package models

import (
	"time"
)

const (
	RoleCreator    = "creator"
	RoleRespondent = "respondent"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:'respondent'"` // creator, respondent
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Surveys []Survey `json:"surveys,omitempty" gorm:"foreignKey:CreatorID"`
}

// CanAuthor reports whether the user is allowed to create and edit surveys.
func (u *User) CanAuthor() bool {
	return u != nil && u.Role == RoleCreator
}
