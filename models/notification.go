package models

import (
	"time"
)

// SurveyNotification is a user's subscription to events on a survey.
type SurveyNotification struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	SurveyID           uint      `json:"survey_id" gorm:"not null;index"`
	UserID             uint      `json:"user_id" gorm:"not null;index"`
	IsActive           bool      `json:"is_active" gorm:"not null;default:true"`
	NotifyOnResponse   bool      `json:"notify_on_response" gorm:"not null;default:true"`
	NotifyOnCompletion bool      `json:"notify_on_completion" gorm:"not null;default:true"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Relationships
	Survey Survey `json:"survey,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	User   User   `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
