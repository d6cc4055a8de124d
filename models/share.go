package models

import (
	"time"
)

type SurveyShare struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	SurveyID  uint       `json:"survey_id" gorm:"not null;index"`
	Token     string     `json:"token" gorm:"uniqueIndex;not null"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`

	// Relationships
	Survey Survey `json:"survey,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
}

// Expired reports whether the share link is past its expiry.
func (s *SurveyShare) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}
