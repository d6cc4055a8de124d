package models

import (
	"time"
)

type Survey struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"not null"`
	Description  string     `json:"description"`
	CreatorID    uint       `json:"creator_id" gorm:"not null"`
	IsPublic     bool       `json:"is_public" gorm:"not null;default:true"`
	Password     *string    `json:"-"`
	EndDate      *time.Time `json:"end_date"`
	IsAnonymous  bool       `json:"is_anonymous" gorm:"not null;default:false"`
	MaxResponses int        `json:"max_responses" gorm:"not null;default:0"` // 0 means unlimited
	IsTemplate   bool       `json:"is_template" gorm:"not null;default:false"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relationships
	Creator   User       `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SurveyID"`
	Responses []Response `json:"responses,omitempty" gorm:"foreignKey:SurveyID"`
}

// Closed reports whether the survey no longer accepts submissions because
// its end date has passed.
func (s *Survey) Closed(now time.Time) bool {
	return s.EndDate != nil && s.EndDate.Before(now)
}

// IsCreator reports whether the given user owns the survey.
func (s *Survey) IsCreator(u *User) bool {
	return u != nil && u.ID == s.CreatorID
}
