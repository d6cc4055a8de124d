package models

import (
	"time"
)

// Question types.
const (
	TypeSingleChoice   = "single_choice"
	TypeMultipleChoice = "multiple_choice"
	TypeScale          = "scale"
	TypeText           = "text"
)

type Question struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	SurveyID              uint      `json:"survey_id" gorm:"not null;index"`
	Text                  string    `json:"text" gorm:"not null"`
	Type                  string    `json:"type" gorm:"not null"` // single_choice, multiple_choice, scale, text
	Required              bool      `json:"required" gorm:"not null;default:true"`
	Order                 int       `json:"order" gorm:"not null;default:0"`
	ConditionalQuestionID *uint     `json:"conditional_question_id"`
	ConditionalValue      *string   `json:"conditional_value"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	// Relationships
	Survey              Survey    `json:"survey,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Choices             []Choice  `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
	ConditionalQuestion *Question `json:"conditional_question,omitempty" gorm:"foreignKey:ConditionalQuestionID;constraint:OnDelete:SET NULL"`
}

// HasChoices reports whether the question type carries a choice set.
func (q *Question) HasChoices() bool {
	return q.Type == TypeSingleChoice || q.Type == TypeMultipleChoice
}
