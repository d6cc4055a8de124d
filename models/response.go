package models

import (
	"time"
)

// Response records one answer to one question. Rows are written once by a
// submission and never updated; exactly one of TextResponse, ScaleResponse
// or the Choices association is populated, matching the question type.
type Response struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	SurveyID      uint      `json:"survey_id" gorm:"not null;index"`
	QuestionID    uint      `json:"question_id" gorm:"not null;index"`
	UserID        *uint     `json:"user_id"`
	IPAddress     *string   `json:"ip_address"`
	TextResponse  *string   `json:"text_response"`
	ScaleResponse *int      `json:"scale_response"` // 1..10
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Survey   Survey   `json:"survey,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Question Question `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	User     *User    `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Choices  []Choice `json:"choices,omitempty" gorm:"many2many:response_choices"`
}

// RespondentName returns the username to display for the response, falling
// back to "anonymous" when no user is attached.
func (r *Response) RespondentName() string {
	if r.User != nil && r.User.Username != "" {
		return r.User.Username
	}
	return "anonymous"
}
