package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden is returned when the caller may not access the survey.
	ErrForbidden = errors.New("forbidden")
	// ErrSurveyClosed is returned when the survey's end date has passed.
	ErrSurveyClosed = errors.New("survey closed")
	// ErrQuotaExceeded is returned when the survey's response limit is reached.
	ErrQuotaExceeded = errors.New("response limit reached")
	// ErrNotFound is returned for unknown survey, question or share ids.
	ErrNotFound = errors.New("not found")
	// ErrUnknownQuestionType flags a question type outside the enumerated
	// set. It indicates corrupted data, not bad user input.
	ErrUnknownQuestionType = errors.New("unknown question type")
)

// FieldErrorCode identifies a per-field validation failure.
type FieldErrorCode string

const (
	ErrCodeRequiredMissing FieldErrorCode = "required_missing"
	ErrCodeNotInChoiceSet  FieldErrorCode = "not_in_choice_set"
	ErrCodeOutOfRange      FieldErrorCode = "out_of_range"
	ErrCodeWrongType       FieldErrorCode = "wrong_type"
)

// FieldError is one validation failure on one question's field.
type FieldError struct {
	QuestionID uint           `json:"question_id"`
	Field      string         `json:"field"`
	Code       FieldErrorCode `json:"code"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("question %d: %s %s", e.QuestionID, e.Field, e.Code)
}

// ValidationErrors carries every field error of a rejected submission so the
// form can be re-rendered with all of them, not just the first.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
