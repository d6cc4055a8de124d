package services

import (
	"fmt"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// FieldKind is the shape of the value a question accepts.
type FieldKind int

const (
	FieldChoice    FieldKind = iota // exactly one choice id
	FieldChoiceSet                  // subset of the choice ids
	FieldScale                      // integer in [ScaleMin, ScaleMax]
	FieldText                       // free text
)

// Scale questions accept an integer on a fixed 1..10 scale.
const (
	ScaleMin = 1
	ScaleMax = 10
)

// AnswerShape describes how answers to a question type are captured and
// validated: which kind of field, its bounds, and whether the choices render
// as mutually exclusive (radio rather than checkbox).
type AnswerShape struct {
	Kind      FieldKind
	Min       int
	Max       int
	Exclusive bool
}

// AnswerShapeFor maps a question type to its answer shape. A type outside
// the enumerated set is a configuration error, never a user-facing one.
func AnswerShapeFor(questionType string) (AnswerShape, error) {
	switch questionType {
	case models.TypeSingleChoice:
		return AnswerShape{Kind: FieldChoice, Exclusive: true}, nil
	case models.TypeMultipleChoice:
		return AnswerShape{Kind: FieldChoiceSet}, nil
	case models.TypeScale:
		return AnswerShape{Kind: FieldScale, Min: ScaleMin, Max: ScaleMax}, nil
	case models.TypeText:
		return AnswerShape{Kind: FieldText}, nil
	default:
		return AnswerShape{}, fmt.Errorf("%w: %q", ErrUnknownQuestionType, questionType)
	}
}
