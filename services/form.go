package services

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// Form field names, namespaced per question in the submitted input as
// "<questionID>-<field>" so several questions of the same type can share one
// page without colliding.
const (
	FieldChoiceResponse = "choice_response"
	FieldScaleResponse  = "scale_response"
	FieldTextResponse   = "text_response"
)

// ScopedKey returns the input key for a question's field.
func ScopedKey(questionID uint, field string) string {
	return fmt.Sprintf("%d-%s", questionID, field)
}

// FieldSpec tells the rendering layer which input a question expects.
type FieldSpec struct {
	QuestionID uint            `json:"question_id"`
	Key        string          `json:"key"`
	Kind       FieldKind       `json:"kind"`
	Required   bool            `json:"required"`
	Min        int             `json:"min,omitempty"`
	Max        int             `json:"max,omitempty"`
	Exclusive  bool            `json:"exclusive,omitempty"`
	Choices    []models.Choice `json:"choices,omitempty"`
}

// BuildField derives the field spec for a question from its type's answer
// shape. For choice questions the valid universe is exactly the question's
// own choices, in order.
func BuildField(q *models.Question) (*FieldSpec, error) {
	shape, err := AnswerShapeFor(q.Type)
	if err != nil {
		return nil, err
	}

	spec := &FieldSpec{
		QuestionID: q.ID,
		Kind:       shape.Kind,
		Required:   q.Required,
		Min:        shape.Min,
		Max:        shape.Max,
		Exclusive:  shape.Exclusive,
	}
	switch shape.Kind {
	case FieldChoice, FieldChoiceSet:
		spec.Key = ScopedKey(q.ID, FieldChoiceResponse)
		spec.Choices = q.Choices
	case FieldScale:
		spec.Key = ScopedKey(q.ID, FieldScaleResponse)
	case FieldText:
		spec.Key = ScopedKey(q.ID, FieldTextResponse)
	}
	return spec, nil
}

// NormalizedAnswer is a validated answer tagged with its question's type.
// Exactly one of Text, Scale or ChoiceIDs is populated.
type NormalizedAnswer struct {
	QuestionID uint
	Type       string
	Text       *string
	Scale      *int
	ChoiceIDs  []uint
}

// ValidateAnswer checks the raw input for one question and produces a
// normalized answer, a per-field validation error, or a fatal configuration
// error for an unrecognized question type. Input is read only under the
// question-scoped key; unscoped keys are never consulted. A nil answer with
// no error means the optional question was left unanswered.
func ValidateAnswer(q *models.Question, input url.Values) (*NormalizedAnswer, *FieldError, error) {
	shape, err := AnswerShapeFor(q.Type)
	if err != nil {
		return nil, nil, err
	}

	switch shape.Kind {
	case FieldChoice:
		return validateSingleChoice(q, input)
	case FieldChoiceSet:
		return validateMultipleChoice(q, input)
	case FieldScale:
		return validateScale(q, input, shape)
	default:
		return validateText(q, input)
	}
}

func validateSingleChoice(q *models.Question, input url.Values) (*NormalizedAnswer, *FieldError, error) {
	values := nonEmpty(input[ScopedKey(q.ID, FieldChoiceResponse)])
	if len(values) == 0 {
		if q.Required {
			return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeRequiredMissing), nil
		}
		return nil, nil, nil
	}
	if len(values) > 1 {
		// An exclusive field must not arrive as a set.
		return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeWrongType), nil
	}

	id, ok := parseChoiceID(values[0])
	if !ok {
		return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeWrongType), nil
	}
	if !choiceInSet(q, id) {
		return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeNotInChoiceSet), nil
	}
	return &NormalizedAnswer{QuestionID: q.ID, Type: q.Type, ChoiceIDs: []uint{id}}, nil, nil
}

func validateMultipleChoice(q *models.Question, input url.Values) (*NormalizedAnswer, *FieldError, error) {
	values := nonEmpty(input[ScopedKey(q.ID, FieldChoiceResponse)])
	if len(values) == 0 {
		if q.Required {
			return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeRequiredMissing), nil
		}
		return nil, nil, nil
	}

	ids := make([]uint, 0, len(values))
	seen := make(map[uint]bool, len(values))
	for _, v := range values {
		id, ok := parseChoiceID(v)
		if !ok {
			return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeWrongType), nil
		}
		if !choiceInSet(q, id) {
			return nil, fieldErr(q.ID, FieldChoiceResponse, ErrCodeNotInChoiceSet), nil
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return &NormalizedAnswer{QuestionID: q.ID, Type: q.Type, ChoiceIDs: ids}, nil, nil
}

func validateScale(q *models.Question, input url.Values, shape AnswerShape) (*NormalizedAnswer, *FieldError, error) {
	raw := input.Get(ScopedKey(q.ID, FieldScaleResponse))
	if raw == "" {
		if q.Required {
			return nil, fieldErr(q.ID, FieldScaleResponse, ErrCodeRequiredMissing), nil
		}
		return nil, nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fieldErr(q.ID, FieldScaleResponse, ErrCodeWrongType), nil
	}
	if n < shape.Min || n > shape.Max {
		return nil, fieldErr(q.ID, FieldScaleResponse, ErrCodeOutOfRange), nil
	}
	return &NormalizedAnswer{QuestionID: q.ID, Type: q.Type, Scale: &n}, nil, nil
}

func validateText(q *models.Question, input url.Values) (*NormalizedAnswer, *FieldError, error) {
	raw := input.Get(ScopedKey(q.ID, FieldTextResponse))
	if raw == "" {
		if q.Required {
			return nil, fieldErr(q.ID, FieldTextResponse, ErrCodeRequiredMissing), nil
		}
		return nil, nil, nil
	}
	return &NormalizedAnswer{QuestionID: q.ID, Type: q.Type, Text: &raw}, nil, nil
}

func fieldErr(questionID uint, field string, code FieldErrorCode) *FieldError {
	return &FieldError{QuestionID: questionID, Field: field, Code: code}
}

func nonEmpty(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseChoiceID(s string) (uint, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func choiceInSet(q *models.Question, id uint) bool {
	for _, c := range q.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ConditionMet reports whether a question should be shown given the answers
// collected so far. A question without a conditional reference, including one
// whose referenced question was deleted and the link cleared, is always
// shown. A set condition is met when the referenced question's answer equals
// the conditional value.
func ConditionMet(q *models.Question, questionsByID map[uint]*models.Question, answers map[uint]*NormalizedAnswer) bool {
	if q.ConditionalQuestionID == nil {
		return true
	}
	ref, ok := questionsByID[*q.ConditionalQuestionID]
	if !ok {
		// Dangling reference behaves like a cleared one.
		return true
	}
	if q.ConditionalValue == nil || *q.ConditionalValue == "" {
		return true
	}

	ans := answers[ref.ID]
	if ans == nil {
		return false
	}
	want := *q.ConditionalValue
	switch {
	case ans.Text != nil:
		return *ans.Text == want
	case ans.Scale != nil:
		return strconv.Itoa(*ans.Scale) == want
	default:
		for _, id := range ans.ChoiceIDs {
			for _, c := range ref.Choices {
				if c.ID == id && c.Text == want {
					return true
				}
			}
		}
		return false
	}
}
