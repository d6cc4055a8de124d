package services

import (
	"net/url"
	"testing"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

func choiceQuestion(id uint, questionType string, required bool, choiceIDs ...uint) *models.Question {
	q := &models.Question{ID: id, Type: questionType, Required: required}
	for i, cid := range choiceIDs {
		q.Choices = append(q.Choices, models.Choice{ID: cid, QuestionID: id, Text: "choice " + string(rune('A'+i)), Order: i})
	}
	return q
}

func assertSingleVariant(t *testing.T, na *NormalizedAnswer) {
	t.Helper()
	populated := 0
	if na.Text != nil {
		populated++
	}
	if na.Scale != nil {
		populated++
	}
	if len(na.ChoiceIDs) > 0 {
		populated++
	}
	if populated != 1 {
		t.Fatalf("normalized answer has %d populated variants, want exactly 1: %+v", populated, na)
	}
}

func TestBuildFieldKeys(t *testing.T) {
	tests := []struct {
		q    *models.Question
		key  string
		kind FieldKind
	}{
		{choiceQuestion(7, models.TypeSingleChoice, true, 1, 2), "7-choice_response", FieldChoice},
		{choiceQuestion(8, models.TypeMultipleChoice, false, 3), "8-choice_response", FieldChoiceSet},
		{&models.Question{ID: 9, Type: models.TypeScale}, "9-scale_response", FieldScale},
		{&models.Question{ID: 10, Type: models.TypeText}, "10-text_response", FieldText},
	}

	for _, tt := range tests {
		spec, err := BuildField(tt.q)
		if err != nil {
			t.Fatalf("BuildField(%d) returned error: %v", tt.q.ID, err)
		}
		if spec.Key != tt.key {
			t.Errorf("BuildField(%d).Key = %q, want %q", tt.q.ID, spec.Key, tt.key)
		}
		if spec.Kind != tt.kind {
			t.Errorf("BuildField(%d).Kind = %v, want %v", tt.q.ID, spec.Kind, tt.kind)
		}
	}
}

func TestBuildFieldChoiceUniverse(t *testing.T) {
	q := choiceQuestion(4, models.TypeSingleChoice, true, 11, 12, 13)
	spec, err := BuildField(q)
	if err != nil {
		t.Fatalf("BuildField returned error: %v", err)
	}
	if len(spec.Choices) != 3 {
		t.Fatalf("spec.Choices has %d entries, want 3", len(spec.Choices))
	}
	for i, c := range spec.Choices {
		if c.ID != q.Choices[i].ID {
			t.Errorf("spec.Choices[%d].ID = %d, want %d (order must be preserved)", i, c.ID, q.Choices[i].ID)
		}
	}
}

func TestValidateAnswerAcceptsAllTypes(t *testing.T) {
	tests := []struct {
		name  string
		q     *models.Question
		input url.Values
	}{
		{"single choice", choiceQuestion(1, models.TypeSingleChoice, true, 10, 11), url.Values{"1-choice_response": {"11"}}},
		{"multiple choice", choiceQuestion(2, models.TypeMultipleChoice, true, 20, 21, 22), url.Values{"2-choice_response": {"20", "22"}}},
		{"scale", &models.Question{ID: 3, Type: models.TypeScale, Required: true}, url.Values{"3-scale_response": {"7"}}},
		{"text", &models.Question{ID: 4, Type: models.TypeText, Required: true}, url.Values{"4-text_response": {"some answer"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			na, ferr, err := ValidateAnswer(tt.q, tt.input)
			if err != nil {
				t.Fatalf("ValidateAnswer returned error: %v", err)
			}
			if ferr != nil {
				t.Fatalf("ValidateAnswer returned field error: %v", ferr)
			}
			if na == nil {
				t.Fatal("ValidateAnswer returned nil answer")
			}
			if na.Type != tt.q.Type {
				t.Errorf("answer type = %q, want %q", na.Type, tt.q.Type)
			}
			assertSingleVariant(t, na)
		})
	}
}

// A required question must not be satisfied by input arriving under the
// unscoped field name; only the question-scoped key counts.
func TestValidateAnswerIgnoresUnscopedKey(t *testing.T) {
	q := choiceQuestion(5, models.TypeSingleChoice, true, 50, 51)
	input := url.Values{
		"choice_response": {"50"}, // unscoped: belongs to no question
	}

	na, ferr, err := ValidateAnswer(q, input)
	if err != nil {
		t.Fatalf("ValidateAnswer returned error: %v", err)
	}
	if na != nil {
		t.Fatalf("unscoped key produced an answer: %+v", na)
	}
	if ferr == nil || ferr.Code != ErrCodeRequiredMissing {
		t.Fatalf("field error = %v, want required_missing", ferr)
	}
}

func TestValidateAnswerChoiceNotInSet(t *testing.T) {
	q := choiceQuestion(6, models.TypeSingleChoice, true, 60, 61)
	input := url.Values{"6-choice_response": {"999"}}

	_, ferr, err := ValidateAnswer(q, input)
	if err != nil {
		t.Fatalf("ValidateAnswer returned error: %v", err)
	}
	if ferr == nil || ferr.Code != ErrCodeNotInChoiceSet {
		t.Fatalf("field error = %v, want not_in_choice_set", ferr)
	}
}

func TestValidateAnswerMultipleChoiceForeignID(t *testing.T) {
	q := choiceQuestion(7, models.TypeMultipleChoice, false, 70, 71)
	input := url.Values{"7-choice_response": {"70", "999"}}

	_, ferr, err := ValidateAnswer(q, input)
	if err != nil {
		t.Fatalf("ValidateAnswer returned error: %v", err)
	}
	if ferr == nil || ferr.Code != ErrCodeNotInChoiceSet {
		t.Fatalf("field error = %v, want not_in_choice_set", ferr)
	}
}

func TestValidateAnswerScaleBounds(t *testing.T) {
	q := &models.Question{ID: 8, Type: models.TypeScale, Required: true}

	for _, raw := range []string{"0", "11"} {
		_, ferr, err := ValidateAnswer(q, url.Values{"8-scale_response": {raw}})
		if err != nil {
			t.Fatalf("ValidateAnswer(%s) returned error: %v", raw, err)
		}
		if ferr == nil || ferr.Code != ErrCodeOutOfRange {
			t.Fatalf("scale %s: field error = %v, want out_of_range", raw, ferr)
		}
	}

	for _, raw := range []string{"1", "10"} {
		na, ferr, err := ValidateAnswer(q, url.Values{"8-scale_response": {raw}})
		if err != nil || ferr != nil {
			t.Fatalf("scale %s rejected: ferr=%v err=%v", raw, ferr, err)
		}
		assertSingleVariant(t, na)
	}
}

func TestValidateAnswerScaleWrongType(t *testing.T) {
	q := &models.Question{ID: 9, Type: models.TypeScale, Required: true}
	_, ferr, err := ValidateAnswer(q, url.Values{"9-scale_response": {"seven"}})
	if err != nil {
		t.Fatalf("ValidateAnswer returned error: %v", err)
	}
	if ferr == nil || ferr.Code != ErrCodeWrongType {
		t.Fatalf("field error = %v, want wrong_type", ferr)
	}
}

func TestValidateAnswerSingleChoiceRejectsSet(t *testing.T) {
	q := choiceQuestion(10, models.TypeSingleChoice, true, 100, 101)
	_, ferr, err := ValidateAnswer(q, url.Values{"10-choice_response": {"100", "101"}})
	if err != nil {
		t.Fatalf("ValidateAnswer returned error: %v", err)
	}
	if ferr == nil || ferr.Code != ErrCodeWrongType {
		t.Fatalf("field error = %v, want wrong_type", ferr)
	}
}

func TestValidateAnswerOptionalUnanswered(t *testing.T) {
	tests := []*models.Question{
		choiceQuestion(11, models.TypeSingleChoice, false, 1),
		choiceQuestion(12, models.TypeMultipleChoice, false, 2),
		{ID: 13, Type: models.TypeScale, Required: false},
		{ID: 14, Type: models.TypeText, Required: false},
	}

	for _, q := range tests {
		na, ferr, err := ValidateAnswer(q, url.Values{})
		if err != nil || ferr != nil {
			t.Fatalf("question %d: optional unanswered rejected: ferr=%v err=%v", q.ID, ferr, err)
		}
		if na != nil {
			t.Fatalf("question %d: optional unanswered produced an answer: %+v", q.ID, na)
		}
	}
}

func TestValidateAnswerUnknownTypeIsFatal(t *testing.T) {
	q := &models.Question{ID: 15, Type: "ranking", Required: true}
	_, _, err := ValidateAnswer(q, url.Values{})
	if err == nil {
		t.Fatal("unknown question type did not return a configuration error")
	}
}

func TestConditionMetClearedReference(t *testing.T) {
	// A deleted conditional target clears the link; the question must then
	// always be shown.
	q := &models.Question{ID: 2, Type: models.TypeText, ConditionalQuestionID: nil}
	if !ConditionMet(q, map[uint]*models.Question{2: q}, nil) {
		t.Fatal("question with cleared conditional reference must always be shown")
	}
}

func TestConditionMetChoiceAnswer(t *testing.T) {
	ref := choiceQuestion(1, models.TypeSingleChoice, true, 10, 11)
	ref.Choices[0].Text = "yes"
	ref.Choices[1].Text = "no"

	condValue := "yes"
	refID := uint(1)
	q := &models.Question{ID: 2, Type: models.TypeText, ConditionalQuestionID: &refID, ConditionalValue: &condValue}
	questions := map[uint]*models.Question{1: ref, 2: q}

	met := ConditionMet(q, questions, map[uint]*NormalizedAnswer{
		1: {QuestionID: 1, Type: models.TypeSingleChoice, ChoiceIDs: []uint{10}},
	})
	if !met {
		t.Fatal("condition should be met when the chosen choice text matches")
	}

	unmet := ConditionMet(q, questions, map[uint]*NormalizedAnswer{
		1: {QuestionID: 1, Type: models.TypeSingleChoice, ChoiceIDs: []uint{11}},
	})
	if unmet {
		t.Fatal("condition should not be met when a different choice was picked")
	}

	if ConditionMet(q, questions, map[uint]*NormalizedAnswer{}) {
		t.Fatal("condition should not be met when the referenced question is unanswered")
	}
}

func TestConditionMetScaleAnswer(t *testing.T) {
	ref := &models.Question{ID: 1, Type: models.TypeScale}
	condValue := "8"
	refID := uint(1)
	q := &models.Question{ID: 2, Type: models.TypeText, ConditionalQuestionID: &refID, ConditionalValue: &condValue}
	questions := map[uint]*models.Question{1: ref, 2: q}

	eight := 8
	if !ConditionMet(q, questions, map[uint]*NormalizedAnswer{1: {QuestionID: 1, Scale: &eight}}) {
		t.Fatal("condition should be met for matching scale value")
	}
}
