package services

import (
	"errors"
	"testing"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

func TestAnswerShapeFor(t *testing.T) {
	tests := []struct {
		questionType string
		kind         FieldKind
		exclusive    bool
	}{
		{models.TypeSingleChoice, FieldChoice, true},
		{models.TypeMultipleChoice, FieldChoiceSet, false},
		{models.TypeScale, FieldScale, false},
		{models.TypeText, FieldText, false},
	}

	for _, tt := range tests {
		shape, err := AnswerShapeFor(tt.questionType)
		if err != nil {
			t.Fatalf("AnswerShapeFor(%q) returned error: %v", tt.questionType, err)
		}
		if shape.Kind != tt.kind {
			t.Errorf("AnswerShapeFor(%q).Kind = %v, want %v", tt.questionType, shape.Kind, tt.kind)
		}
		if shape.Exclusive != tt.exclusive {
			t.Errorf("AnswerShapeFor(%q).Exclusive = %v, want %v", tt.questionType, shape.Exclusive, tt.exclusive)
		}
	}
}

func TestAnswerShapeForScaleBounds(t *testing.T) {
	shape, err := AnswerShapeFor(models.TypeScale)
	if err != nil {
		t.Fatalf("AnswerShapeFor(scale) returned error: %v", err)
	}
	if shape.Min != 1 || shape.Max != 10 {
		t.Fatalf("scale bounds = [%d,%d], want [1,10]", shape.Min, shape.Max)
	}
}

func TestAnswerShapeForUnknownType(t *testing.T) {
	if _, err := AnswerShapeFor("ranking"); !errors.Is(err, ErrUnknownQuestionType) {
		t.Fatalf("AnswerShapeFor(ranking) error = %v, want ErrUnknownQuestionType", err)
	}
}
