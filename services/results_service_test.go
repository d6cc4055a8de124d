package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

type stubResultsStore struct {
	survey    *models.Survey
	responses []models.Response
}

func (s *stubResultsStore) GetSurvey(ctx context.Context, id uint) (*models.Survey, error) {
	if s.survey == nil || s.survey.ID != id {
		return nil, ErrNotFound
	}
	return s.survey, nil
}

func (s *stubResultsStore) ListResponses(ctx context.Context, surveyID uint) ([]models.Response, error) {
	return s.responses, nil
}

func ptrUint(v uint) *uint       { return &v }
func ptrInt(v int) *int          { return &v }
func ptrString(v string) *string { return &v }

func choiceResponse(questionID uint, choiceIDs ...uint) models.Response {
	r := models.Response{SurveyID: 1, QuestionID: questionID}
	for _, id := range choiceIDs {
		r.Choices = append(r.Choices, models.Choice{ID: id})
	}
	return r
}

func TestAggregateEmptySurvey(t *testing.T) {
	store := &stubResultsStore{survey: newTestSurvey()}
	svc := NewResultsService(store, nil, time.Minute, zap.NewNop())

	views, err := svc.Aggregate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("got %d views, want one per question", len(views))
	}

	choiceView := views[0]
	if choiceView.TotalResponses != 0 {
		t.Errorf("total = %d, want 0", choiceView.TotalResponses)
	}
	if len(choiceView.Choices) != 2 {
		t.Fatalf("got %d choice rows, want the full choice set", len(choiceView.Choices))
	}
	for _, c := range choiceView.Choices {
		if c.Count != 0 || c.Percentage != 0 {
			t.Errorf("%s: count=%d pct=%v, want zeros", c.ChoiceText, c.Count, c.Percentage)
		}
	}
}

func TestAggregateCountsAndPercentages(t *testing.T) {
	store := &stubResultsStore{
		survey: newTestSurvey(),
		responses: []models.Response{
			choiceResponse(1, 10),
			choiceResponse(1, 10),
			choiceResponse(1, 11),
			{SurveyID: 1, QuestionID: 2, ScaleResponse: ptrInt(7)},
			{SurveyID: 1, QuestionID: 2, ScaleResponse: ptrInt(3)},
			{SurveyID: 1, QuestionID: 3, TextResponse: ptrString("great"),
				User: &models.User{ID: 5, Username: "marie"}, UserID: ptrUint(5),
				CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
			{SurveyID: 1, QuestionID: 3, TextResponse: ptrString("meh")},
		},
	}
	svc := NewResultsService(store, nil, time.Minute, zap.NewNop())

	views, err := svc.Aggregate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	choiceView := views[0]
	if choiceView.TotalResponses != 3 {
		t.Errorf("choice total = %d, want 3", choiceView.TotalResponses)
	}
	want := []ChoiceCount{
		{ChoiceText: "Free", Count: 2, Percentage: 66.7},
		{ChoiceText: "Pro", Count: 1, Percentage: 33.3},
	}
	for i, w := range want {
		got := choiceView.Choices[i]
		if got != w {
			t.Errorf("choice[%d] = %+v, want %+v", i, got, w)
		}
	}

	scaleView := views[1]
	if len(scaleView.ScaleValues) != 2 || scaleView.ScaleValues[0] != 7 || scaleView.ScaleValues[1] != 3 {
		t.Errorf("scale values = %v, want [7 3]", scaleView.ScaleValues)
	}

	textView := views[2]
	if len(textView.TextEntries) != 2 {
		t.Fatalf("got %d text entries, want 2", len(textView.TextEntries))
	}
	if textView.TextEntries[0].Respondent != "marie" {
		t.Errorf("respondent = %q, want marie", textView.TextEntries[0].Respondent)
	}
	if textView.TextEntries[1].Respondent != "anonymous" {
		t.Errorf("respondent = %q, want anonymous for a userless row", textView.TextEntries[1].Respondent)
	}
}

func TestAggregateMultipleChoiceCountsEachSelection(t *testing.T) {
	survey := &models.Survey{
		ID: 1, Title: "Topics", IsPublic: true,
		Questions: []models.Question{
			{ID: 1, SurveyID: 1, Text: "Which topics interest you?", Type: models.TypeMultipleChoice, Order: 0,
				Choices: []models.Choice{
					{ID: 20, QuestionID: 1, Text: "Go"},
					{ID: 21, QuestionID: 1, Text: "Rust"},
					{ID: 22, QuestionID: 1, Text: "Zig"},
				}},
		},
	}
	store := &stubResultsStore{
		survey: survey,
		responses: []models.Response{
			choiceResponse(1, 20, 21),
			choiceResponse(1, 20),
		},
	}
	svc := NewResultsService(store, nil, time.Minute, zap.NewNop())

	views, err := svc.Aggregate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	view := views[0]
	if view.TotalResponses != 2 {
		t.Errorf("total = %d, want 2 (respondents, not selections)", view.TotalResponses)
	}
	want := []ChoiceCount{
		{ChoiceText: "Go", Count: 2, Percentage: 100},
		{ChoiceText: "Rust", Count: 1, Percentage: 50},
		{ChoiceText: "Zig", Count: 0, Percentage: 0},
	}
	for i, w := range want {
		if view.Choices[i] != w {
			t.Errorf("choice[%d] = %+v, want %+v", i, view.Choices[i], w)
		}
	}
}

func TestAggregateUnknownSurvey(t *testing.T) {
	svc := NewResultsService(&stubResultsStore{}, nil, time.Minute, zap.NewNop())
	if _, err := svc.Aggregate(context.Background(), 5); err != ErrNotFound {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestPercentageRounding(t *testing.T) {
	cases := []struct {
		count, total int
		want         float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 2, 50},
		{3, 3, 100},
		{1, 8, 12.5},
	}
	for _, c := range cases {
		if got := percentage(c.count, c.total); got != c.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", c.count, c.total, got, c.want)
		}
	}
}
