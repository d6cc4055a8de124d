package services

import (
	"bytes"
	"testing"
	"time"
)

func TestRenderPDF(t *testing.T) {
	views := []AggregateView{
		{
			QuestionID: 1, QuestionText: "Which plan do you use?", Type: "single_choice", TotalResponses: 3,
			Choices: []ChoiceCount{
				{ChoiceText: "Free", Count: 2, Percentage: 66.7},
				{ChoiceText: "Pro", Count: 1, Percentage: 33.3},
			},
		},
		{
			QuestionID: 2, QuestionText: "How satisfied are you?", Type: "scale", TotalResponses: 2,
			ScaleValues: []int{7, 3},
		},
		{
			QuestionID: 3, QuestionText: "Anything else?", Type: "text", TotalResponses: 1,
			TextEntries: []TextEntry{
				{Text: "great", Respondent: "marie", SubmittedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)},
			},
		},
	}

	svc := NewExportService()
	data, err := svc.RenderPDF("Customer feedback", views)
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("RenderPDF returned an empty document")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with the PDF magic, got %q", data[:4])
	}
}

func TestRenderPDFNoQuestions(t *testing.T) {
	svc := NewExportService()
	data, err := svc.RenderPDF("Empty survey", nil)
	if err != nil {
		t.Fatalf("RenderPDF returned error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestExportFilename(t *testing.T) {
	svc := NewExportService()
	if got := svc.Filename("Customer feedback"); got != "Customer feedback_results.pdf" {
		t.Fatalf("Filename = %q", got)
	}
}
