package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// ResultsStore is the read-only persistence contract of the aggregator.
type ResultsStore interface {
	GetSurvey(ctx context.Context, id uint) (*models.Survey, error)
	ListResponses(ctx context.Context, surveyID uint) ([]models.Response, error)
}

// ChoiceCount is one choice's tally within a question's aggregate.
type ChoiceCount struct {
	ChoiceText string  `json:"choice_text"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TextEntry is one free-text answer with its respondent and timestamp.
type TextEntry struct {
	Text        string    `json:"text"`
	Respondent  string    `json:"respondent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AggregateView is the normalized per-question summary fed to both the HTML
// results page and the document export.
type AggregateView struct {
	QuestionID     uint          `json:"question_id"`
	QuestionText   string        `json:"question_text"`
	Type           string        `json:"type"`
	TotalResponses int           `json:"total_responses"`
	Choices        []ChoiceCount `json:"choices,omitempty"`
	ScaleValues    []int         `json:"scale_values,omitempty"`
	TextEntries    []TextEntry   `json:"text_entries,omitempty"`
}

// ResultsService groups stored responses by question and computes counts,
// percentages and raw answer lists. Reads only; never mutates the store.
// Aggregates are cached in Redis as JSON snapshots with a short TTL and
// dropped whenever a submission lands.
type ResultsService struct {
	store  ResultsStore
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewResultsService(store ResultsStore, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *ResultsService {
	return &ResultsService{store: store, cache: cache, ttl: ttl, logger: logger}
}

func resultsKey(surveyID uint) string {
	return fmt.Sprintf("results:%d", surveyID)
}

// Aggregate produces one view per question, in display order.
func (s *ResultsService) Aggregate(ctx context.Context, surveyID uint) ([]AggregateView, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, resultsKey(surveyID)).Result()
		if err == nil {
			var views []AggregateView
			if err := json.Unmarshal([]byte(data), &views); err == nil {
				return views, nil
			}
		} else if err != redis.Nil && s.logger != nil {
			s.logger.Warn("results cache read failed", zap.Uint("survey_id", surveyID), zap.Error(err))
		}
	}

	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListResponses(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	byQuestion := make(map[uint][]models.Response, len(survey.Questions))
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r)
	}

	views := make([]AggregateView, 0, len(survey.Questions))
	for i := range survey.Questions {
		view, err := buildAggregate(&survey.Questions[i], byQuestion[survey.Questions[i].ID])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if s.cache != nil {
		if data, err := json.Marshal(views); err == nil {
			if err := s.cache.Set(ctx, resultsKey(surveyID), data, s.ttl).Err(); err != nil && s.logger != nil {
				s.logger.Warn("results cache write failed", zap.Uint("survey_id", surveyID), zap.Error(err))
			}
		}
	}
	return views, nil
}

// Invalidate drops the cached aggregate for a survey.
func (s *ResultsService) Invalidate(ctx context.Context, surveyID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsKey(surveyID)).Err(); err != nil && s.logger != nil {
		s.logger.Warn("results cache invalidation failed", zap.Uint("survey_id", surveyID), zap.Error(err))
	}
}

// buildAggregate summarizes one question's responses. Every choice of a
// choice question appears in the view, zero counts included; a question with
// no responses reports 0% everywhere rather than dividing by zero.
func buildAggregate(q *models.Question, responses []models.Response) (AggregateView, error) {
	shape, err := AnswerShapeFor(q.Type)
	if err != nil {
		return AggregateView{}, err
	}

	view := AggregateView{
		QuestionID:     q.ID,
		QuestionText:   q.Text,
		Type:           q.Type,
		TotalResponses: len(responses),
	}

	switch shape.Kind {
	case FieldChoice, FieldChoiceSet:
		counts := make(map[uint]int, len(q.Choices))
		for _, r := range responses {
			for _, c := range r.Choices {
				counts[c.ID]++
			}
		}
		view.Choices = make([]ChoiceCount, 0, len(q.Choices))
		for _, c := range q.Choices {
			view.Choices = append(view.Choices, ChoiceCount{
				ChoiceText: c.Text,
				Count:      counts[c.ID],
				Percentage: percentage(counts[c.ID], len(responses)),
			})
		}
	case FieldScale:
		view.ScaleValues = make([]int, 0, len(responses))
		for _, r := range responses {
			if r.ScaleResponse != nil {
				view.ScaleValues = append(view.ScaleValues, *r.ScaleResponse)
			}
		}
	default:
		view.TextEntries = make([]TextEntry, 0, len(responses))
		for _, r := range responses {
			if r.TextResponse == nil {
				continue
			}
			view.TextEntries = append(view.TextEntries, TextEntry{
				Text:        *r.TextResponse,
				Respondent:  r.RespondentName(),
				SubmittedAt: r.CreatedAt,
			})
		}
	}
	return view, nil
}

// percentage computes count/total*100 rounded to one decimal, 0 when the
// total is zero.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}
