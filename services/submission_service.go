package services

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// SubmissionStore is the persistence contract the orchestrator needs: survey
// lookup, a quota pre-check, and an atomic check-and-insert.
type SubmissionStore interface {
	GetSurvey(ctx context.Context, id uint) (*models.Survey, error)
	CountResponses(ctx context.Context, surveyID uint) (int64, error)
	InsertResponses(ctx context.Context, survey *models.Survey, rows []*models.Response) (int64, error)
}

// SubmissionListener is told about stored submissions after commit.
type SubmissionListener interface {
	SubmissionStored(ctx context.Context, survey *models.Survey, completed bool)
}

// SubmissionService drives a whole-survey submission: gating, per-question
// validation, and all-or-nothing persistence.
type SubmissionService struct {
	store    SubmissionStore
	listener SubmissionListener
	logger   *zap.Logger
	now      func() time.Time
}

func NewSubmissionService(store SubmissionStore, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetListener attaches the post-commit listener (notification fan-out,
// cache invalidation).
func (s *SubmissionService) SetListener(l SubmissionListener) {
	s.listener = l
}

// Submit validates and stores one user's answers to every question of the
// survey. Preconditions are checked in order: visibility, end date, quota.
// Validation runs over all questions so every field error is reported at
// once; if any question fails, nothing is persisted. The final quota check
// happens inside the store transaction, so two concurrent submissions near
// the limit cannot both be admitted.
func (s *SubmissionService) Submit(ctx context.Context, surveyID uint, user *models.User, ip string, form url.Values) error {
	survey, err := s.store.GetSurvey(ctx, surveyID)
	if err != nil {
		return err
	}

	if !survey.IsPublic && !survey.IsCreator(user) {
		return ErrForbidden
	}
	if survey.Closed(s.now()) {
		return ErrSurveyClosed
	}
	if survey.MaxResponses > 0 {
		count, err := s.store.CountResponses(ctx, survey.ID)
		if err != nil {
			return err
		}
		if count >= int64(survey.MaxResponses) {
			return ErrQuotaExceeded
		}
	}

	answers, verrs, err := ValidateSubmission(survey.Questions, form)
	if err != nil {
		return err
	}
	if len(verrs) > 0 {
		return verrs
	}

	rows := buildResponseRows(survey, user, ip, answers, s.now())
	total, err := s.store.InsertResponses(ctx, survey, rows)
	if err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("submission stored",
			zap.Uint("survey_id", survey.ID),
			zap.Int("answers", len(rows)),
			zap.Bool("anonymous", survey.IsAnonymous || user == nil),
		)
	}
	if s.listener != nil {
		completed := survey.MaxResponses > 0 && total >= int64(survey.MaxResponses)
		s.listener.SubmissionStored(ctx, survey, completed)
	}
	return nil
}

// ValidateSubmission runs the per-question validator over the survey's
// questions in display order, skipping questions whose display condition is
// unmet. It returns either the full set of normalized answers or the full
// set of field errors, never a partial mix. An unanswered optional question
// yields neither.
func ValidateSubmission(questions []models.Question, form url.Values) ([]*NormalizedAnswer, ValidationErrors, error) {
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	answered := make(map[uint]*NormalizedAnswer, len(questions))
	var answers []*NormalizedAnswer
	var verrs ValidationErrors

	for i := range questions {
		q := &questions[i]
		if !ConditionMet(q, byID, answered) {
			continue
		}
		na, ferr, err := ValidateAnswer(q, form)
		if err != nil {
			return nil, nil, err
		}
		if ferr != nil {
			verrs = append(verrs, ferr)
			continue
		}
		if na != nil {
			answered[q.ID] = na
			answers = append(answers, na)
		}
	}

	if len(verrs) > 0 {
		return nil, verrs, nil
	}
	return answers, nil, nil
}

func buildResponseRows(survey *models.Survey, user *models.User, ip string, answers []*NormalizedAnswer, now time.Time) []*models.Response {
	rows := make([]*models.Response, 0, len(answers))
	for _, a := range answers {
		row := &models.Response{
			SurveyID:   survey.ID,
			QuestionID: a.QuestionID,
			CreatedAt:  now,
		}
		if !survey.IsAnonymous && user != nil {
			id := user.ID
			row.UserID = &id
		}
		if ip != "" {
			addr := ip
			row.IPAddress = &addr
		}
		switch {
		case a.Text != nil:
			row.TextResponse = a.Text
		case a.Scale != nil:
			row.ScaleResponse = a.Scale
		default:
			row.Choices = make([]models.Choice, 0, len(a.ChoiceIDs))
			for _, id := range a.ChoiceIDs {
				row.Choices = append(row.Choices, models.Choice{ID: id})
			}
		}
		rows = append(rows, row)
	}
	return rows
}
