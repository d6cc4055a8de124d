package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// Store is the GORM-backed persistence layer behind the survey services. It
// implements the narrower per-service interfaces (SubmissionStore,
// ResultsStore) so the core logic can be exercised against stubs.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// GetSurvey loads a survey with its questions and choices, both in display
// order with ties broken by id.
func (s *Store) GetSurvey(ctx context.Context, id uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order, questions.id")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.order, choices.id")
		}).
		First(&survey, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

// CountResponses returns the number of stored response rows for the survey.
func (s *Store) CountResponses(ctx context.Context, surveyID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}

// ListResponses returns every response row of a survey with its user and
// chosen choices loaded, oldest first.
func (s *Store) ListResponses(ctx context.Context, surveyID uint) ([]models.Response, error) {
	var responses []models.Response
	err := s.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Preload("User").
		Preload("Choices").
		Order("created_at, id").
		Find(&responses).Error
	return responses, err
}

// InsertResponses persists one submission's rows as a single atomic unit.
// The survey row is locked for the duration of the transaction so the quota
// check and the inserts cannot interleave with a concurrent submission; when
// the quota is already reached nothing is written and ErrQuotaExceeded is
// returned. On success it returns the new total response count.
func (s *Store) InsertResponses(ctx context.Context, survey *models.Survey, rows []*models.Response) (int64, error) {
	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var locked models.Survey
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, survey.ID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	var count int64
	if err := tx.Model(&models.Response{}).Where("survey_id = ?", survey.ID).Count(&count).Error; err != nil {
		tx.Rollback()
		return 0, err
	}
	if locked.MaxResponses > 0 && count >= int64(locked.MaxResponses) {
		tx.Rollback()
		return 0, ErrQuotaExceeded
	}

	for _, row := range rows {
		choices := row.Choices
		row.Choices = nil
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
		if len(choices) > 0 {
			if err := tx.Model(row).Association("Choices").Append(&choices); err != nil {
				tx.Rollback()
				return 0, err
			}
			row.Choices = choices
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return count + int64(len(rows)), nil
}
