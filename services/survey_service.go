package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
)

// SurveyService covers the authoring side: surveys, questions, choices,
// share links and notification subscriptions. Only users with the creator
// role may author, and only a survey's owner may change it.
type SurveyService struct {
	db *gorm.DB
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db}
}

type CreateSurveyRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	IsPublic     *bool      `json:"is_public"`
	Password     *string    `json:"password"`
	EndDate      *time.Time `json:"end_date"`
	IsAnonymous  bool       `json:"is_anonymous"`
	MaxResponses int        `json:"max_responses" binding:"min=0"`
	IsTemplate   bool       `json:"is_template"`
}

type UpdateSurveyRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	IsPublic     *bool      `json:"is_public"`
	Password     *string    `json:"password"`
	EndDate      *time.Time `json:"end_date"`
	IsAnonymous  *bool      `json:"is_anonymous"`
	MaxResponses *int       `json:"max_responses"`
	IsTemplate   *bool      `json:"is_template"`
}

type AddQuestionRequest struct {
	Text                  string                `json:"text" binding:"required"`
	Type                  string                `json:"type" binding:"required"`
	Required              *bool                 `json:"required"`
	Order                 int                   `json:"order"`
	ConditionalQuestionID *uint                 `json:"conditional_question_id"`
	ConditionalValue      *string               `json:"conditional_value"`
	Choices               []CreateChoiceRequest `json:"choices"`
}

type CreateChoiceRequest struct {
	Text  string `json:"text" binding:"required"`
	Order int    `json:"order"`
}

func (s *SurveyService) CreateSurvey(ctx context.Context, user *models.User, req *CreateSurveyRequest) (*models.Survey, error) {
	if !user.CanAuthor() {
		return nil, ErrForbidden
	}
	if req.MaxResponses < 0 {
		return nil, errors.New("max_responses must not be negative")
	}

	survey := models.Survey{
		Title:        req.Title,
		Description:  req.Description,
		CreatorID:    user.ID,
		IsPublic:     true,
		Password:     req.Password,
		EndDate:      req.EndDate,
		IsAnonymous:  req.IsAnonymous,
		MaxResponses: req.MaxResponses,
		IsTemplate:   req.IsTemplate,
	}
	if req.IsPublic != nil {
		survey.IsPublic = *req.IsPublic
	}

	if err := s.db.WithContext(ctx).Create(&survey).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s *SurveyService) UpdateSurvey(ctx context.Context, surveyID uint, user *models.User, req *UpdateSurveyRequest) (*models.Survey, error) {
	survey, err := s.ownedSurvey(ctx, surveyID, user)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		survey.Title = *req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}
	if req.IsPublic != nil {
		survey.IsPublic = *req.IsPublic
	}
	if req.Password != nil {
		survey.Password = req.Password
	}
	if req.EndDate != nil {
		survey.EndDate = req.EndDate
	}
	if req.IsAnonymous != nil {
		survey.IsAnonymous = *req.IsAnonymous
	}
	if req.MaxResponses != nil {
		if *req.MaxResponses < 0 {
			return nil, errors.New("max_responses must not be negative")
		}
		survey.MaxResponses = *req.MaxResponses
	}
	if req.IsTemplate != nil {
		survey.IsTemplate = *req.IsTemplate
	}

	if err := s.db.WithContext(ctx).Save(survey).Error; err != nil {
		return nil, err
	}
	return survey, nil
}

func (s *SurveyService) DeleteSurvey(ctx context.Context, surveyID uint, user *models.User) error {
	survey, err := s.ownedSurvey(ctx, surveyID, user)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Survey{}, survey.ID).Error
}

// GetSurveyDetail loads a survey with questions and choices, enforcing the
// visibility rule: a private survey is visible only to its creator.
func (s *SurveyService) GetSurveyDetail(ctx context.Context, surveyID uint, user *models.User) (*models.Survey, error) {
	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.IsPublic && !survey.IsCreator(user) {
		return nil, ErrForbidden
	}
	return survey, nil
}

func (s *SurveyService) ListPublicSurveys(ctx context.Context) ([]models.Survey, error) {
	var surveys []models.Survey
	err := s.db.WithContext(ctx).
		Where("is_public = ? AND is_template = ?", true, false).
		Order("created_at DESC").
		Find(&surveys).Error
	return surveys, err
}

func (s *SurveyService) ListUserSurveys(ctx context.Context, userID uint) ([]models.Survey, error) {
	var surveys []models.Survey
	err := s.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Order("created_at DESC").
		Find(&surveys).Error
	return surveys, err
}

func (s *SurveyService) ListTemplates(ctx context.Context) ([]models.Survey, error) {
	var surveys []models.Survey
	err := s.db.WithContext(ctx).
		Where("is_template = ?", true).
		Order("created_at DESC").
		Find(&surveys).Error
	return surveys, err
}

// CloneTemplate copies a template survey with all its questions and choices
// into a new survey owned by the caller. Conditional references are remapped
// onto the cloned questions.
func (s *SurveyService) CloneTemplate(ctx context.Context, templateID uint, user *models.User) (*models.Survey, error) {
	if !user.CanAuthor() {
		return nil, ErrForbidden
	}
	template, err := s.loadSurvey(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if !template.IsTemplate {
		return nil, ErrNotFound
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	clone := models.Survey{
		Title:        template.Title,
		Description:  template.Description,
		CreatorID:    user.ID,
		IsPublic:     template.IsPublic,
		EndDate:      template.EndDate,
		IsAnonymous:  template.IsAnonymous,
		MaxResponses: template.MaxResponses,
	}
	if err := tx.Create(&clone).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	idMap := make(map[uint]uint, len(template.Questions))
	for i := range template.Questions {
		src := &template.Questions[i]
		question := models.Question{
			SurveyID: clone.ID,
			Text:     src.Text,
			Type:     src.Type,
			Required: src.Required,
			Order:    src.Order,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		idMap[src.ID] = question.ID

		for _, c := range src.Choices {
			choice := models.Choice{QuestionID: question.ID, Text: c.Text, Order: c.Order}
			if err := tx.Create(&choice).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	// Second pass: conditional links point at the cloned counterparts.
	for i := range template.Questions {
		src := &template.Questions[i]
		if src.ConditionalQuestionID == nil {
			continue
		}
		target, ok := idMap[*src.ConditionalQuestionID]
		if !ok {
			continue
		}
		err := tx.Model(&models.Question{}).
			Where("id = ?", idMap[src.ID]).
			Updates(map[string]interface{}{
				"conditional_question_id": target,
				"conditional_value":       src.ConditionalValue,
			}).Error
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return s.loadSurvey(ctx, clone.ID)
}

// AddQuestion creates a question with its inline choices. The question type
// must be one of the enumerated set, and a conditional reference must name
// another question of the same survey.
func (s *SurveyService) AddQuestion(ctx context.Context, surveyID uint, user *models.User, req *AddQuestionRequest) (*models.Question, error) {
	survey, err := s.ownedSurvey(ctx, surveyID, user)
	if err != nil {
		return nil, err
	}

	shape, err := AnswerShapeFor(req.Type)
	if err != nil {
		return nil, err
	}
	if (shape.Kind == FieldChoice || shape.Kind == FieldChoiceSet) && len(req.Choices) == 0 {
		return nil, errors.New("choice questions need at least one choice")
	}

	if req.ConditionalQuestionID != nil {
		var target models.Question
		err := s.db.WithContext(ctx).
			Where("id = ? AND survey_id = ?", *req.ConditionalQuestionID, survey.ID).
			First(&target).Error
		if err != nil {
			return nil, errors.New("conditional question must belong to the same survey")
		}
	}

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	question := models.Question{
		SurveyID:              survey.ID,
		Text:                  req.Text,
		Type:                  req.Type,
		Required:              true,
		Order:                 req.Order,
		ConditionalQuestionID: req.ConditionalQuestionID,
		ConditionalValue:      req.ConditionalValue,
	}
	if req.Required != nil {
		question.Required = *req.Required
	}
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, cReq := range req.Choices {
		order := cReq.Order
		if order == 0 {
			order = i
		}
		choice := models.Choice{QuestionID: question.ID, Text: cReq.Text, Order: order}
		if err := tx.Create(&choice).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		question.Choices = append(question.Choices, choice)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// DeleteQuestion removes a question; the database clears conditional links
// pointing at it and cascades its choices and responses.
func (s *SurveyService) DeleteQuestion(ctx context.Context, surveyID, questionID uint, user *models.User) error {
	survey, err := s.ownedSurvey(ctx, surveyID, user)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND survey_id = ?", questionID, survey.ID).
		Delete(&models.Question{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateShare mints a share token for the survey.
func (s *SurveyService) CreateShare(ctx context.Context, surveyID uint, user *models.User, expiresAt *time.Time) (*models.SurveyShare, error) {
	survey, err := s.ownedSurvey(ctx, surveyID, user)
	if err != nil {
		return nil, err
	}

	share := models.SurveyShare{
		SurveyID:  survey.ID,
		Token:     uuid.NewString(),
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, err
	}
	return &share, nil
}

// ResolveShare returns the survey behind a share token. Unknown and expired
// tokens are both reported as not found.
func (s *SurveyService) ResolveShare(ctx context.Context, token string) (*models.Survey, error) {
	var share models.SurveyShare
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if share.Expired(time.Now().UTC()) {
		return nil, ErrNotFound
	}
	return s.loadSurvey(ctx, share.SurveyID)
}

type SubscribeRequest struct {
	NotifyOnResponse   *bool `json:"notify_on_response"`
	NotifyOnCompletion *bool `json:"notify_on_completion"`
}

// Subscribe enables survey notifications for the user, updating the existing
// subscription if one exists.
func (s *SurveyService) Subscribe(ctx context.Context, surveyID, userID uint, req *SubscribeRequest) (*models.SurveyNotification, error) {
	if _, err := s.loadSurvey(ctx, surveyID); err != nil {
		return nil, err
	}

	sub := models.SurveyNotification{
		SurveyID:           surveyID,
		UserID:             userID,
		IsActive:           true,
		NotifyOnResponse:   true,
		NotifyOnCompletion: true,
	}
	err := s.db.WithContext(ctx).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		First(&sub).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sub.IsActive = true
	if req != nil && req.NotifyOnResponse != nil {
		sub.NotifyOnResponse = *req.NotifyOnResponse
	}
	if req != nil && req.NotifyOnCompletion != nil {
		sub.NotifyOnCompletion = *req.NotifyOnCompletion
	}
	if err := s.db.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SurveyService) Unsubscribe(ctx context.Context, surveyID, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.SurveyNotification{}).
		Where("survey_id = ? AND user_id = ?", surveyID, userID).
		Update("is_active", false).Error
}

// ActiveSubscribers lists the active subscriptions of a survey for
// notification fan-out.
func (s *SurveyService) ActiveSubscribers(ctx context.Context, surveyID uint) ([]models.SurveyNotification, error) {
	var subs []models.SurveyNotification
	err := s.db.WithContext(ctx).
		Where("survey_id = ? AND is_active = ?", surveyID, true).
		Find(&subs).Error
	return subs, err
}

func (s *SurveyService) loadSurvey(ctx context.Context, surveyID uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order, questions.id")
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order("choices.order, choices.id")
		}).
		First(&survey, surveyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func (s *SurveyService) ownedSurvey(ctx context.Context, surveyID uint, user *models.User) (*models.Survey, error) {
	if !user.CanAuthor() {
		return nil, ErrForbidden
	}
	survey, err := s.loadSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if !survey.IsCreator(user) {
		return nil, ErrForbidden
	}
	return survey, nil
}
