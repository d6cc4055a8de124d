package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdoux213/Application-de-Sondages-G8/services"
)

type SurveyHandler struct {
	surveyService *services.SurveyService
}

func NewSurveyHandler(surveyService *services.SurveyService) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService}
}

func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	user := currentUser(c)

	var req services.CreateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	survey, err := h.surveyService.CreateSurvey(c.Request.Context(), user, &req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

func (h *SurveyHandler) ListPublicSurveys(c *gin.Context) {
	surveys, err := h.surveyService.ListPublicSurveys(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

func (h *SurveyHandler) ListMySurveys(c *gin.Context) {
	user := currentUser(c)
	surveys, err := h.surveyService.ListUserSurveys(c.Request.Context(), user.ID)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

func (h *SurveyHandler) ListTemplates(c *gin.Context) {
	surveys, err := h.surveyService.ListTemplates(c.Request.Context())
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, surveys)
}

func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.GetSurveyDetail(c.Request.Context(), surveyID, currentUser(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	survey, err := h.surveyService.UpdateSurvey(c.Request.Context(), surveyID, currentUser(c), &req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteSurvey(c.Request.Context(), surveyID, currentUser(c)); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "survey deleted"})
}

func (h *SurveyHandler) CloneTemplate(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.CloneTemplate(c.Request.Context(), surveyID, currentUser(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, survey)
}

func (h *SurveyHandler) AddQuestion(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.surveyService.AddQuestion(c.Request.Context(), surveyID, currentUser(c), &req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *SurveyHandler) DeleteQuestion(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseID(c, "questionID")
	if !ok {
		return
	}

	if err := h.surveyService.DeleteQuestion(c.Request.Context(), surveyID, questionID, currentUser(c)); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

type createShareRequest struct {
	ExpiresAt *time.Time `json:"expires_at"`
}

func (h *SurveyHandler) CreateShare(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req createShareRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	share, err := h.surveyService.CreateShare(c.Request.Context(), surveyID, currentUser(c), req.ExpiresAt)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, share)
}

func (h *SurveyHandler) GetSharedSurvey(c *gin.Context) {
	survey, err := h.surveyService.ResolveShare(c.Request.Context(), c.Param("token"))
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, survey)
}

func (h *SurveyHandler) Subscribe(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.surveyService.Subscribe(c.Request.Context(), surveyID, currentUser(c).ID, &req)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *SurveyHandler) Unsubscribe(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.surveyService.Unsubscribe(c.Request.Context(), surveyID, currentUser(c).ID); err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unsubscribed"})
}
