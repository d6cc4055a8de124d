package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdoux213/Application-de-Sondages-G8/models"
	"github.com/abdoux213/Application-de-Sondages-G8/services"
)

type ResponseHandler struct {
	surveyService     *services.SurveyService
	submissionService *services.SubmissionService
	resultsService    *services.ResultsService
	exportService     *services.ExportService
}

func NewResponseHandler(
	surveyService *services.SurveyService,
	submissionService *services.SubmissionService,
	resultsService *services.ResultsService,
	exportService *services.ExportService,
) *ResponseHandler {
	return &ResponseHandler{
		surveyService:     surveyService,
		submissionService: submissionService,
		resultsService:    resultsService,
		exportService:     exportService,
	}
}

// GetForm returns the field specs the response form needs: one spec per
// question, with scoped input keys and the question's own choice set.
func (h *ResponseHandler) GetForm(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	survey, err := h.surveyService.GetSurveyDetail(c.Request.Context(), surveyID, currentUser(c))
	if err != nil {
		renderServiceError(c, err)
		return
	}

	specs := make([]*services.FieldSpec, 0, len(survey.Questions))
	for i := range survey.Questions {
		spec, err := services.BuildField(&survey.Questions[i])
		if err != nil {
			renderServiceError(c, err)
			return
		}
		specs = append(specs, spec)
	}
	c.JSON(http.StatusOK, gin.H{"survey": survey, "fields": specs})
}

// Submit accepts a form-encoded submission where every field key is scoped
// as "<questionID>-<field>". All questions are validated before anything is
// stored; a failed submission reports every field error at once.
func (h *ResponseHandler) Submit(c *gin.Context) {
	surveyID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return
	}

	err := h.submissionService.Submit(c.Request.Context(), surveyID, currentUser(c), c.ClientIP(), c.Request.PostForm)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "thank you for your response"})
}

// GetResults returns the per-question aggregates. Creator only.
func (h *ResponseHandler) GetResults(c *gin.Context) {
	survey, ok := h.creatorSurvey(c)
	if !ok {
		return
	}

	views, err := h.resultsService.Aggregate(c.Request.Context(), survey.ID)
	if err != nil {
		renderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"survey": survey, "results": views})
}

// Export streams the aggregated results as a PDF attachment. Creator only.
func (h *ResponseHandler) Export(c *gin.Context) {
	survey, ok := h.creatorSurvey(c)
	if !ok {
		return
	}

	views, err := h.resultsService.Aggregate(c.Request.Context(), survey.ID)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	pdf, err := h.exportService.RenderPDF(survey.Title, views)
	if err != nil {
		renderServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.exportService.Filename(survey.Title)))
	c.Data(http.StatusOK, services.ExportContentType, pdf)
}

func (h *ResponseHandler) creatorSurvey(c *gin.Context) (*models.Survey, bool) {
	surveyID, idOK := parseID(c, "id")
	if !idOK {
		return nil, false
	}

	user := currentUser(c)
	s, err := h.surveyService.GetSurveyDetail(c.Request.Context(), surveyID, user)
	if err != nil {
		renderServiceError(c, err)
		return nil, false
	}
	if !s.IsCreator(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the survey creator can view results"})
		return nil, false
	}
	return s, true
}
