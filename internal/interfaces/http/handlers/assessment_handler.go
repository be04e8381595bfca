package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/diabrisk/internal/application/dto"
	"github.com/turtacn/diabrisk/internal/application/service"
	"github.com/turtacn/diabrisk/pkg/errors"
	"github.com/turtacn/diabrisk/pkg/logger"
)

// AssessmentHandler serves the assessment API.
type AssessmentHandler struct {
	svc service.AssessmentAppService
	log logger.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler.
func NewAssessmentHandler(svc service.AssessmentAppService, log logger.Logger) *AssessmentHandler {
	return &AssessmentHandler{svc: svc, log: log.WithComponent("AssessmentHandler")}
}

// Evaluate godoc
// @Summary      Run an assessment
// @Tags         assessment
// @Accept       json
// @Produce      json
// @Param        request  body      dto.EvaluateRequest  true  "Answers and body measurements"
// @Success      200      {object}  dto.EvaluateResponse
// @Failure      400      {object}  dto.APIResponse
// @Failure      503      {object}  dto.APIResponse
// @Router       /api/evaluate [post]
func (h *AssessmentHandler) Evaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest("request body must be a JSON object with answers, height and weight").WithCause(err))
		return
	}
	if len(req.Answers) == 0 {
		respondError(c, errors.ErrValidation("No answers provided"))
		return
	}

	resp, err := h.svc.Evaluate(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History godoc
// @Summary      List recent assessments, most recent first
// @Tags         assessment
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of records"
// @Success      200    {object}  dto.HistoryResponse
// @Router       /api/history [get]
func (h *AssessmentHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(c, errors.ErrInvalidRequest("limit must be a non-negative integer").WithMetadata("limit", raw))
			return
		}
		limit = n
	}

	resp, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Stats godoc
// @Summary      Population statistics
// @Tags         assessment
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/stats [get]
func (h *AssessmentHandler) Stats(c *gin.Context) {
	resp, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Questions godoc
// @Summary      Questionnaire catalogue
// @Tags         assessment
// @Produce      json
// @Success      200  {object}  dto.QuestionsResponse
// @Router       /api/questions [get]
func (h *AssessmentHandler) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Questions())
}
