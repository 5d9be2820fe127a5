package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/service"
)

type assessmentService interface {
	CompleteAssessment(ctx context.Context, userID string, req service.AssessmentRequest) (domain.PersonalityProfile, error)
	LatestProfile(ctx context.Context, userID string) (domain.PersonalityProfile, error)
}

// AssessmentHandler expone el ciclo de evaluacion de personalidad.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments assessmentService
}

func NewAssessmentHandler(logger *zap.Logger, assessments assessmentService) *AssessmentHandler {
	return &AssessmentHandler{logger: logger, assessments: assessments}
}

// SubmitAssessment maneja POST /assessment.
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Responses domain.AssessmentResponse `json:"responses" binding:"required"`
		StoryIDs  []string                  `json:"story_ids"`
		Weights   *domain.FusionWeights     `json:"weights"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.assessments.CompleteAssessment(c.Request.Context(), userID, service.AssessmentRequest{
		Responses: req.Responses,
		StoryIDs:  req.StoryIDs,
		Weights:   req.Weights,
	})
	if err != nil {
		writeServiceError(c, h.logger, "complete assessment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile})
}

// GetProfile maneja GET /assessment/profile.
func (h *AssessmentHandler) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	profile, err := h.assessments.LatestProfile(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// ListItems maneja GET /assessment/items.
func (h *AssessmentHandler) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": domain.Instrument,
		"scale": gin.H{"min": domain.LikertMin, "max": domain.LikertMax},
	})
}
