package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/repository"
	"resume-persona/internal/service"
)

// writeServiceError traduce errores de dominio a codigos HTTP.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var incomplete *domain.IncompleteAssessmentError
	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "assessment incomplete",
			"section":       incomplete.Section,
			"missing_items": incomplete.MissingItems,
			"invalid_items": incomplete.InvalidItems,
			"traits":        incomplete.Traits,
		})
	case errors.Is(err, domain.ErrInvalidFusionWeights),
		errors.Is(err, service.ErrAssessmentInvalidInput),
		errors.Is(err, service.ErrStoryInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case repository.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrQuotaExceeded):
		c.JSON(http.StatusForbidden, gin.H{"error": "resume quota exceeded"})
	case errors.Is(err, domain.ErrMalformedModelOutput):
		logger.Warn(op+" failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "language model returned an unusable response"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
