package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/service"
)

const (
	defaultRetrieveCount = 5
	maxRetrieveCount     = 20
	enrichTimeout        = 2 * time.Minute
)

type storyService interface {
	CreateStory(ctx context.Context, userID, promptType, promptText, text string) (domain.Story, error)
	EnrichStory(ctx context.Context, storyID string) (domain.Story, error)
	ListStories(ctx context.Context, userID string) ([]domain.Story, error)
	OwnedStory(ctx context.Context, userID, storyID string) (domain.Story, error)
}

type storyEmbedder interface {
	EmbedMissing(ctx context.Context, userID string, limit int) (service.EmbedReport, error)
}

type storyRetriever interface {
	RetrieveForResume(ctx context.Context, userID, jobDescription string, count int) []domain.StoryMatch
	RetrieveForCoverLetter(ctx context.Context, userID, companyInfo string, count int) []domain.StoryMatch
}

type usageRecorder interface {
	RecordUsage(ctx context.Context, storyID string, kind domain.UsageKind)
}

// StoryHandler expone historias, su embedding y la recuperacion semantica.
type StoryHandler struct {
	logger    *zap.Logger
	stories   storyService
	embedder  storyEmbedder
	retriever storyRetriever
	usage     usageRecorder
}

func NewStoryHandler(
	logger *zap.Logger,
	stories storyService,
	embedder storyEmbedder,
	retriever storyRetriever,
	usage usageRecorder,
) *StoryHandler {
	return &StoryHandler{
		logger:    logger,
		stories:   stories,
		embedder:  embedder,
		retriever: retriever,
		usage:     usage,
	}
}

// CreateStory maneja POST /stories.
func (h *StoryHandler) CreateStory(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		PromptType string `json:"prompt_type" binding:"required"`
		PromptText string `json:"prompt_text"`
		Text       string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create story request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	story, err := h.stories.CreateStory(c.Request.Context(), userID, req.PromptType, req.PromptText, req.Text)
	if err != nil {
		writeServiceError(c, h.logger, "create story", err)
		return
	}

	// El analisis y el embedding corren en segundo plano para no bloquear al usuario.
	go func(storyID string) {
		ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
		defer cancel()
		if _, err := h.stories.EnrichStory(ctx, storyID); err != nil {
			h.logger.Warn("story enrichment incomplete", zap.String("story_id", storyID), zap.Error(err))
			return
		}
		h.logger.Info("story enrichment finished", zap.String("story_id", storyID))
	}(story.ID)

	c.JSON(http.StatusCreated, gin.H{"story": story})
}

// ListStories maneja GET /stories.
func (h *StoryHandler) ListStories(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	stories, err := h.stories.ListStories(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "list stories", err)
		return
	}
	if stories == nil {
		stories = []domain.Story{}
	}
	c.JSON(http.StatusOK, gin.H{"stories": stories})
}

// EmbedStories maneja POST /stories/embed.
func (h *StoryHandler) EmbedStories(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	report, err := h.embedder.EmbedMissing(c.Request.Context(), userID, 0)
	if err != nil {
		writeServiceError(c, h.logger, "embed stories", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

// Una consulta vacia llega al servicio, que responde con una lista vacia.
type retrieveRequest struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

func (r retrieveRequest) count() int {
	switch {
	case r.Count <= 0:
		return defaultRetrieveCount
	case r.Count > maxRetrieveCount:
		return maxRetrieveCount
	}
	return r.Count
}

// RetrieveForResume maneja POST /stories/retrieve/resume.
func (h *StoryHandler) RetrieveForResume(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	matches := h.retriever.RetrieveForResume(c.Request.Context(), userID, req.Query, req.count())
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// RetrieveForCoverLetter maneja POST /stories/retrieve/cover-letter.
func (h *StoryHandler) RetrieveForCoverLetter(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req retrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	matches := h.retriever.RetrieveForCoverLetter(c.Request.Context(), userID, req.Query, req.count())
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// RecordUsage maneja POST /stories/:id/usage.
func (h *StoryHandler) RecordUsage(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req struct {
		Kind string `json:"kind" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	kind, err := domain.ParseUsageKind(req.Kind)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	story, err := h.stories.OwnedStory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeServiceError(c, h.logger, "record usage", err)
		return
	}
	h.usage.RecordUsage(c.Request.Context(), story.ID, kind)
	c.Status(http.StatusNoContent)
}
