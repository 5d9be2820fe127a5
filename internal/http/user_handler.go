package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/repository"
)

// defaultResumeLimit coincide con el valor por defecto de la columna users.resume_limit.
const defaultResumeLimit = 3

type userStore interface {
	Create(ctx context.Context, user domain.User) error
}

type tokenIssuer interface {
	IssueAccessToken(user domain.User) (string, error)
}

type quotaService interface {
	ReserveResume(ctx context.Context, userID string) error
}

// UserHandler mantiene dependencias para endpoints de usuarios y cuotas.
type UserHandler struct {
	logger *zap.Logger
	users  userStore
	tokens tokenIssuer
	quota  quotaService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, users userStore, tokens tokenIssuer, quota quotaService) *UserHandler {
	return &UserHandler{logger: logger, users: users, tokens: tokens, quota: quota}
}

// CreateUser maneja POST /users y devuelve un access token para el nuevo usuario.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		DisplayName string `json:"display_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user := domain.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName: strings.TrimSpace(req.DisplayName),
		ResumeLimit: defaultResumeLimit,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	token, err := h.tokens.IssueAccessToken(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "access_token": token})
}

// ReserveResume maneja POST /quota/resume: consume una generacion si queda cuota.
func (h *UserHandler) ReserveResume(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if err := h.quota.ReserveResume(c.Request.Context(), userID); err != nil {
		writeServiceError(c, h.logger, "reserve resume", err)
		return
	}
	c.Status(http.StatusNoContent)
}
