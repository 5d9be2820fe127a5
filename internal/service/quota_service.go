package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"resume-persona/internal/domain"
	"resume-persona/internal/repository"
)

// QuotaService controla el limite de CVs generados por usuario.
type QuotaService struct {
	userRepo repository.UserRepository
	logger   *zap.Logger
}

func NewQuotaService(userRepo repository.UserRepository, logger *zap.Logger) *QuotaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotaService{userRepo: userRepo, logger: logger}
}

// CheckResumeQuota rechaza cuando resumes_generated >= resume_limit.
// La comparacion se mantiene literal: un limite negativo tambien rechaza.
func (s *QuotaService) CheckResumeQuota(ctx context.Context, userID string) error {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user %s: %w", userID, err)
	}
	if u.ResumesGenerated >= u.ResumeLimit {
		s.logger.Info("resume quota exceeded",
			zap.String("user_id", userID),
			zap.Int("generated", u.ResumesGenerated),
			zap.Int("limit", u.ResumeLimit),
		)
		return fmt.Errorf("%w: %d of %d used", domain.ErrQuotaExceeded, u.ResumesGenerated, u.ResumeLimit)
	}
	return nil
}

// ReserveResume consume una generacion de forma atomica. Dos pedidos
// concurrentes nunca superan el limite.
func (s *QuotaService) ReserveResume(ctx context.Context, userID string) error {
	u, reserved, err := s.userRepo.TryReserveResume(ctx, userID)
	if err != nil {
		return fmt.Errorf("reserve resume for %s: %w", userID, err)
	}
	if !reserved {
		s.logger.Info("resume quota exceeded",
			zap.String("user_id", userID),
			zap.Int("generated", u.ResumesGenerated),
			zap.Int("limit", u.ResumeLimit),
		)
		return fmt.Errorf("%w: %d of %d used", domain.ErrQuotaExceeded, u.ResumesGenerated, u.ResumeLimit)
	}
	return nil
}

// RecordResumeGenerated incrementa el contador tras una generacion exitosa.
func (s *QuotaService) RecordResumeGenerated(ctx context.Context, userID string) error {
	return s.userRepo.IncrementResumesGenerated(ctx, userID)
}
