package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"resume-persona/internal/domain"
)

type ProfileRepository interface {
	// CreateCompleted escribe perfil y rasgos por fuente en una sola transaccion.
	CreateCompleted(ctx context.Context, profile domain.PersonalityProfile) error
	GetLatestCompleted(ctx context.Context, userID string) (domain.PersonalityProfile, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) CreateCompleted(ctx context.Context, profile domain.PersonalityProfile) error {
	if !profile.Completed || profile.CompletedAt == nil {
		return fmt.Errorf("profile %s is not completed", profile.ID)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertProfile(ctx, tx, profile); err != nil {
			return fmt.Errorf("insert profile: %w", err)
		}
		traits := NewPgTraitRepository(tx)
		for _, row := range profileTraitRows(profile) {
			if err := traits.Upsert(ctx, row); err != nil {
				return fmt.Errorf("insert %s trait %s: %w", row.Category, row.Trait, err)
			}
		}
		return nil
	})
}

func insertProfile(ctx context.Context, db DBTX, p domain.PersonalityProfile) error {
	const query = `
		INSERT INTO personality_profiles (
			id, user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			narrative_source, confidence, work_style, communication_style, leadership_style,
			motivation_type, decision_making, summary, key_insights, likert_weight, narrative_weight,
			methodology_version, completed, completed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err := db.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Scores.Openness,
		p.Scores.Conscientiousness,
		p.Scores.Extraversion,
		p.Scores.Agreeableness,
		p.Scores.Neuroticism,
		p.NarrativeSource,
		p.Confidence,
		p.Derived.WorkStyle,
		p.Derived.CommunicationStyle,
		p.Derived.LeadershipStyle,
		p.Derived.MotivationType,
		p.Derived.DecisionMaking,
		p.Summary,
		nonNilStrings(p.KeyInsights),
		p.Weights.Likert,
		p.Weights.Narrative,
		p.MethodologyVersion,
		p.Completed,
		p.CompletedAt,
		p.CreatedAt,
	)
	return err
}

// profileTraitRows arma 15 filas: LIKERT, NARRATIVE y FUSED por cada rasgo.
func profileTraitRows(p domain.PersonalityProfile) []domain.TraitScore {
	now := p.CreatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	fusedConfidence := p.Confidence
	rows := make([]domain.TraitScore, 0, 3*len(domain.Traits))
	for _, t := range domain.Traits {
		nc := p.NarrativeConf
		rows = append(rows,
			domain.TraitScore{
				ID: uuid.NewString(), ProfileID: p.ID, Category: domain.TraitCategoryLikert, Trait: t,
				Value: int(math.Round(domain.ClampScore(p.LikertScores.Get(t)))), CreatedAt: now, UpdatedAt: now,
			},
			domain.TraitScore{
				ID: uuid.NewString(), ProfileID: p.ID, Category: domain.TraitCategoryNarrative, Trait: t,
				Value: int(math.Round(domain.ClampScore(p.NarrativeScores.Get(t)))), Confidence: &nc, CreatedAt: now, UpdatedAt: now,
			},
			domain.TraitScore{
				ID: uuid.NewString(), ProfileID: p.ID, Category: domain.TraitCategoryFused, Trait: t,
				Value: p.Scores.Get(t), Confidence: &fusedConfidence, CreatedAt: now, UpdatedAt: now,
			},
		)
	}
	return rows
}

func (r *PgProfileRepository) GetLatestCompleted(ctx context.Context, userID string) (domain.PersonalityProfile, error) {
	const query = `
		SELECT id, user_id, openness, conscientiousness, extraversion, agreeableness, neuroticism,
			narrative_source, confidence, work_style, communication_style, leadership_style,
			motivation_type, decision_making, summary, key_insights, likert_weight, narrative_weight,
			methodology_version, completed, completed_at, created_at
		FROM personality_profiles
		WHERE user_id = $1 AND completed
		ORDER BY completed_at DESC
		LIMIT 1
	`
	var p domain.PersonalityProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Scores.Openness,
		&p.Scores.Conscientiousness,
		&p.Scores.Extraversion,
		&p.Scores.Agreeableness,
		&p.Scores.Neuroticism,
		&p.NarrativeSource,
		&p.Confidence,
		&p.Derived.WorkStyle,
		&p.Derived.CommunicationStyle,
		&p.Derived.LeadershipStyle,
		&p.Derived.MotivationType,
		&p.Derived.DecisionMaking,
		&p.Summary,
		&p.KeyInsights,
		&p.Weights.Likert,
		&p.Weights.Narrative,
		&p.MethodologyVersion,
		&p.Completed,
		&p.CompletedAt,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PersonalityProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.PersonalityProfile{}, err
	}

	traits, err := NewPgTraitRepository(r.pool).FindByProfileID(ctx, p.ID)
	if err != nil {
		return domain.PersonalityProfile{}, fmt.Errorf("load traits for profile %s: %w", p.ID, err)
	}
	applyTraitRows(&p, traits)
	return p, nil
}

func applyTraitRows(p *domain.PersonalityProfile, traits []domain.TraitScore) {
	for _, t := range traits {
		switch t.Category {
		case domain.TraitCategoryLikert:
			p.LikertScores.Set(t.Trait, float64(t.Value))
		case domain.TraitCategoryNarrative:
			p.NarrativeScores.Set(t.Trait, float64(t.Value))
			if t.Confidence != nil {
				p.NarrativeConf = *t.Confidence
			}
		}
	}
}
