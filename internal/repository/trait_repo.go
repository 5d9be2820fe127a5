package repository

import (
	"context"
	"database/sql"

	"resume-persona/internal/domain"
)

type TraitRepository interface {
	Upsert(ctx context.Context, trait domain.TraitScore) error
	FindByProfileID(ctx context.Context, profileID string) ([]domain.TraitScore, error)
}

type PgTraitRepository struct {
	db DBTX
}

func NewPgTraitRepository(db DBTX) *PgTraitRepository {
	return &PgTraitRepository{db: db}
}

func (r *PgTraitRepository) Upsert(ctx context.Context, trait domain.TraitScore) error {
	const query = `
		INSERT INTO traits (id, profile_id, category, trait, value, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (profile_id, category, trait)
		DO UPDATE SET
			value = EXCLUDED.value,
			confidence = EXCLUDED.confidence,
			updated_at = EXCLUDED.updated_at
	`

	var confidence interface{}
	if trait.Confidence != nil {
		confidence = *trait.Confidence
	}

	_, err := r.db.Exec(ctx, query,
		trait.ID,
		trait.ProfileID,
		trait.Category,
		string(trait.Trait),
		trait.Value,
		confidence,
		trait.CreatedAt,
		trait.UpdatedAt,
	)
	return err
}

func (r *PgTraitRepository) FindByProfileID(ctx context.Context, profileID string) ([]domain.TraitScore, error) {
	const query = `
		SELECT id, profile_id, category, trait, value, confidence, created_at, updated_at
		FROM traits
		WHERE profile_id = $1
		ORDER BY category, trait
	`
	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTraits(rows)
}

func scanTraits(rows pgxRows) ([]domain.TraitScore, error) {
	var traits []domain.TraitScore
	for rows.Next() {
		var t domain.TraitScore
		var name string
		var confidence sql.NullFloat64

		if err := rows.Scan(
			&t.ID,
			&t.ProfileID,
			&t.Category,
			&name,
			&t.Value,
			&confidence,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		t.Trait = domain.Trait(name)
		if confidence.Valid {
			val := confidence.Float64
			t.Confidence = &val
		}
		traits = append(traits, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return traits, nil
}
