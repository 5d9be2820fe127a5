package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"

	"resume-persona/internal/domain"
)

// StorySearch acota la busqueda por similitud. Los filtros vacios no filtran.
type StorySearch struct {
	PromptTypes []string
	Categories  []string
	Limit       int
}

type StoryRepository interface {
	Create(ctx context.Context, story domain.Story) error
	GetByID(ctx context.Context, id string) (domain.Story, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Story, error)
	ListByIDs(ctx context.Context, userID string, ids []string) ([]domain.Story, error)
	ListMissingEmbedding(ctx context.Context, userID string, limit int) ([]domain.Story, error)
	UpdateAnalysis(ctx context.Context, story domain.Story) error
	UpdateEmbedding(ctx context.Context, id string, embedding pgvector.Vector, version time.Time) error
	SearchByEmbedding(ctx context.Context, userID string, query pgvector.Vector, search StorySearch) ([]domain.Story, error)
	IncrementUsage(ctx context.Context, id string, kind domain.UsageKind) error
}

type PgStoryRepository struct {
	db DBTX
}

func NewPgStoryRepository(db DBTX) *PgStoryRepository {
	return &PgStoryRepository{db: db}
}

const storyColumns = `id, user_id, prompt_type, prompt_text, category, text, summary, themes, skills, signal, embedding, times_used_in_resumes, times_used_in_cover_letters, created_at, updated_at`

func (r *PgStoryRepository) Create(ctx context.Context, story domain.Story) error {
	signal, err := marshalSignal(story.Signal)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO stories (` + storyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = r.db.Exec(ctx, query,
		story.ID,
		story.UserID,
		story.PromptType,
		story.PromptText,
		story.Category,
		story.Text,
		story.Summary,
		nonNilStrings(story.Themes),
		nonNilStrings(story.Skills),
		signal,
		story.Embedding,
		story.TimesUsedInResumes,
		story.TimesUsedInCoverLetters,
		story.CreatedAt,
		story.UpdatedAt,
	)
	return err
}

func (r *PgStoryRepository) GetByID(ctx context.Context, id string) (domain.Story, error) {
	rows, err := r.db.Query(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1`, id)
	if err != nil {
		return domain.Story{}, err
	}
	defer rows.Close()

	stories, err := scanStories(rows)
	if err != nil {
		return domain.Story{}, err
	}
	if len(stories) == 0 {
		return domain.Story{}, domain.ErrStoryNotFound
	}
	return stories[0], nil
}

func (r *PgStoryRepository) ListByUser(ctx context.Context, userID string) ([]domain.Story, error) {
	rows, err := r.db.Query(ctx, `SELECT `+storyColumns+` FROM stories WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStories(rows)
}

// ListByIDs solo devuelve historias del usuario; ids ajenos se ignoran.
func (r *PgStoryRepository) ListByIDs(ctx context.Context, userID string, ids []string) ([]domain.Story, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT ` + storyColumns + ` FROM stories WHERE user_id = $1 AND id::text = ANY($2::text[]) ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStories(rows)
}

// ListMissingEmbedding lista historias ya analizadas que no tienen vector.
// Las que aun esperan analisis quedan para el enriquecimiento. userID vacio
// recorre todos los usuarios.
func (r *PgStoryRepository) ListMissingEmbedding(ctx context.Context, userID string, limit int) ([]domain.Story, error) {
	if limit <= 0 {
		limit = 500
	}
	const query = `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE embedding IS NULL
		  AND signal IS NOT NULL
		  AND ($1 = '' OR user_id::text = $1)
		ORDER BY created_at
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStories(rows)
}

// UpdateAnalysis reescribe resumen, temas, habilidades y senal. El embedding
// queda en NULL porque el texto a vectorizar cambio. story.UpdatedAt pasa a ser
// la nueva version de la fila.
func (r *PgStoryRepository) UpdateAnalysis(ctx context.Context, story domain.Story) error {
	signal, err := marshalSignal(story.Signal)
	if err != nil {
		return err
	}
	const query = `
		UPDATE stories
		SET summary = $2, category = $3, themes = $4, skills = $5, signal = $6, embedding = NULL, updated_at = $7
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		story.ID,
		story.Summary,
		story.Category,
		nonNilStrings(story.Themes),
		nonNilStrings(story.Skills),
		signal,
		story.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoryNotFound
	}
	return nil
}

// UpdateEmbedding guarda el vector solo si la fila sigue en la version leida
// (updated_at). Si otro escritor la cambio devuelve domain.ErrStoryChanged.
func (r *PgStoryRepository) UpdateEmbedding(ctx context.Context, id string, embedding pgvector.Vector, version time.Time) error {
	if err := checkVector(embedding); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE stories SET embedding = $2 WHERE id = $1 AND updated_at = $3`, id, embedding, version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoryChanged
	}
	return nil
}

// SearchByEmbedding devuelve candidatos del usuario ordenados por distancia
// coseno. Los filtros se aplican antes del ranking.
func (r *PgStoryRepository) SearchByEmbedding(ctx context.Context, userID string, query pgvector.Vector, search StorySearch) ([]domain.Story, error) {
	if err := checkVector(query); err != nil {
		return nil, err
	}
	limit := search.Limit
	if limit <= 0 {
		limit = 50
	}
	var promptTypes, categories []string
	if len(search.PromptTypes) > 0 {
		promptTypes = search.PromptTypes
	}
	if len(search.Categories) > 0 {
		categories = search.Categories
	}
	const sql = `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE user_id = $1
		  AND embedding IS NOT NULL
		  AND ($3::text[] IS NULL OR prompt_type = ANY($3))
		  AND ($4::text[] IS NULL OR category = ANY($4))
		ORDER BY embedding <=> $2
		LIMIT $5
	`
	rows, err := r.db.Query(ctx, sql, userID, query, promptTypes, categories, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStories(rows)
}

// IncrementUsage suma uno al contador correspondiente; nunca decrementa.
func (r *PgStoryRepository) IncrementUsage(ctx context.Context, id string, kind domain.UsageKind) error {
	var query string
	switch kind {
	case domain.UsageResume:
		query = `UPDATE stories SET times_used_in_resumes = times_used_in_resumes + 1 WHERE id = $1`
	case domain.UsageCoverLetter:
		query = `UPDATE stories SET times_used_in_cover_letters = times_used_in_cover_letters + 1 WHERE id = $1`
	default:
		return fmt.Errorf("unknown usage kind %q", kind)
	}
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoryNotFound
	}
	return nil
}

func scanStories(rows pgxRows) ([]domain.Story, error) {
	var stories []domain.Story
	for rows.Next() {
		var s domain.Story
		var signal []byte
		var embedding *pgvector.Vector
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.PromptType,
			&s.PromptText,
			&s.Category,
			&s.Text,
			&s.Summary,
			&s.Themes,
			&s.Skills,
			&signal,
			&embedding,
			&s.TimesUsedInResumes,
			&s.TimesUsedInCoverLetters,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if len(signal) > 0 {
			var ns domain.NarrativeSignal
			if err := json.Unmarshal(signal, &ns); err != nil {
				return nil, fmt.Errorf("decode signal for story %s: %w", s.ID, err)
			}
			s.Signal = &ns
		}
		s.Embedding = embedding
		stories = append(stories, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stories, nil
}

func marshalSignal(signal *domain.NarrativeSignal) ([]byte, error) {
	if signal == nil {
		return nil, nil
	}
	b, err := json.Marshal(signal)
	if err != nil {
		return nil, fmt.Errorf("encode signal: %w", err)
	}
	return b, nil
}

func checkVector(v pgvector.Vector) error {
	if n := len(v.Slice()); n != domain.EmbeddingDimensions {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrEmbeddingDimensionMismatch, n, domain.EmbeddingDimensions)
	}
	return nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// IsNotFound unifica pgx.ErrNoRows con los sentinelas de dominio.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) ||
		errors.Is(err, domain.ErrStoryNotFound) ||
		errors.Is(err, domain.ErrProfileNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
