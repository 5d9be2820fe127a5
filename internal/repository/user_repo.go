package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"resume-persona/internal/domain"
)

var (
	// ErrUserNotFound se devuelve cuando el id no existe.
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const uniqueViolation = "23505"

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	IncrementResumesGenerated(ctx context.Context, id string) error
	TryReserveResume(ctx context.Context, id string) (domain.User, bool, error)
}

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	db DBTX
}

func NewPgUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, display_name, resumes_generated, resume_limit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.ResumesGenerated,
		user.ResumeLimit,
		user.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
		SELECT id, email, display_name, resumes_generated, resume_limit, created_at
		FROM users
		WHERE id = $1
	`
	var u domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.ResumesGenerated,
		&u.ResumeLimit,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *PgUserRepository) IncrementResumesGenerated(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET resumes_generated = resumes_generated + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TryReserveResume suma una generacion solo si queda cuota, en una sola
// sentencia. Devuelve el usuario y si la reserva se concreto.
func (r *PgUserRepository) TryReserveResume(ctx context.Context, id string) (domain.User, bool, error) {
	const query = `
		UPDATE users
		SET resumes_generated = resumes_generated + 1
		WHERE id = $1 AND resumes_generated < resume_limit
		RETURNING id, email, display_name, resumes_generated, resume_limit, created_at
	`
	var u domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Email,
		&u.DisplayName,
		&u.ResumesGenerated,
		&u.ResumeLimit,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// sin fila actualizada: o no existe o no le queda cuota
		current, gerr := r.GetByID(ctx, id)
		return current, false, gerr
	}
	if err != nil {
		return domain.User{}, false, err
	}
	return u, true, nil
}
