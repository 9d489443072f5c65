package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// QuizRepository manages quizzes and their attempts.
type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	Update(ctx context.Context, quiz *domain.Quiz) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Quiz, error)
	List(ctx context.Context, publishedOnly bool) ([]domain.Quiz, error)
	CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error
	ListAttempts(ctx context.Context, quizID string) ([]domain.QuizAttempt, error)
}

type quizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository builds the repository.
func NewQuizRepository(pool *pgxpool.Pool) QuizRepository {
	return &quizRepository{pool: pool}
}

const quizColumns = `id, title, description, questions, published, created_by, created_at, updated_at`

func (r *quizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	const query = `
        INSERT INTO quizzes (title, description, questions, published, created_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		quiz.Title,
		quiz.Description,
		quiz.Questions,
		quiz.Published,
		quiz.CreatedBy,
	).Scan(&quiz.ID, &quiz.CreatedAt, &quiz.UpdatedAt)
}

func (r *quizRepository) Update(ctx context.Context, quiz *domain.Quiz) error {
	const query = `
        UPDATE quizzes SET title=$1, description=$2, questions=$3, published=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		quiz.Title,
		quiz.Description,
		quiz.Questions,
		quiz.Published,
		quiz.ID,
	).Scan(&quiz.UpdatedAt)
}

func (r *quizRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *quizRepository) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var quiz domain.Quiz
	if err := r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id=$1`, id).Scan(
		&quiz.ID,
		&quiz.Title,
		&quiz.Description,
		&quiz.Questions,
		&quiz.Published,
		&quiz.CreatedBy,
		&quiz.CreatedAt,
		&quiz.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) List(ctx context.Context, publishedOnly bool) ([]domain.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes`
	if publishedOnly {
		query += ` WHERE published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Quiz
	for rows.Next() {
		var quiz domain.Quiz
		if err := rows.Scan(
			&quiz.ID,
			&quiz.Title,
			&quiz.Description,
			&quiz.Questions,
			&quiz.Published,
			&quiz.CreatedBy,
			&quiz.CreatedAt,
			&quiz.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, quiz)
	}
	return result, rows.Err()
}

func (r *quizRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	const query = `
        INSERT INTO quiz_attempts (quiz_id, name, answers, score, total)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, submitted_at`
	return r.pool.QueryRow(ctx, query,
		attempt.QuizID,
		attempt.Name,
		attempt.Answers,
		attempt.Score,
		attempt.Total,
	).Scan(&attempt.ID, &attempt.SubmittedAt)
}

func (r *quizRepository) ListAttempts(ctx context.Context, quizID string) ([]domain.QuizAttempt, error) {
	const query = `
        SELECT id, quiz_id, name, answers, score, total, submitted_at
        FROM quiz_attempts WHERE quiz_id=$1
        ORDER BY submitted_at DESC`
	rows, err := r.pool.Query(ctx, query, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.QuizAttempt
	for rows.Next() {
		var attempt domain.QuizAttempt
		if err := rows.Scan(
			&attempt.ID,
			&attempt.QuizID,
			&attempt.Name,
			&attempt.Answers,
			&attempt.Score,
			&attempt.Total,
			&attempt.SubmittedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attempt)
	}
	return result, rows.Err()
}
