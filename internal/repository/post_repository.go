package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// PostFilter narrows post listings.
type PostFilter struct {
	Category      *domain.PostCategory
	PublishedOnly bool
	Search        string
	Limit         int
	Offset        int
}

// PostRepository manages jobs, admit cards, results and news.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, filter PostFilter) ([]domain.Post, error)
}

type postRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository builds the repository.
func NewPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postRepository{pool: pool}
}

const postColumns = `id, category, title, slug, summary, body, body_html, organization, apply_url, last_date, published, created_by, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	const query = `
        INSERT INTO posts (category, title, slug, summary, body, body_html, organization, apply_url, last_date, published, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		post.Category,
		post.Title,
		post.Slug,
		post.Summary,
		post.Body,
		post.BodyHTML,
		post.Organization,
		post.ApplyURL,
		post.LastDate,
		post.Published,
		post.CreatedBy,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	return translateWriteError(err)
}

func (r *postRepository) Update(ctx context.Context, post *domain.Post) error {
	const query = `
        UPDATE posts SET category=$1, title=$2, slug=$3, summary=$4, body=$5, body_html=$6, organization=$7,
            apply_url=$8, last_date=$9, published=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		post.Category,
		post.Title,
		post.Slug,
		post.Summary,
		post.Body,
		post.BodyHTML,
		post.Organization,
		post.ApplyURL,
		post.LastDate,
		post.Published,
		post.ID,
	).Scan(&post.UpdatedAt)
	return translateWriteError(err)
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id=$1`, id)
	return scanPost(row)
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug=$1`, slug)
	return scanPost(row)
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]domain.Post, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.PublishedOnly {
		clauses = append(clauses, "published = TRUE")
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, containsPattern(term))
		clauses = append(clauses, fmt.Sprintf(`(title ILIKE $%d ESCAPE '\' OR organization ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *post)
	}
	return result, rows.Err()
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	if err := row.Scan(
		&post.ID,
		&post.Category,
		&post.Title,
		&post.Slug,
		&post.Summary,
		&post.Body,
		&post.BodyHTML,
		&post.Organization,
		&post.ApplyURL,
		&post.LastDate,
		&post.Published,
		&post.CreatedBy,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching term literally anywhere.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
