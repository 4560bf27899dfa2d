// Package storage provides the PostgreSQL repositories backing the
// newsletter and email list services.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lettergen/lettergen/internal/newsletter"
)

const newsletterColumns = `id, user_id, title, content, status, template_style, citations, recipients, sent_at, created_at, updated_at`

// NewsletterRepository implements newsletter.Store over a pgx pool.
type NewsletterRepository struct {
	pool *pgxpool.Pool
}

// NewNewsletterRepository constructs the repository.
func NewNewsletterRepository(pool *pgxpool.Pool) *NewsletterRepository {
	return &NewsletterRepository{pool: pool}
}

// Create inserts a draft newsletter and returns the stored row.
func (r *NewsletterRepository) Create(ctx context.Context, params newsletter.CreateParams) (*newsletter.Newsletter, error) {
	query := `
		INSERT INTO newsletters (user_id, title, content, status, template_style, citations, recipients)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + newsletterColumns
	row := r.pool.QueryRow(ctx, query,
		params.OwnerID,
		params.Title,
		params.Content,
		newsletter.StatusDraft,
		params.TemplateStyle,
		emptyIfNil(params.Citations),
		[]string{},
	)
	return scanNewsletter(row)
}

// Get returns one newsletter by id.
func (r *NewsletterRepository) Get(ctx context.Context, id uuid.UUID) (*newsletter.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + ` FROM newsletters WHERE id = $1`
	n, err := scanNewsletter(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, newsletter.ErrNotFound
	}
	return n, err
}

// ListByOwner returns the owner's newsletters, newest first.
func (r *NewsletterRepository) ListByOwner(ctx context.Context, ownerID string) ([]newsletter.Newsletter, error) {
	query := `SELECT ` + newsletterColumns + ` FROM newsletters WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("storage: listing newsletters: %w", err)
	}
	defer rows.Close()

	result := []newsletter.Newsletter{}
	for rows.Next() {
		n, err := scanNewsletter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

// Update applies the present patch fields and refreshes updated_at.
func (r *NewsletterRepository) Update(ctx context.Context, id uuid.UUID, patch newsletter.Patch) (*newsletter.Newsletter, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	addSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Content != nil {
		addSet("content", *patch.Content)
	}
	if patch.Citations != nil {
		addSet("citations", *patch.Citations)
	}
	if patch.Recipients != nil {
		addSet("recipients", *patch.Recipients)
	}
	if patch.TemplateStyle != nil {
		addSet("template_style", *patch.TemplateStyle)
	}

	query := fmt.Sprintf(`UPDATE newsletters SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), newsletterColumns)
	n, err := scanNewsletter(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, newsletter.ErrNotFound
	}
	return n, err
}

// MarkSent performs the draft-to-sent transition: status, recipients and
// sent_at change together in one statement, never partially.
func (r *NewsletterRepository) MarkSent(ctx context.Context, id uuid.UUID, recipients []string, sentAt time.Time) (*newsletter.Newsletter, error) {
	query := `
		UPDATE newsletters
		SET status = $2, recipients = $3, sent_at = $4, updated_at = now()
		WHERE id = $1
		RETURNING ` + newsletterColumns
	n, err := scanNewsletter(r.pool.QueryRow(ctx, query, id, newsletter.StatusSent, recipients, sentAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, newsletter.ErrNotFound
	}
	return n, err
}

// Delete removes the newsletter. Missing rows report ErrNotFound.
func (r *NewsletterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM newsletters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("storage: deleting newsletter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return newsletter.ErrNotFound
	}
	return nil
}

func scanNewsletter(row pgx.Row) (*newsletter.Newsletter, error) {
	var n newsletter.Newsletter
	err := row.Scan(
		&n.ID,
		&n.OwnerID,
		&n.Title,
		&n.Content,
		&n.Status,
		&n.TemplateStyle,
		&n.Citations,
		&n.Recipients,
		&n.SentAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("storage: scanning newsletter: %w", err)
	}
	return &n, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
