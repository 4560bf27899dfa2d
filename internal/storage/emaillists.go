package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lettergen/lettergen/internal/emaillist"
)

const emailListColumns = `id, user_id, name, emails, created_at, updated_at`

// EmailListRepository implements emaillist.Store over a pgx pool.
type EmailListRepository struct {
	pool *pgxpool.Pool
}

// NewEmailListRepository constructs the repository.
func NewEmailListRepository(pool *pgxpool.Pool) *EmailListRepository {
	return &EmailListRepository{pool: pool}
}

// Create inserts a list. The unique index on (user_id, lower(name)) turns
// concurrent duplicate creations into ErrDuplicateName.
func (r *EmailListRepository) Create(ctx context.Context, ownerID, name string, emails []string) (*emaillist.EmailList, error) {
	query := `
		INSERT INTO email_lists (user_id, name, emails)
		VALUES ($1, $2, $3)
		RETURNING ` + emailListColumns
	l, err := scanEmailList(r.pool.QueryRow(ctx, query, ownerID, name, emptyIfNil(emails)))
	if isUniqueViolation(err) {
		return nil, emaillist.ErrDuplicateName
	}
	return l, err
}

// Get returns one list by id.
func (r *EmailListRepository) Get(ctx context.Context, id uuid.UUID) (*emaillist.EmailList, error) {
	query := `SELECT ` + emailListColumns + ` FROM email_lists WHERE id = $1`
	l, err := scanEmailList(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, emaillist.ErrNotFound
	}
	return l, err
}

// ListByOwner returns the owner's lists ordered by name.
func (r *EmailListRepository) ListByOwner(ctx context.Context, ownerID string) ([]emaillist.EmailList, error) {
	query := `SELECT ` + emailListColumns + ` FROM email_lists WHERE user_id = $1 ORDER BY lower(name)`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("storage: listing email lists: %w", err)
	}
	defer rows.Close()

	result := []emaillist.EmailList{}
	for rows.Next() {
		l, err := scanEmailList(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *l)
	}
	return result, rows.Err()
}

// GetByName matches case-insensitively within one owner's lists.
func (r *EmailListRepository) GetByName(ctx context.Context, ownerID, name string) (*emaillist.EmailList, error) {
	query := `SELECT ` + emailListColumns + ` FROM email_lists WHERE user_id = $1 AND lower(name) = lower($2)`
	l, err := scanEmailList(r.pool.QueryRow(ctx, query, ownerID, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, emaillist.ErrNotFound
	}
	return l, err
}

// Update replaces the list's name and addresses.
func (r *EmailListRepository) Update(ctx context.Context, id uuid.UUID, name string, emails []string) (*emaillist.EmailList, error) {
	query := `
		UPDATE email_lists
		SET name = $2, emails = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + emailListColumns
	l, err := scanEmailList(r.pool.QueryRow(ctx, query, id, name, emptyIfNil(emails)))
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, emaillist.ErrNotFound
	case isUniqueViolation(err):
		return nil, emaillist.ErrDuplicateName
	}
	return l, err
}

// Delete removes the list. Missing rows report ErrNotFound.
func (r *EmailListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM email_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("storage: deleting email list: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return emaillist.ErrNotFound
	}
	return nil
}

func scanEmailList(row pgx.Row) (*emaillist.EmailList, error) {
	var l emaillist.EmailList
	err := row.Scan(&l.ID, &l.OwnerID, &l.Name, &l.Emails, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("storage: scanning email list: %w", err)
	}
	return &l, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
