package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

// querier - общее подмножество *sql.DB и *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type PostgresURLRepository struct {
	db querier
}

func NewPostgresURLRepository(db *sql.DB) *PostgresURLRepository {
	return &PostgresURLRepository{
		db: db,
	}
}

const urlColumns = `id, owner_id, original_url, short_code, click_count, created_at, expires_at`

// Create вставляет запись; уникальность кода обеспечивает constraint в БД
func (r *PostgresURLRepository) Create(ctx context.Context, url *model.URL) error {
	query := `
	INSERT INTO urls (owner_id, original_url, short_code, click_count, created_at, expires_at)
	VALUES ($1, $2, $3, 0, $4, $5)
	ON CONFLICT (short_code) DO NOTHING
	RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		url.OwnerID,
		url.OriginalURL,
		url.ShortCode,
		url.CreatedAt,
		url.ExpiresAt,
	).Scan(&url.ID)

	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.ErrShortCodeExists
	}

	if err != nil {
		return apperrors.NewDatabaseError("failed to create URL", err)
	}

	url.ClickCount = 0
	return nil
}

func (r *PostgresURLRepository) GetByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE short_code = $1`

	url, err := scanURL(r.db.QueryRowContext(ctx, query, shortCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("URL with short code '%s': %w", shortCode, apperrors.ErrURLNotFound)
	}

	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to get URL", err)
	}

	return url, nil
}

func (r *PostgresURLRepository) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE id = $1`

	url, err := scanURL(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to get URL", err)
	}

	return url, nil
}

func (r *PostgresURLRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.URL, error) {
	query := `SELECT ` + urlColumns + ` FROM urls WHERE owner_id = $1 ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to list URLs", err)
	}
	defer rows.Close()

	urls := make([]*model.URL, 0)
	for rows.Next() {
		url, err := scanURL(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("failed to scan URL", err)
		}
		urls = append(urls, url)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("failed to list URLs", err)
	}

	return urls, nil
}

// IncrementClickCount атомарно увеличивает счетчик одним UPDATE
func (r *PostgresURLRepository) IncrementClickCount(ctx context.Context, id int64) (int64, error) {
	query := `
	UPDATE urls
	SET click_count = click_count + 1
	WHERE id = $1
	RETURNING click_count
	`

	var newCount int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&newCount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	if err != nil {
		return 0, apperrors.NewDatabaseError("failed to increment click count", err)
	}

	return newCount, nil
}

// Delete удаляет ссылку; click_events удаляются каскадно
func (r *PostgresURLRepository) Delete(ctx context.Context, id int64) (*model.URL, error) {
	query := `DELETE FROM urls WHERE id = $1 RETURNING ` + urlColumns

	url, err := scanURL(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("URL with ID %d: %w", id, apperrors.ErrURLNotFound)
	}

	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to delete URL", err)
	}

	return url, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanURL(row rowScanner) (*model.URL, error) {
	url := &model.URL{}
	var expiresAt sql.NullTime

	err := row.Scan(
		&url.ID,
		&url.OwnerID,
		&url.OriginalURL,
		&url.ShortCode,
		&url.ClickCount,
		&url.CreatedAt,
		&expiresAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		url.ExpiresAt = &t
	}

	return url, nil
}
