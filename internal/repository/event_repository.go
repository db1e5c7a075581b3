package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

// pgForeignKeyViolation - код ошибки Postgres при нарушении внешнего ключа
const pgForeignKeyViolation = "23503"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type PostgresEventRepository struct {
	db querier
}

func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) Append(ctx context.Context, event *model.ClickEvent) error {
	sqlStr, args, err := psql.Insert("click_events").
		Columns("url_id", "device", "referrer", "created_at").
		Values(event.URLID, event.Device, event.Referrer, event.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&event.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("URL with ID %d: %w", event.URLID, apperrors.ErrURLNotFound)
		}
		return apperrors.NewDatabaseError("failed to append click event", err)
	}

	return nil
}

func (r *PostgresEventRepository) CountTotal(ctx context.Context, urlIDs []int64) (int64, error) {
	if len(urlIDs) == 0 {
		return 0, nil
	}

	sqlStr, args, err := psql.Select("COUNT(*)").
		From("click_events").
		Where(sq.Eq{"url_id": urlIDs}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, apperrors.NewDatabaseError("failed to count click events", err)
	}

	return total, nil
}

// CountByDay группирует клики по календарной дате (UTC) по возрастанию
func (r *PostgresEventRepository) CountByDay(ctx context.Context, urlIDs []int64) ([]model.DayCount, error) {
	if len(urlIDs) == 0 {
		return []model.DayCount{}, nil
	}

	sqlStr, args, err := psql.Select("(created_at AT TIME ZONE 'UTC')::date AS day", "COUNT(*)").
		From("click_events").
		Where(sq.Eq{"url_id": urlIDs}).
		GroupBy("day").
		OrderBy("day").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build daily count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to count clicks per day", err)
	}
	defer rows.Close()

	counts := make([]model.DayCount, 0)
	for rows.Next() {
		var day time.Time
		var count int64
		if err := rows.Scan(&day, &count); err != nil {
			return nil, apperrors.NewDatabaseError("failed to scan daily count", err)
		}
		counts = append(counts, model.DayCount{
			Day:   time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Count: count,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("failed to count clicks per day", err)
	}

	return counts, nil
}

func (r *PostgresEventRepository) CountByDevice(ctx context.Context, urlIDs []int64) ([]model.LabelCount, error) {
	return r.countByLabel(ctx, "device", urlIDs)
}

func (r *PostgresEventRepository) CountByReferrer(ctx context.Context, urlIDs []int64) ([]model.LabelCount, error) {
	return r.countByLabel(ctx, "referrer", urlIDs)
}

// countByLabel группирует по колонке, NULL и пустые значения идут под UnknownLabel
func (r *PostgresEventRepository) countByLabel(ctx context.Context, column string, urlIDs []int64) ([]model.LabelCount, error) {
	if len(urlIDs) == 0 {
		return []model.LabelCount{}, nil
	}

	sqlStr, args, err := psql.Select().
		Column(fmt.Sprintf("COALESCE(NULLIF(%s, ''), '%s') AS label", column, model.UnknownLabel)).
		Column("COUNT(*) AS clicks").
		From("click_events").
		Where(sq.Eq{"url_id": urlIDs}).
		GroupBy("label").
		OrderBy("clicks DESC", "label").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s count: %w", column, err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to count clicks by "+column, err)
	}
	defer rows.Close()

	counts := make([]model.LabelCount, 0)
	for rows.Next() {
		var lc model.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, apperrors.NewDatabaseError("failed to scan "+column+" count", err)
		}
		counts = append(counts, lc)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("failed to count clicks by "+column, err)
	}

	return counts, nil
}
