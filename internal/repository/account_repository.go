package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
	"github.com/Kosench/shortlink-analytics/internal/model"
)

// pgUniqueViolation - код ошибки Postgres при нарушении уникальности
const pgUniqueViolation = "23505"

var _ AccountRegistry = (*PostgresAccountRepository)(nil)

type PostgresAccountRepository struct {
	db *sql.DB
}

func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

// GetAccount возвращает ErrUnauthorized, если аккаунта нет
func (r *PostgresAccountRepository) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	query := `SELECT id, email, created_at FROM accounts WHERE id = $1`

	account := &model.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&account.ID, &account.Email, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account %q: %w", id, apperrors.ErrUnauthorized)
	}

	if err != nil {
		return nil, apperrors.NewDatabaseError("failed to get account", err)
	}

	return account, nil
}

// CreateAccount заводит аккаунт; повторный вызов с тем же id ничего не меняет
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, account *model.Account) error {
	query := `
	INSERT INTO accounts (id, email, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO NOTHING
	`

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, query, account.ID, account.Email, account.CreatedAt); err != nil {
		// Конфликт по id поглощает ON CONFLICT, остается только email
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errEmailTaken
		}
		return apperrors.NewDatabaseError("failed to create account", err)
	}

	return nil
}
