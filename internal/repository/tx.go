package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-analytics/internal/errors"
)

type PostgresTxManager struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresTxManager(db *sql.DB, logger *zap.Logger) *PostgresTxManager {
	return &PostgresTxManager{db: db, logger: logger}
}

// WithinTx открывает транзакцию READ COMMITTED и коммитит её, только если fn вернула nil
func (m *PostgresTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) (err error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return apperrors.NewDatabaseError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				m.logger.Error("rollback failed", zap.Error(rbErr))
			}
		}
	}()

	stores := TxStores{
		URLs:   &PostgresURLRepository{db: tx},
		Events: &PostgresEventRepository{db: tx},
	}

	if err = fn(ctx, stores); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return apperrors.NewDatabaseError("failed to commit transaction", fmt.Errorf("commit: %w", err))
	}

	return nil
}
