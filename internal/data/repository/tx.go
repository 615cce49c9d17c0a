package repository

import (
	"context"
	"fmt"
	"time"

	"barber-booking/internal/scheduling"
	"barber-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxManager runs schedule mutations in one transaction.
type TxManager interface {
	// WithinScheduleLock runs fn in a transaction that holds the advisory lock of
	// every business day touched by [from, to]. Repositories called with the ctx
	// passed to fn join the transaction. fn's error rolls it back.
	WithinScheduleLock(ctx context.Context, from, to time.Time, fn func(ctx context.Context) error) error
}

type txManager struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTxManager(db database.PgxIface, log *zap.Logger) TxManager {
	return &txManager{
		db:  db,
		log: log.With(zap.String("repository", "tx")),
	}
}

func (m *txManager) WithinScheduleLock(ctx context.Context, from, to time.Time, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		m.log.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("begin schedule transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Days are locked in ascending order so two writers never deadlock.
	for _, day := range scheduling.DaysBetween(from, to) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('schedule:' || $1))`, day); err != nil {
			m.log.Error("Failed to lock schedule day", zap.Error(err), zap.String("day", day))
			return fmt.Errorf("lock schedule day %s: %w", day, err)
		}
	}

	if err := fn(database.WithTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if database.IsExclusionViolation(err) {
			return fmt.Errorf("commit schedule transaction: %w", ErrOverlap)
		}
		m.log.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit schedule transaction: %w", err)
	}

	return nil
}
