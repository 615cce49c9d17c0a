package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DisabledRangeRepository interface {
	Create(ctx context.Context, block *entity.DisabledRange) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.DisabledRange, error)
	FindOverlapping(ctx context.Context, start, end time.Time) ([]*entity.DisabledRange, error)
	FindEndingAfter(ctx context.Context, t time.Time) ([]*entity.DisabledRange, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type disabledRangeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDisabledRangeRepository(db database.PgxIface, log *zap.Logger) DisabledRangeRepository {
	return &disabledRangeRepository{
		db:  db,
		log: log.With(zap.String("repository", "disabled_range")),
	}
}

const disabledRangeColumns = `id, start_time, end_time, reason, created_at`

func (r *disabledRangeRepository) Create(ctx context.Context, block *entity.DisabledRange) error {
	query := `
		INSERT INTO disabled_ranges (id, start_time, end_time, reason, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		block.ID,
		block.StartTime,
		block.EndTime,
		block.Reason,
		block.CreatedAt,
	)
	if err != nil {
		if database.IsExclusionViolation(err) {
			return fmt.Errorf("create block %s-%s: %w",
				block.StartTime.Format(time.RFC3339), block.EndTime.Format(time.RFC3339), ErrOverlap)
		}
		r.log.Error("Failed to create disabled range",
			zap.Error(err),
			zap.Time("start_time", block.StartTime),
			zap.Time("end_time", block.EndTime),
		)
		return fmt.Errorf("create block %s-%s: %w",
			block.StartTime.Format(time.RFC3339), block.EndTime.Format(time.RFC3339), err)
	}

	return nil
}

func (r *disabledRangeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.DisabledRange, error) {
	query := `SELECT ` + disabledRangeColumns + ` FROM disabled_ranges WHERE id = $1`

	var block entity.DisabledRange
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&block.ID,
		&block.StartTime,
		&block.EndTime,
		&block.Reason,
		&block.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find disabled range", zap.Error(err), zap.String("block_id", id.String()))
		return nil, fmt.Errorf("find block %s: %w", id, err)
	}

	return &block, nil
}

// FindOverlapping returns blocks whose [start_time, end_time) intersects [start, end).
func (r *disabledRangeRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]*entity.DisabledRange, error) {
	query := `
		SELECT ` + disabledRangeColumns + `
		FROM disabled_ranges
		WHERE start_time < $2 AND end_time > $1
		ORDER BY start_time ASC
	`
	return r.list(ctx, query, start, end)
}

// FindEndingAfter returns blocks still in effect at or after t.
func (r *disabledRangeRepository) FindEndingAfter(ctx context.Context, t time.Time) ([]*entity.DisabledRange, error) {
	query := `
		SELECT ` + disabledRangeColumns + `
		FROM disabled_ranges
		WHERE end_time >= $1
		ORDER BY start_time ASC
	`
	return r.list(ctx, query, t)
}

func (r *disabledRangeRepository) list(ctx context.Context, query string, args ...any) ([]*entity.DisabledRange, error) {
	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list disabled ranges", zap.Error(err))
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*entity.DisabledRange
	for rows.Next() {
		var block entity.DisabledRange
		if err := rows.Scan(
			&block.ID,
			&block.StartTime,
			&block.EndTime,
			&block.Reason,
			&block.CreatedAt,
		); err != nil {
			r.log.Error("Failed to scan disabled range row", zap.Error(err))
			return nil, fmt.Errorf("scan block row: %w", err)
		}
		blocks = append(blocks, &block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block rows: %w", err)
	}

	return blocks, nil
}

func (r *disabledRangeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := database.Conn(ctx, r.db).Exec(ctx, `DELETE FROM disabled_ranges WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete disabled range", zap.Error(err), zap.String("block_id", id.String()))
		return fmt.Errorf("delete block %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete block %s: %w", id, ErrNotFound)
	}

	r.log.Info("Disabled range deleted", zap.String("block_id", id.String()))
	return nil
}
