package repository

import (
	"context"
	"fmt"

	"barber-booking/internal/data/entity"
	"barber-booking/pkg/database"

	"go.uber.org/zap"
)

type OwnerScheduleRepository interface {
	FindAll(ctx context.Context) ([]*entity.OwnerSchedule, error)
	Upsert(ctx context.Context, schedule *entity.OwnerSchedule) error
}

type ownerScheduleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewOwnerScheduleRepository(db database.PgxIface, log *zap.Logger) OwnerScheduleRepository {
	return &ownerScheduleRepository{
		db:  db,
		log: log.With(zap.String("repository", "owner_schedule")),
	}
}

func (r *ownerScheduleRepository) FindAll(ctx context.Context) ([]*entity.OwnerSchedule, error) {
	query := `
		SELECT weekday, start_time, end_time, active, updated_at
		FROM owner_schedules
		ORDER BY weekday ASC
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list owner schedules", zap.Error(err))
		return nil, fmt.Errorf("list owner schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*entity.OwnerSchedule
	for rows.Next() {
		var s entity.OwnerSchedule
		if err := rows.Scan(&s.Weekday, &s.StartTime, &s.EndTime, &s.Active, &s.UpdatedAt); err != nil {
			r.log.Error("Failed to scan owner schedule row", zap.Error(err))
			return nil, fmt.Errorf("scan owner schedule row: %w", err)
		}
		schedules = append(schedules, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner schedule rows: %w", err)
	}

	return schedules, nil
}

// Upsert replaces the entry for schedule.Weekday.
func (r *ownerScheduleRepository) Upsert(ctx context.Context, schedule *entity.OwnerSchedule) error {
	query := `
		INSERT INTO owner_schedules (weekday, start_time, end_time, active, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (weekday) DO UPDATE
		SET start_time = EXCLUDED.start_time,
		    end_time = EXCLUDED.end_time,
		    active = EXCLUDED.active,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		schedule.Weekday,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Active,
		schedule.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert owner schedule",
			zap.Error(err),
			zap.Int("weekday", schedule.Weekday),
		)
		return fmt.Errorf("upsert owner schedule for weekday %d: %w", schedule.Weekday, err)
	}

	return nil
}
