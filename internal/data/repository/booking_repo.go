package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingFilter narrows detail listings. Zero fields are ignored.
// From and To bound start_time inclusively.
type BookingFilter struct {
	ClientID  *uuid.UUID
	ServiceID *uuid.UUID
	Status    *entity.BookingStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
	Newest    bool
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error)
	FindActiveOverlapping(ctx context.Context, start, end time.Time) ([]*entity.Booking, error)
	FindDetails(ctx context.Context, filter BookingFilter) ([]*entity.BookingDetail, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, updatedAt time.Time) error
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `b.id, b.client_id, b.service_id, b.start_time, b.end_time, b.status, b.notes, b.created_at, b.updated_at`

const bookingDetailSelect = `
	SELECT ` + bookingColumns + `,
	       s.name, s.price, u.full_name, u.email, u.phone
	FROM bookings b
	JOIN services s ON s.id = b.service_id
	JOIN users u ON u.id = b.client_id
`

func bookingScanTargets(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.ClientID,
		&b.ServiceID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.Notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

func scanBookingDetail(row pgx.Row) (*entity.BookingDetail, error) {
	var d entity.BookingDetail
	targets := append(bookingScanTargets(&d.Booking),
		&d.ServiceName,
		&d.ServicePrice,
		&d.ClientName,
		&d.ClientEmail,
		&d.ClientPhone,
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts the booking. The bookings_no_overlap constraint is the last
// line of defence: a concurrent insert into the same interval fails with ErrOverlap.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, client_id, service_id, start_time, end_time, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.ClientID,
		booking.ServiceID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		if database.IsExclusionViolation(err) {
			r.log.Warn("Booking rejected by overlap constraint",
				zap.Time("start_time", booking.StartTime),
				zap.Time("end_time", booking.EndTime),
			)
			return fmt.Errorf("create booking at %s: %w", booking.StartTime.Format(time.RFC3339), ErrOverlap)
		}
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("client_id", booking.ClientID.String()),
			zap.Time("start_time", booking.StartTime),
		)
		return fmt.Errorf("create booking at %s: %w", booking.StartTime.Format(time.RFC3339), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1`

	var booking entity.Booking
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(bookingScanTargets(&booking)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	query := bookingDetailSelect + ` WHERE b.id = $1`

	detail, err := scanBookingDetail(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking detail",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking detail %s: %w", id, err)
	}

	return detail, nil
}

// FindActiveOverlapping returns PENDING and CONFIRMED bookings whose
// [start_time, end_time) intersects [start, end).
func (r *bookingRepository) FindActiveOverlapping(ctx context.Context, start, end time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		WHERE b.status IN ('PENDING', 'CONFIRMED')
		  AND b.start_time < $2
		  AND b.end_time > $1
		ORDER BY b.start_time ASC
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, start, end)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find bookings overlapping %s-%s: %w", start.Format(time.RFC3339), end.Format(time.RFC3339), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		var booking entity.Booking
		if err := rows.Scan(bookingScanTargets(&booking)...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (f BookingFilter) where() (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.ClientID != nil {
		add("b.client_id = $%d", *f.ClientID)
	}
	if f.ServiceID != nil {
		add("b.service_id = $%d", *f.ServiceID)
	}
	if f.Status != nil {
		add("b.status = $%d", *f.Status)
	}
	if f.From != nil {
		add("b.start_time >= $%d", *f.From)
	}
	if f.To != nil {
		add("b.start_time <= $%d", *f.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) FindDetails(ctx context.Context, filter BookingFilter) ([]*entity.BookingDetail, error) {
	where, args := filter.where()

	order := " ORDER BY b.start_time ASC"
	if filter.Newest {
		order = " ORDER BY b.start_time DESC"
	}
	query := bookingDetailSelect + where + order

	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var details []*entity.BookingDetail
	for rows.Next() {
		detail, err := scanBookingDetail(rows)
		if err != nil {
			r.log.Error("Failed to scan booking detail row", zap.Error(err))
			return nil, fmt.Errorf("scan booking detail row: %w", err)
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking detail rows: %w", err)
	}

	return details, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := filter.where()
	query := `SELECT COUNT(*) FROM bookings b` + where

	var count int64
	if err := database.Conn(ctx, r.db).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

// UpdateStatus changes the status only. Reactivating a cancelled booking into
// an occupied interval fails with ErrOverlap.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, updatedAt time.Time) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, status, updatedAt)
	if err != nil {
		if database.IsExclusionViolation(err) {
			return fmt.Errorf("update booking %s status to %s: %w", id, status, ErrOverlap)
		}
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id, status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s status: %w", id, ErrNotFound)
	}

	return nil
}
