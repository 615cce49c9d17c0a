package usecase

import (
	"context"
	"time"

	"barber-booking/internal/data/repository"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/dto/response"
	"barber-booking/internal/scheduling"
	"barber-booking/pkg/apperror"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, req *request.AvailabilityRequest) ([]response.SlotResponse, error)
	// SlotsFor returns the open catalog slots of date, in catalog order.
	SlotsFor(ctx context.Context, date time.Time) ([]scheduling.Slot, error)
}

type availabilityService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "availability")),
	}
}

// GetAvailableSlots accepts a serviceId for API compatibility; the catalog is the
// same for every service.
func (s *availabilityService) GetAvailableSlots(ctx context.Context, req *request.AvailabilityRequest) ([]response.SlotResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.Validation("date must be YYYY-MM-DD")
	}

	slots, err := s.SlotsFor(ctx, date)
	if err != nil {
		return nil, err
	}

	out := make([]response.SlotResponse, len(slots))
	for i, slot := range slots {
		out[i] = response.SlotToResponse(slot)
	}
	return out, nil
}

func (s *availabilityService) SlotsFor(ctx context.Context, date time.Time) ([]scheduling.Slot, error) {
	ctx, span := tracer.Start(ctx, "availability.slots",
		trace.WithAttributes(attribute.String("date", scheduling.BusinessDate(date))))
	defer span.End()

	dayStart, dayEnd := scheduling.DayBounds(date)

	bookings, err := s.repo.Booking.FindActiveOverlapping(ctx, dayStart, dayEnd)
	if err != nil {
		s.log.Error("Failed to load bookings for day", zap.Error(err), zap.Time("day", dayStart))
		return nil, apperror.Internal(err, "failed to load availability")
	}

	blocks, err := s.repo.DisabledRange.FindOverlapping(ctx, dayStart, dayEnd)
	if err != nil {
		s.log.Error("Failed to load blocks for day", zap.Error(err), zap.Time("day", dayStart))
		return nil, apperror.Internal(err, "failed to load availability")
	}

	blocked := make([]scheduling.Interval, 0, len(blocks))
	for _, b := range blocks {
		iv := scheduling.Interval{Start: b.StartTime, End: b.EndTime}
		if iv.Covers(dayStart, dayEnd) {
			return []scheduling.Slot{}, nil
		}
		blocked = append(blocked, iv)
	}

	busy := make([]scheduling.Interval, 0, len(bookings))
	for _, b := range bookings {
		busy = append(busy, scheduling.Interval{Start: b.StartTime, End: b.EndTime})
	}

	now := s.now()
	open := make([]scheduling.Slot, 0)
	for _, slot := range scheduling.SlotsFor(date) {
		if scheduling.IsPast(slot.Start, now) {
			continue
		}
		iv := slot.Interval()
		if scheduling.OverlapsAny(iv, blocked) || scheduling.OverlapsAny(iv, busy) {
			continue
		}
		slot.Available = true
		open = append(open, slot)
	}

	span.SetAttributes(attribute.Int("slots.open", len(open)))
	return open, nil
}
