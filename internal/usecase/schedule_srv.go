package usecase

import (
	"context"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/dto/response"
	"barber-booking/pkg/apperror"

	"go.uber.org/zap"
)

// ScheduleService stores the owner's declared weekly hours. Availability does
// not consult them.
type ScheduleService interface {
	GetOwnerSchedule(ctx context.Context) ([]response.OwnerScheduleResponse, error)
	UpsertOwnerSchedule(ctx context.Context, req *request.UpsertOwnerScheduleRequest) (*response.OwnerScheduleResponse, error)
}

type scheduleService struct {
	scheduleRepo repository.OwnerScheduleRepository
	log          *zap.Logger
}

func NewScheduleService(scheduleRepo repository.OwnerScheduleRepository, log *zap.Logger) ScheduleService {
	return &scheduleService{
		scheduleRepo: scheduleRepo,
		log:          log.With(zap.String("service", "schedule")),
	}
}

func (s *scheduleService) GetOwnerSchedule(ctx context.Context) ([]response.OwnerScheduleResponse, error) {
	schedules, err := s.scheduleRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to load owner schedule", zap.Error(err))
		return nil, apperror.Internal(err, "failed to load schedule")
	}

	out := make([]response.OwnerScheduleResponse, len(schedules))
	for i, sch := range schedules {
		out[i] = response.OwnerScheduleToResponse(sch)
	}
	return out, nil
}

func (s *scheduleService) UpsertOwnerSchedule(ctx context.Context, req *request.UpsertOwnerScheduleRequest) (*response.OwnerScheduleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	// Both are zero-padded HH:mm, so string order is time order.
	if req.StartTime >= req.EndTime {
		return nil, apperror.BadRequest(apperror.CodeInvalidSchedule, "start time must be before end time")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	schedule := &entity.OwnerSchedule{
		Weekday:   *req.Weekday,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Active:    active,
		UpdatedAt: time.Now(),
	}

	if err := s.scheduleRepo.Upsert(ctx, schedule); err != nil {
		s.log.Error("Failed to save owner schedule", zap.Error(err), zap.Int("weekday", schedule.Weekday))
		return nil, apperror.Internal(err, "failed to save schedule")
	}

	s.log.Info("Owner schedule saved",
		zap.Int("weekday", schedule.Weekday),
		zap.String("start", schedule.StartTime),
		zap.String("end", schedule.EndTime),
		zap.Bool("active", schedule.Active),
	)

	resp := response.OwnerScheduleToResponse(schedule)
	return &resp, nil
}
