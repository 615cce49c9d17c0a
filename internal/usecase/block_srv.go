package usecase

import (
	"context"
	"errors"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/dto/response"
	"barber-booking/internal/scheduling"
	"barber-booking/pkg/apperror"
	"barber-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BlockService manages owner blocks (disabled ranges). Existing bookings are not
// checked when a block is created; the owner reviews them.
type BlockService interface {
	CreateOwnerBlock(ctx context.Context, req *request.CreateOwnerBlockRequest) (*response.DisabledRangeResponse, error)
	CreateDisabledRange(ctx context.Context, req *request.CreateDisabledRangeRequest) (*response.DisabledRangeResponse, error)
	GetBlocksForDate(ctx context.Context, date string) ([]response.DisabledRangeResponse, error)
	GetUpcomingBlocks(ctx context.Context) ([]response.DisabledRangeResponse, error)
	DeleteBlock(ctx context.Context, blockID string) error
}

type blockService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewBlockService(repo *repository.Repository, log *zap.Logger) BlockService {
	return &blockService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "block")),
	}
}

func (s *blockService) CreateOwnerBlock(ctx context.Context, req *request.CreateOwnerBlockRequest) (*response.DisabledRangeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		return nil, apperror.Validation("date must be YYYY-MM-DD")
	}

	var start, end time.Time
	switch {
	case req.FullDay:
		start, end = scheduling.DayBounds(date)
	case req.StartTime != nil && req.EndTime != nil:
		start = scheduling.ResolveInstant(date, *req.StartTime)
		end = scheduling.ResolveInstant(date, *req.EndTime)
	default:
		return nil, apperror.ErrBlockRange
	}

	return s.create(ctx, start, end, req.Reason)
}

func (s *blockService) CreateDisabledRange(ctx context.Context, req *request.CreateDisabledRangeRequest) (*response.DisabledRangeResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperror.InvalidFields(map[string]string{"startTime": "Must be an ISO-8601 instant"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, apperror.InvalidFields(map[string]string{"endTime": "Must be an ISO-8601 instant"})
	}

	return s.create(ctx, start, end, req.Reason)
}

func (s *blockService) create(ctx context.Context, start, end time.Time, reason *string) (*response.DisabledRangeResponse, error) {
	if !start.Before(end) {
		return nil, apperror.ErrBlockInvalid
	}

	now := s.now()
	if !end.After(now) {
		return nil, apperror.ErrBlockInPast
	}

	ctx, span := tracer.Start(ctx, "block.create", trace.WithAttributes(
		attribute.String("block.start", start.UTC().Format(time.RFC3339)),
		attribute.String("block.end", end.UTC().Format(time.RFC3339)),
	))
	defer span.End()

	block := &entity.DisabledRange{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		StartTime: start,
		EndTime:   end,
		Reason:    reason,
	}

	err := s.repo.Tx.WithinScheduleLock(ctx, start, end, func(ctx context.Context) error {
		existing, err := s.repo.DisabledRange.FindOverlapping(ctx, start, end)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return apperror.ErrBlockOverlap
		}
		return s.repo.DisabledRange.Create(ctx, block)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, apperror.ErrBlockOverlap
		case isAppError(err):
			return nil, err
		}
		s.log.Error("Failed to create block", zap.Error(err), zap.Time("start", start), zap.Time("end", end))
		return nil, apperror.Internal(err, "failed to create block")
	}

	s.log.Info("Block created",
		zap.String("block_id", block.ID.String()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	resp := response.DisabledRangeToResponse(block)
	return &resp, nil
}

func (s *blockService) GetBlocksForDate(ctx context.Context, date string) ([]response.DisabledRangeResponse, error) {
	if err := utils.ValidateVar(date, "required,datetime=2006-01-02"); err != nil {
		return nil, apperror.InvalidFields(map[string]string{"date": "Must match the format 2006-01-02"})
	}
	day, err := scheduling.ParseDate(date)
	if err != nil {
		return nil, apperror.Validation("date must be YYYY-MM-DD")
	}

	from, to := scheduling.DayBounds(day)
	blocks, err := s.repo.DisabledRange.FindOverlapping(ctx, from, to)
	if err != nil {
		s.log.Error("Failed to list blocks for date", zap.Error(err), zap.String("date", date))
		return nil, apperror.Internal(err, "failed to list blocks")
	}
	return toBlockResponses(blocks), nil
}

func (s *blockService) GetUpcomingBlocks(ctx context.Context) ([]response.DisabledRangeResponse, error) {
	blocks, err := s.repo.DisabledRange.FindEndingAfter(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to list upcoming blocks", zap.Error(err))
		return nil, apperror.Internal(err, "failed to list blocks")
	}
	return toBlockResponses(blocks), nil
}

func (s *blockService) DeleteBlock(ctx context.Context, blockID string) error {
	id, err := parseID(blockID, "id")
	if err != nil {
		return err
	}

	if err := s.repo.DisabledRange.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.ErrBlockNotFound
		}
		s.log.Error("Failed to delete block", zap.Error(err), zap.String("block_id", blockID))
		return apperror.Internal(err, "failed to delete block")
	}

	s.log.Info("Block deleted", zap.String("block_id", blockID))
	return nil
}

func toBlockResponses(blocks []*entity.DisabledRange) []response.DisabledRangeResponse {
	out := make([]response.DisabledRangeResponse, len(blocks))
	for i, b := range blocks {
		out[i] = response.DisabledRangeToResponse(b)
	}
	return out
}
