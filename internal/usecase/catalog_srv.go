package usecase

import (
	"context"
	"strings"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/dto/response"
	"barber-booking/internal/scheduling"
	"barber-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages the services clients can book.
type CatalogService interface {
	ListServices(ctx context.Context, activeOnly bool) ([]response.ServiceResponse, error)
	GetService(ctx context.Context, serviceID string) (*response.ServiceResponse, error)
	CreateService(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID string, req *request.UpdateServiceRequest) (*response.ServiceResponse, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	bookingRepo repository.BookingRepository
	log         *zap.Logger
}

func NewCatalogService(serviceRepo repository.ServiceRepository, bookingRepo repository.BookingRepository, log *zap.Logger) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		bookingRepo: bookingRepo,
		log:         log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListServices(ctx context.Context, activeOnly bool) ([]response.ServiceResponse, error) {
	services, err := s.serviceRepo.FindAll(ctx, activeOnly)
	if err != nil {
		s.log.Error("Failed to list services", zap.Error(err))
		return nil, apperror.Internal(err, "failed to list services")
	}

	out := make([]response.ServiceResponse, len(services))
	for i, svc := range services {
		out[i] = response.ServiceToResponse(svc)
	}
	return out, nil
}

func (s *catalogService) GetService(ctx context.Context, serviceID string) (*response.ServiceResponse, error) {
	service, err := s.find(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) CreateService(ctx context.Context, req *request.CreateServiceRequest) (*response.ServiceResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	if !fixedDuration(req.DurationMin) {
		return nil, apperror.ErrFixedDuration
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now()
	service := &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DurationMin: scheduling.ServiceMinutes,
		Price:       req.Price,
		Active:      active,
	}

	if err := s.serviceRepo.Create(ctx, service); err != nil {
		s.log.Error("Failed to create service", zap.Error(err), zap.String("name", service.Name))
		return nil, apperror.Internal(err, "failed to create service")
	}

	s.log.Info("Service created", zap.String("service_id", service.ID.String()), zap.String("name", service.Name))

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, serviceID string, req *request.UpdateServiceRequest) (*response.ServiceResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	service, err := s.find(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	if !fixedDuration(req.DurationMin) {
		return nil, apperror.ErrFixedDuration
	}

	if req.Name != nil || req.Description != nil {
		used, err := s.bookingRepo.Count(ctx, repository.BookingFilter{ServiceID: &service.ID})
		if err != nil {
			s.log.Error("Failed to count service bookings", zap.Error(err), zap.String("service_id", serviceID))
			return nil, apperror.Internal(err, "failed to update service")
		}
		if used > 0 {
			return nil, apperror.ErrServiceInUse
		}
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}
	service.UpdatedAt = time.Now()

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		s.log.Error("Failed to update service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, apperror.Internal(err, "failed to update service")
	}

	s.log.Info("Service updated", zap.String("service_id", serviceID))

	resp := response.ServiceToResponse(service)
	return &resp, nil
}

// fixedDuration accepts an omitted duration or the fixed effective one.
func fixedDuration(minutes *int) bool {
	return minutes == nil || *minutes == scheduling.ServiceMinutes
}

func (s *catalogService) find(ctx context.Context, serviceID string) (*entity.Service, error) {
	id, err := parseID(serviceID, "id")
	if err != nil {
		return nil, err
	}

	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find service", zap.Error(err), zap.String("service_id", serviceID))
		return nil, apperror.Internal(err, "failed to get service")
	}
	if service == nil {
		return nil, apperror.ErrServiceNotFound
	}
	return service, nil
}
