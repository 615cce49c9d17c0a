package usecase

import (
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/pkg/utils"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("barber-booking/usecase")

// BookingNotifier is told about booking changes. Calls must not block.
type BookingNotifier interface {
	BookingCreated(b *entity.BookingDetail)
	BookingStatusChanged(b *entity.BookingDetail)
}

// AccountNotifier delivers one-time codes. Calls must not block.
type AccountNotifier interface {
	VerificationCode(user *entity.User, code string, ttl time.Duration)
	PasswordResetCode(user *entity.User, code string, ttl time.Duration)
}

type Notifier interface {
	BookingNotifier
	AccountNotifier
}

type Service struct {
	Auth         AuthService
	User         UserService
	Catalog      CatalogService
	Availability AvailabilityService
	Booking      BookingService
	Block        BlockService
	Schedule     ScheduleService
	Stats        StatsService
}

func NewService(repo *repository.Repository, notifier Notifier, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo, notifier, config, log),
		User:         NewUserService(repo, log),
		Catalog:      NewCatalogService(repo.Service, repo.Booking, log),
		Availability: NewAvailabilityService(repo, log),
		Booking:      NewBookingService(repo, notifier, log),
		Block:        NewBlockService(repo, log),
		Schedule:     NewScheduleService(repo.OwnerSchedule, log),
		Stats:        NewStatsService(repo.Booking, log),
	}
}
