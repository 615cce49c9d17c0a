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

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type BookingService interface {
	// Client endpoints
	CreateBooking(ctx context.Context, clientID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetMyBookings(ctx context.Context, clientID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelMyBooking(ctx context.Context, clientID uuid.UUID, bookingID string) (*response.BookingResponse, error)

	// Owner endpoints
	GetOwnerBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	notifier BookingNotifier
	now      func() time.Time
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, notifier BookingNotifier, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
		log:      log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, clientID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	serviceID, err := parseID(req.ServiceID, "serviceId")
	if err != nil {
		return nil, err
	}
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, apperror.InvalidFields(map[string]string{"startTime": "Must be an ISO-8601 instant"})
	}

	ctx, span := tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.String("client.id", clientID.String()),
		attribute.String("service.id", serviceID.String()),
		attribute.String("booking.start", startTime.UTC().Format(time.RFC3339)),
	))
	defer span.End()

	booking, detail, err := s.createBooking(ctx, clientID, serviceID, startTime, req.Notes)
	if err != nil {
		span.SetStatus(codes.Error, apperror.CodeOf(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.id", booking.ID.String()))

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("service_id", serviceID.String()),
		zap.Time("start_time", booking.StartTime),
		zap.Time("end_time", booking.EndTime),
	)

	s.notifier.BookingCreated(detail)

	resp := response.BookingDetailToResponse(detail)
	return &resp, nil
}

// createBooking enforces the booking preconditions in order. The conflict
// checks and the insert share one transaction holding the day's schedule lock;
// the exclusion constraint on bookings backs them up.
func (s *bookingService) createBooking(ctx context.Context, clientID, serviceID uuid.UUID, startTime time.Time, notes *string) (*entity.Booking, *entity.BookingDetail, error) {
	service, err := s.repo.Service.FindByID(ctx, serviceID)
	if err != nil {
		s.log.Error("Failed to find service", zap.Error(err), zap.String("service_id", serviceID.String()))
		return nil, nil, apperror.Internal(err, "failed to create booking")
	}
	if service == nil || !service.Active {
		return nil, nil, apperror.ErrServiceNotFound
	}

	client, err := s.repo.User.FindByID(ctx, clientID)
	if err != nil {
		s.log.Error("Failed to find client", zap.Error(err), zap.String("client_id", clientID.String()))
		return nil, nil, apperror.Internal(err, "failed to create booking")
	}
	if client == nil {
		return nil, nil, apperror.ErrUserNotFound
	}
	if !client.EmailVerified {
		return nil, nil, apperror.ErrEmailNotVerified
	}

	now := s.now()
	if scheduling.IsPast(startTime, now) {
		return nil, nil, apperror.ErrSlotInPast
	}

	endTime := scheduling.AddMinutes(startTime, scheduling.ServiceMinutes)
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ClientID:  clientID,
		ServiceID: serviceID,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    entity.BookingStatusPending,
		Notes:     notes,
	}

	err = s.repo.Tx.WithinScheduleLock(ctx, startTime, endTime, func(ctx context.Context) error {
		taken, err := s.repo.Booking.FindActiveOverlapping(ctx, startTime, endTime)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return apperror.ErrSlotTaken
		}

		blocks, err := s.repo.DisabledRange.FindOverlapping(ctx, startTime, endTime)
		if err != nil {
			return err
		}
		if len(blocks) > 0 {
			return apperror.ErrSlotDisabled
		}

		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			s.log.Warn("Booking lost the race for its slot", zap.Time("start_time", startTime))
			return nil, nil, apperror.ErrSlotTaken
		case isAppError(err):
			return nil, nil, err
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("client_id", clientID.String()),
			zap.Time("start_time", startTime),
		)
		return nil, nil, apperror.Internal(err, "failed to create booking")
	}

	detail := &entity.BookingDetail{
		Booking:      *booking,
		ServiceName:  service.Name,
		ServicePrice: service.Price,
		ClientName:   client.FullName,
		ClientEmail:  client.Email,
		ClientPhone:  client.Phone,
	}
	return booking, detail, nil
}

func (s *bookingService) UpdateBookingStatus(ctx context.Context, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	status, ok := entity.ParseBookingStatus(req.Status)
	if !ok {
		return nil, apperror.ErrInvalidStatus
	}

	id, err := parseID(bookingID, "id")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperror.Internal(err, "failed to update booking")
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}

	return s.changeStatus(ctx, booking, status)
}

func (s *bookingService) CancelMyBooking(ctx context.Context, clientID uuid.UUID, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID(bookingID, "id")
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperror.Internal(err, "failed to cancel booking")
	}
	// Another client's booking is reported as missing.
	if booking == nil || booking.ClientID != clientID {
		return nil, apperror.ErrBookingNotFound
	}
	if !booking.Status.IsActive() {
		return nil, apperror.BadRequest(apperror.CodeInvalidStatus, "only pending or confirmed bookings can be cancelled")
	}

	return s.changeStatus(ctx, booking, entity.BookingStatusCancelled)
}

// changeStatus applies any transition. Moving a booking back into an active
// status re-runs the overlap checks under the day lock.
func (s *bookingService) changeStatus(ctx context.Context, booking *entity.Booking, status entity.BookingStatus) (*response.BookingResponse, error) {
	ctx, span := tracer.Start(ctx, "booking.update_status", trace.WithAttributes(
		attribute.String("booking.id", booking.ID.String()),
		attribute.String("booking.status.from", string(booking.Status)),
		attribute.String("booking.status.to", string(status)),
	))
	defer span.End()

	now := s.now()
	apply := func(ctx context.Context) error {
		return s.repo.Booking.UpdateStatus(ctx, booking.ID, status, now)
	}

	var err error
	if status.IsActive() && !booking.Status.IsActive() {
		err = s.repo.Tx.WithinScheduleLock(ctx, booking.StartTime, booking.EndTime, func(ctx context.Context) error {
			taken, err := s.repo.Booking.FindActiveOverlapping(ctx, booking.StartTime, booking.EndTime)
			if err != nil {
				return err
			}
			if len(taken) > 0 {
				return apperror.ErrSlotTaken
			}

			blocks, err := s.repo.DisabledRange.FindOverlapping(ctx, booking.StartTime, booking.EndTime)
			if err != nil {
				return err
			}
			if len(blocks) > 0 {
				return apperror.ErrSlotDisabled
			}

			return apply(ctx)
		})
	} else {
		err = apply(ctx)
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, apperror.ErrSlotTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.ErrBookingNotFound
		case isAppError(err):
			return nil, err
		}
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(status)),
		)
		return nil, apperror.Internal(err, "failed to update booking")
	}

	previous := booking.Status
	booking.Status = status
	booking.UpdatedAt = now

	s.log.Info("Booking status updated",
		zap.String("booking_id", booking.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	detail := s.detailAfterUpdate(ctx, booking)
	if detail == nil {
		resp := response.BookingToResponse(booking)
		return &resp, nil
	}

	if status.NotifiesClient() {
		s.notifier.BookingStatusChanged(detail)
	}

	resp := response.BookingDetailToResponse(detail)
	return &resp, nil
}

// detailAfterUpdate loads the joined booking for the response and the client
// mail. The update is already committed, so lookup failures only degrade the
// result: the detail is rebuilt from the client and service rows, and nil is
// returned when the client cannot be found.
func (s *bookingService) detailAfterUpdate(ctx context.Context, booking *entity.Booking) *entity.BookingDetail {
	detail, err := s.repo.Booking.FindDetailByID(ctx, booking.ID)
	if err == nil && detail != nil {
		return detail
	}
	s.log.Warn("Failed to load booking detail after status change",
		zap.Error(err), zap.String("booking_id", booking.ID.String()))

	client, err := s.repo.User.FindByID(ctx, booking.ClientID)
	if err != nil || client == nil {
		s.log.Warn("Client missing for booking, skipping notification",
			zap.Error(err), zap.String("booking_id", booking.ID.String()))
		return nil
	}

	detail = &entity.BookingDetail{
		Booking:     *booking,
		ClientName:  client.FullName,
		ClientEmail: client.Email,
		ClientPhone: client.Phone,
	}
	if service, err := s.repo.Service.FindByID(ctx, booking.ServiceID); err == nil && service != nil {
		detail.ServiceName = service.Name
		detail.ServicePrice = service.Price
	}
	return detail
}

func (s *bookingService) GetMyBookings(ctx context.Context, clientID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter, err := s.listFilter(req)
	if err != nil {
		return nil, err
	}
	filter.ClientID = &clientID
	filter.Newest = true

	return s.list(ctx, filter, req.PaginatedRequest)
}

// GetOwnerBookings lists one business day when a date is given, otherwise
// every booking from now on.
func (s *bookingService) GetOwnerBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	filter, err := s.listFilter(req)
	if err != nil {
		return nil, err
	}
	if filter.From == nil {
		now := s.now()
		filter.From = &now
	}

	return s.list(ctx, filter, req.PaginatedRequest)
}

func (s *bookingService) listFilter(req *request.BookingListRequest) (repository.BookingFilter, error) {
	var filter repository.BookingFilter
	normalizePage(&req.PaginatedRequest)
	if err := validate(req); err != nil {
		return filter, err
	}

	if req.Status != nil && *req.Status != "" {
		status, ok := entity.ParseBookingStatus(*req.Status)
		if !ok {
			return filter, apperror.ErrInvalidStatus
		}
		filter.Status = &status
	}

	if req.Date != nil && *req.Date != "" {
		date, err := scheduling.ParseDate(*req.Date)
		if err != nil {
			return filter, apperror.Validation("date must be YYYY-MM-DD")
		}
		from, to := scheduling.DayBounds(date)
		filter.From, filter.To = &from, &to
	}

	filter.Limit = req.Limit()
	filter.Offset = req.Offset()
	return filter, nil
}

func (s *bookingService) list(ctx context.Context, filter repository.BookingFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	details, err := s.repo.Booking.FindDetails(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, apperror.Internal(err, "failed to list bookings")
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count bookings", zap.Error(err))
		return nil, apperror.Internal(err, "failed to list bookings")
	}

	items := make([]response.BookingResponse, len(details))
	for i, d := range details {
		items[i] = response.BookingDetailToResponse(d)
	}

	return response.NewPaginatedResponse(items, page.Page, page.PerPage, total), nil
}
