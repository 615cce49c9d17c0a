package usecase

import (
	"context"
	"sort"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/dto/response"
	"barber-booking/internal/scheduling"
	"barber-booking/pkg/apperror"

	"go.uber.org/zap"
)

const (
	topServicesLimit  = 5
	nextBookingsLimit = 5
)

type StatsService interface {
	// GetStats defaults to the current month up to today.
	GetStats(ctx context.Context, req *request.StatsRequest) (*response.StatsResponse, error)
}

type statsService struct {
	bookingRepo repository.BookingRepository
	now         func() time.Time
	log         *zap.Logger
}

func NewStatsService(bookingRepo repository.BookingRepository, log *zap.Logger) StatsService {
	return &statsService{
		bookingRepo: bookingRepo,
		now:         time.Now,
		log:         log.With(zap.String("service", "stats")),
	}
}

func (s *statsService) GetStats(ctx context.Context, req *request.StatsRequest) (*response.StatsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.now().In(scheduling.Location)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, scheduling.Location)
	to := now

	if req.From != nil && *req.From != "" {
		d, err := scheduling.ParseDate(*req.From)
		if err != nil {
			return nil, apperror.Validation("from must be YYYY-MM-DD")
		}
		from = d
	}
	if req.To != nil && *req.To != "" {
		d, err := scheduling.ParseDate(*req.To)
		if err != nil {
			return nil, apperror.Validation("to must be YYYY-MM-DD")
		}
		to = d
	}

	rangeStart, _ := scheduling.DayBounds(from)
	_, rangeEnd := scheduling.DayBounds(to)
	if rangeEnd.Before(rangeStart) {
		return nil, apperror.Validation("from must not be after to")
	}

	details, err := s.bookingRepo.FindDetails(ctx, repository.BookingFilter{From: &rangeStart, To: &rangeEnd})
	if err != nil {
		s.log.Error("Failed to load bookings for stats", zap.Error(err))
		return nil, apperror.Internal(err, "failed to compute stats")
	}

	todayStart, todayEnd := scheduling.DayBounds(now)
	today, err := s.bookingRepo.FindDetails(ctx, repository.BookingFilter{From: &todayStart, To: &todayEnd})
	if err != nil {
		s.log.Error("Failed to load today's bookings for stats", zap.Error(err))
		return nil, apperror.Internal(err, "failed to compute stats")
	}

	stats := summarize(details, today, now)
	stats.From = scheduling.BusinessDate(rangeStart)
	stats.To = scheduling.BusinessDate(rangeEnd)
	return stats, nil
}

// summarize builds the dashboard from already-loaded bookings. Revenue only
// counts COMPLETED bookings.
func summarize(bookings, today []*entity.BookingDetail, now time.Time) *response.StatsResponse {
	stats := &response.StatsResponse{
		TotalBookings: len(bookings),
		ByStatus: map[string]int{
			string(entity.BookingStatusPending):   0,
			string(entity.BookingStatusConfirmed): 0,
			string(entity.BookingStatusCancelled): 0,
			string(entity.BookingStatusCompleted): 0,
		},
		RevenueByDay: []response.DayRevenue{},
		TopServices:  []response.ServiceRanking{},
	}

	byDay := map[string]float64{}
	byService := map[string]*response.ServiceRanking{}

	for _, b := range bookings {
		stats.ByStatus[string(b.Status)]++
		if b.Status != entity.BookingStatusCompleted {
			continue
		}

		stats.Revenue += b.ServicePrice
		byDay[scheduling.BusinessDate(b.StartTime)] += b.ServicePrice

		key := b.ServiceID.String()
		rank, ok := byService[key]
		if !ok {
			rank = &response.ServiceRanking{ServiceID: key, Name: b.ServiceName}
			byService[key] = rank
		}
		rank.Count++
		rank.Revenue += b.ServicePrice
	}

	for date, revenue := range byDay {
		stats.RevenueByDay = append(stats.RevenueByDay, response.DayRevenue{Date: date, Revenue: revenue})
	}
	sort.Slice(stats.RevenueByDay, func(i, j int) bool {
		return stats.RevenueByDay[i].Date < stats.RevenueByDay[j].Date
	})

	for _, rank := range byService {
		stats.TopServices = append(stats.TopServices, *rank)
	}
	sort.Slice(stats.TopServices, func(i, j int) bool {
		a, b := stats.TopServices[i], stats.TopServices[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(stats.TopServices) > topServicesLimit {
		stats.TopServices = stats.TopServices[:topServicesLimit]
	}

	stats.Today = response.TodayStats{
		Date:         scheduling.BusinessDate(now),
		Bookings:     len(today),
		NextBookings: []response.BookingResponse{},
	}
	for _, b := range today {
		if b.Status == entity.BookingStatusCompleted {
			stats.Today.Completed++
			stats.Today.Revenue += b.ServicePrice
		}
		if !b.StartTime.Before(now) && b.Status != entity.BookingStatusCancelled &&
			len(stats.Today.NextBookings) < nextBookingsLimit {
			stats.Today.NextBookings = append(stats.Today.NextBookings, response.BookingDetailToResponse(b))
		}
	}

	return stats
}
