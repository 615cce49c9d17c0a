package usecase

import (
	"context"
	"testing"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/dto/request"
	"barber-booking/internal/scheduling"
	"barber-booking/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func detail(t *testing.T, serviceID uuid.UUID, name string, price float64, start string, status entity.BookingStatus) *entity.BookingDetail {
	t.Helper()
	d := &entity.BookingDetail{ServiceName: name, ServicePrice: price}
	d.ID = uuid.New()
	d.ServiceID = serviceID
	d.Status = status
	d.StartTime = at(t, start[:10], start[11:])
	d.EndTime = scheduling.AddMinutes(d.StartTime, 35)
	return d
}

func TestSummarizeCountsRevenueFromCompletedOnly(t *testing.T) {
	cut, beard := uuid.New(), uuid.New()
	bookings := []*entity.BookingDetail{
		detail(t, cut, "Corte", 25, "2025-06-01 09:00", entity.BookingStatusCompleted),
		detail(t, cut, "Corte", 25, "2025-06-01 10:00", entity.BookingStatusCompleted),
		detail(t, beard, "Barba", 15, "2025-05-30 09:00", entity.BookingStatusCompleted),
		detail(t, beard, "Barba", 15, "2025-05-30 11:00", entity.BookingStatusCancelled),
		detail(t, cut, "Corte", 25, "2025-06-01 15:00", entity.BookingStatusPending),
	}

	stats := summarize(bookings, nil, testNow)

	if stats.TotalBookings != 5 {
		t.Fatalf("expected 5 bookings, got %d", stats.TotalBookings)
	}
	if stats.Revenue != 65 {
		t.Fatalf("expected revenue 65, got %v", stats.Revenue)
	}
	if stats.ByStatus["COMPLETED"] != 3 || stats.ByStatus["CANCELLED"] != 1 || stats.ByStatus["PENDING"] != 1 || stats.ByStatus["CONFIRMED"] != 0 {
		t.Fatalf("unexpected status breakdown %v", stats.ByStatus)
	}

	if len(stats.RevenueByDay) != 2 ||
		stats.RevenueByDay[0].Date != "2025-05-30" || stats.RevenueByDay[0].Revenue != 15 ||
		stats.RevenueByDay[1].Date != "2025-06-01" || stats.RevenueByDay[1].Revenue != 50 {
		t.Fatalf("unexpected revenue by day %+v", stats.RevenueByDay)
	}

	if len(stats.TopServices) != 2 || stats.TopServices[0].Name != "Corte" || stats.TopServices[0].Count != 2 {
		t.Fatalf("unexpected ranking %+v", stats.TopServices)
	}
}

func TestSummarizeToday(t *testing.T) {
	cut := uuid.New()
	today := []*entity.BookingDetail{
		detail(t, cut, "Corte", 25, "2025-06-01 09:00", entity.BookingStatusCompleted),
		detail(t, cut, "Corte", 25, "2025-06-01 13:00", entity.BookingStatusConfirmed),
		detail(t, cut, "Corte", 25, "2025-06-01 14:00", entity.BookingStatusCancelled),
		detail(t, cut, "Corte", 25, "2025-06-01 15:00", entity.BookingStatusPending),
	}

	stats := summarize(nil, today, testNow)

	if stats.Today.Date != "2025-06-01" || stats.Today.Bookings != 4 {
		t.Fatalf("unexpected today %+v", stats.Today)
	}
	if stats.Today.Completed != 1 || stats.Today.Revenue != 25 {
		t.Fatalf("expected one completed booking worth 25, got %+v", stats.Today)
	}
	if len(stats.Today.NextBookings) != 2 || stats.Today.NextBookings[0].Status != "CONFIRMED" {
		t.Fatalf("expected the two upcoming active bookings, got %+v", stats.Today.NextBookings)
	}
}

func TestSummarizeEmptyCollectionsAreNotNil(t *testing.T) {
	stats := summarize(nil, nil, testNow)
	if stats.RevenueByDay == nil || stats.TopServices == nil || stats.Today.NextBookings == nil {
		t.Fatal("empty lists must render as [] not null")
	}
}

func TestGetStatsRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	s := NewStatsService(env.bookings, zap.NewNop()).(*statsService)
	s.now = env.clock

	from, to := "2025-06-10", "2025-06-01"
	_, err := s.GetStats(context.Background(), &request.StatsRequest{From: &from, To: &to})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetStatsDefaultsToCurrentMonth(t *testing.T) {
	env := newTestEnv(t)
	env.seedBooking(t, at(t, "2025-05-31", "09:00"), 35, entity.BookingStatusCompleted)
	env.seedBooking(t, at(t, "2025-06-01", "09:00"), 35, entity.BookingStatusCompleted)

	s := NewStatsService(env.bookings, zap.NewNop()).(*statsService)
	s.now = env.clock

	stats, err := s.GetStats(context.Background(), &request.StatsRequest{})
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.From != "2025-06-01" || stats.To != "2025-06-01" {
		t.Fatalf("unexpected range %s..%s", stats.From, stats.To)
	}
	if stats.TotalBookings != 1 || stats.Revenue != env.haircut.Price {
		t.Fatalf("expected only June's booking, got %+v", stats)
	}
}
