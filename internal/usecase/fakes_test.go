package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/data/repository"
	"barber-booking/internal/scheduling"
	"barber-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeTx serialises schedule mutations the way the advisory lock does.
type fakeTx struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTx) WithinScheduleLock(ctx context.Context, _, _ time.Time, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return fn(ctx)
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[uuid.UUID]entity.User{}}
}

func (f *fakeUsers) put(u *entity.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = *u
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) findWhere(match func(u entity.User) bool) *entity.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.DeletedAt == nil && match(u) {
			out := u
			return &out
		}
	}
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return f.findWhere(func(u entity.User) bool { return u.ID == id }), nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return f.findWhere(func(u entity.User) bool { return u.Email == email }), nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return f.findWhere(func(u entity.User) bool { return u.Username == username }), nil
}

func (f *fakeUsers) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	return f.findWhere(func(u entity.User) bool { return u.Phone != nil && *u.Phone == phone }), nil
}

func (f *fakeUsers) FindByCredential(_ context.Context, credential string) (*entity.User, error) {
	return f.findWhere(func(u entity.User) bool {
		return u.Username == credential || u.Email == credential || (u.Phone != nil && *u.Phone == credential)
	}), nil
}

func (f *fakeUsers) FindByRole(_ context.Context, role entity.UserRole, limit, offset int) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.User
	for _, u := range f.users {
		if u.Role == role && u.DeletedAt == nil {
			c := u
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUsers) CountByRole(ctx context.Context, role entity.UserRole) (int64, error) {
	all, _ := f.FindByRole(ctx, role, 0, 0)
	return int64(len(all)), nil
}

func (f *fakeUsers) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.DeletedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	u.DeletedAt = &now
	u.IsActive = false
	f.users[id] = u
	return nil
}

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]entity.Session
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{sessions: map[uuid.UUID]entity.Session{}}
}

func (f *fakeSessions) Create(_ context.Context, s *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[s.ID] = *s
	return nil
}

func (f *fakeSessions) FindValidSession(_ context.Context, id uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || !s.IsValid(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessions) Revoke(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	f.sessions[id] = s
	return nil
}

func (f *fakeSessions) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for id, s := range f.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			f.sessions[id] = s
		}
	}
	return nil
}

func (f *fakeSessions) CleanExpiredSessions(context.Context) error { return nil }

type fakeCodes struct {
	mu    sync.Mutex
	codes []entity.VerificationCode
}

func (f *fakeCodes) Create(_ context.Context, c *entity.VerificationCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, *c)
	return nil
}

func (f *fakeCodes) FindLatestActive(_ context.Context, userID uuid.UUID, purpose entity.CodePurpose) (*entity.VerificationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.codes) - 1; i >= 0; i-- {
		c := f.codes[i]
		if c.UserID == userID && c.Purpose == purpose && c.UsedAt == nil {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCodes) MarkAsUsed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.codes {
		if f.codes[i].ID == id {
			now := time.Now()
			f.codes[i].UsedAt = &now
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeCodes) InvalidateAll(_ context.Context, userID uuid.UUID, purpose entity.CodePurpose) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for i := range f.codes {
		if f.codes[i].UserID == userID && f.codes[i].Purpose == purpose && f.codes[i].UsedAt == nil {
			f.codes[i].UsedAt = &now
		}
	}
	return nil
}

type fakeServices struct {
	mu       sync.Mutex
	services map[uuid.UUID]entity.Service
}

func newFakeServices() *fakeServices {
	return &fakeServices{services: map[uuid.UUID]entity.Service{}}
}

func (f *fakeServices) Create(_ context.Context, s *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.services[s.ID] = *s
	return nil
}

func (f *fakeServices) FindByID(_ context.Context, id uuid.UUID) (*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeServices) FindAll(_ context.Context, activeOnly bool) ([]*entity.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Service
	for _, s := range f.services {
		if activeOnly && !s.Active {
			continue
		}
		c := s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeServices) Update(_ context.Context, s *entity.Service) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.services[s.ID]; !ok {
		return repository.ErrNotFound
	}
	f.services[s.ID] = *s
	return nil
}

// fakeBookings joins details from the user and service fakes.
type fakeBookings struct {
	mu        sync.Mutex
	bookings  map[uuid.UUID]entity.Booking
	users     *fakeUsers
	services  *fakeServices
	createErr error
	detailErr error
}

func newFakeBookings(users *fakeUsers, services *fakeServices) *fakeBookings {
	return &fakeBookings{bookings: map[uuid.UUID]entity.Booking{}, users: users, services: services}
}

func (f *fakeBookings) Create(_ context.Context, b *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookings) detail(b entity.Booking) *entity.BookingDetail {
	d := &entity.BookingDetail{Booking: b}
	if s, _ := f.services.FindByID(context.Background(), b.ServiceID); s != nil {
		d.ServiceName, d.ServicePrice = s.Name, s.Price
	}
	if u, _ := f.users.FindByID(context.Background(), b.ClientID); u != nil {
		d.ClientName, d.ClientEmail, d.ClientPhone = u.FullName, u.Email, u.Phone
	}
	return d
}

func (f *fakeBookings) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.BookingDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	b, _ := f.FindByID(ctx, id)
	if b == nil {
		return nil, nil
	}
	return f.detail(*b), nil
}

func (f *fakeBookings) FindActiveOverlapping(_ context.Context, start, end time.Time) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.Status.IsActive() && b.StartTime.Before(end) && b.EndTime.After(start) {
			c := b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeBookings) matching(filter repository.BookingFilter) []entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.bookings {
		if filter.ClientID != nil && b.ClientID != *filter.ClientID {
			continue
		}
		if filter.ServiceID != nil && b.ServiceID != *filter.ServiceID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.From != nil && b.StartTime.Before(*filter.From) {
			continue
		}
		if filter.To != nil && b.StartTime.After(*filter.To) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Newest {
			return out[i].StartTime.After(out[j].StartTime)
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func (f *fakeBookings) FindDetails(_ context.Context, filter repository.BookingFilter) ([]*entity.BookingDetail, error) {
	list := f.matching(filter)
	if filter.Offset >= len(list) {
		list = nil
	} else {
		list = list[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(list) {
		list = list[:filter.Limit]
	}
	out := make([]*entity.BookingDetail, len(list))
	for i, b := range list {
		out[i] = f.detail(b)
	}
	return out, nil
}

func (f *fakeBookings) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	return int64(len(f.matching(filter))), nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	f.bookings[id] = b
	return nil
}

func (f *fakeBookings) active() []entity.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.Status.IsActive() {
			out = append(out, b)
		}
	}
	return out
}

type fakeBlocks struct {
	mu     sync.Mutex
	blocks map[uuid.UUID]entity.DisabledRange
}

func newFakeBlocks() *fakeBlocks {
	return &fakeBlocks{blocks: map[uuid.UUID]entity.DisabledRange{}}
}

func (f *fakeBlocks) Create(_ context.Context, b *entity.DisabledRange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks[b.ID] = *b
	return nil
}

func (f *fakeBlocks) FindByID(_ context.Context, id uuid.UUID) (*entity.DisabledRange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blocks[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBlocks) list(keep func(b entity.DisabledRange) bool) []*entity.DisabledRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.DisabledRange
	for _, b := range f.blocks {
		if keep(b) {
			c := b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeBlocks) FindOverlapping(_ context.Context, start, end time.Time) ([]*entity.DisabledRange, error) {
	return f.list(func(b entity.DisabledRange) bool {
		return b.StartTime.Before(end) && b.EndTime.After(start)
	}), nil
}

func (f *fakeBlocks) FindEndingAfter(_ context.Context, t time.Time) ([]*entity.DisabledRange, error) {
	return f.list(func(b entity.DisabledRange) bool { return !b.EndTime.Before(t) }), nil
}

func (f *fakeBlocks) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blocks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.blocks, id)
	return nil
}

type fakeSchedules struct {
	mu        sync.Mutex
	schedules map[int]entity.OwnerSchedule
}

func (f *fakeSchedules) FindAll(context.Context) ([]*entity.OwnerSchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.OwnerSchedule
	for _, s := range f.schedules {
		c := s
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (f *fakeSchedules) Upsert(_ context.Context, s *entity.OwnerSchedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.schedules == nil {
		f.schedules = map[int]entity.OwnerSchedule{}
	}
	f.schedules[s.Weekday] = *s
	return nil
}

type codeMail struct {
	email string
	code  string
}

type fakeNotifier struct {
	mu      sync.Mutex
	created []*entity.BookingDetail
	changed []*entity.BookingDetail
	verify  []codeMail
	reset   []codeMail
}

func (f *fakeNotifier) BookingCreated(b *entity.BookingDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, b)
}

func (f *fakeNotifier) BookingStatusChanged(b *entity.BookingDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed = append(f.changed, b)
}

func (f *fakeNotifier) VerificationCode(user *entity.User, code string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verify = append(f.verify, codeMail{user.Email, code})
}

func (f *fakeNotifier) PasswordResetCode(user *entity.User, code string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset = append(f.reset, codeMail{user.Email, code})
}

func (f *fakeNotifier) counts() (created, changed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created), len(f.changed)
}

// testEnv wires every service to in-memory fakes and a fixed clock.
type testEnv struct {
	repo      *repository.Repository
	users     *fakeUsers
	sessions  *fakeSessions
	codes     *fakeCodes
	services  *fakeServices
	bookings  *fakeBookings
	blocks    *fakeBlocks
	schedules *fakeSchedules
	tx        *fakeTx
	notifier  *fakeNotifier
	config    *utils.Config
	now       time.Time

	haircut *entity.Service
	client  *entity.User
}

// 2025-06-01 12:00 business time, the Sunday before the dates used in tests.
var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, scheduling.Location)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUsers()
	services := newFakeServices()
	env := &testEnv{
		users:     users,
		sessions:  newFakeSessions(),
		codes:     &fakeCodes{},
		services:  services,
		bookings:  newFakeBookings(users, services),
		blocks:    newFakeBlocks(),
		schedules: &fakeSchedules{},
		tx:        &fakeTx{},
		notifier:  &fakeNotifier{},
		now:       testNow,
		config: &utils.Config{
			JWT: utils.JWTConfig{Secret: "test-secret", ExpiryHours: 24},
			OTP: utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		},
	}
	env.repo = &repository.Repository{
		User:          env.users,
		Session:       env.sessions,
		Code:          env.codes,
		Service:       env.services,
		Booking:       env.bookings,
		DisabledRange: env.blocks,
		OwnerSchedule: env.schedules,
		Tx:            env.tx,
	}

	env.haircut = &entity.Service{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		Name:         "Corte de cabello",
		DurationMin:  35,
		Price:        25,
		Active:       true,
	}
	env.services.Create(context.Background(), env.haircut)

	env.client = &entity.User{
		Base:          entity.Base{ID: uuid.New()},
		FullName:      "Ana Pérez",
		Username:      "ana",
		Email:         "ana@example.com",
		Role:          entity.RoleClient,
		EmailVerified: true,
		IsActive:      true,
	}
	env.users.put(env.client)

	return env
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) bookingService() *bookingService {
	s := NewBookingService(e.repo, e.notifier, zap.NewNop()).(*bookingService)
	s.now = e.clock
	return s
}

func (e *testEnv) availabilityService() *availabilityService {
	s := NewAvailabilityService(e.repo, zap.NewNop()).(*availabilityService)
	s.now = e.clock
	return s
}

func (e *testEnv) blockService() *blockService {
	s := NewBlockService(e.repo, zap.NewNop()).(*blockService)
	s.now = e.clock
	return s
}

func (e *testEnv) authService() *authService {
	s := NewAuthService(e.repo, e.notifier, e.config, zap.NewNop()).(*authService)
	s.now = e.clock
	return s
}

// at resolves an HH:mm on a YYYY-MM-DD business date.
func at(t *testing.T, date, clock string) time.Time {
	t.Helper()
	d, err := scheduling.ParseDate(date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return scheduling.ResolveInstant(d, clock)
}

// seedBooking stores a booking directly, bypassing the engine.
func (e *testEnv) seedBooking(t *testing.T, start time.Time, minutes int, status entity.BookingStatus) *entity.Booking {
	t.Helper()
	b := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: e.now, UpdatedAt: e.now},
		ClientID:     e.client.ID,
		ServiceID:    e.haircut.ID,
		StartTime:    start,
		EndTime:      scheduling.AddMinutes(start, minutes),
		Status:       status,
	}
	if err := e.bookings.Create(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func (e *testEnv) seedBlock(t *testing.T, start, end time.Time) *entity.DisabledRange {
	t.Helper()
	b := &entity.DisabledRange{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: e.now},
		StartTime:  start,
		EndTime:    end,
	}
	if err := e.blocks.Create(context.Background(), b); err != nil {
		t.Fatalf("seed block: %v", err)
	}
	return b
}
