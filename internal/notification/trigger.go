package notification

import (
	"context"
	"errors"
	"sync"
	"time"

	"barber-booking/internal/data/entity"

	"go.uber.org/zap"
)

// OwnerDirectory finds who receives new-booking mail.
type OwnerDirectory interface {
	FindByRole(ctx context.Context, role entity.UserRole, limit, offset int) ([]*entity.User, error)
}

const maxOwnerRecipients = 50

// Trigger fires notifications off the request path. Every method returns
// immediately; failures are logged and dropped.
type Trigger struct {
	owners      OwnerDirectory
	sender      Sender
	frontendURL string
	timeout     time.Duration
	log         *zap.Logger
	wg          sync.WaitGroup
}

func NewTrigger(owners OwnerDirectory, sender Sender, frontendURL string, timeout time.Duration, log *zap.Logger) *Trigger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Trigger{
		owners:      owners,
		sender:      sender,
		frontendURL: frontendURL,
		timeout:     timeout,
		log:         log.With(zap.String("component", "notification")),
	}
}

// BookingCreated mails every owner about a new pending booking.
func (t *Trigger) BookingCreated(b *entity.BookingDetail) {
	booking := *b
	t.fire("booking_created", func(ctx context.Context) error {
		owners, err := t.owners.FindByRole(ctx, entity.RoleOwner, maxOwnerRecipients, 0)
		if err != nil {
			return err
		}
		if len(owners) == 0 {
			t.log.Warn("No owners found to notify about new booking",
				zap.String("booking_id", booking.ID.String()))
			return nil
		}

		var errs []error
		for _, owner := range owners {
			if err := t.sender.Send(ctx, newBookingMessage(owner.Email, &booking, t.frontendURL)); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// BookingStatusChanged mails the client when a booking is confirmed, cancelled or completed.
func (t *Trigger) BookingStatusChanged(b *entity.BookingDetail) {
	msg, ok := statusChangedMessage(b, t.frontendURL)
	if !ok {
		return
	}
	t.fire("booking_status_changed", func(ctx context.Context) error {
		return t.sender.Send(ctx, msg)
	})
}

func (t *Trigger) VerificationCode(user *entity.User, code string, ttl time.Duration) {
	msg := verificationMessage(user.Email, code, ttl)
	t.fire("verification_code", func(ctx context.Context) error {
		return t.sender.Send(ctx, msg)
	})
}

func (t *Trigger) PasswordResetCode(user *entity.User, code string, ttl time.Duration) {
	msg := passwordResetMessage(user.Email, code, ttl)
	t.fire("password_reset_code", func(ctx context.Context) error {
		return t.sender.Send(ctx, msg)
	})
}

func (t *Trigger) fire(event string, fn func(ctx context.Context) error) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				t.log.Error("Notification panicked", zap.String("event", event), zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			t.log.Warn("Notification failed", zap.String("event", event), zap.Error(err))
			return
		}
		t.log.Debug("Notification sent", zap.String("event", event))
	}()
}

// Wait blocks until in-flight notifications finish or ctx is done.
func (t *Trigger) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
