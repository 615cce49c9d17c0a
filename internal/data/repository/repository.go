package repository

import (
	"barber-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User          UserRepository
	Session       SessionRepository
	Code          VerificationCodeRepository
	Service       ServiceRepository
	Booking       BookingRepository
	DisabledRange DisabledRangeRepository
	OwnerSchedule OwnerScheduleRepository
	Tx            TxManager
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:          NewUserRepository(db, log),
		Session:       NewSessionRepository(db, log),
		Code:          NewVerificationCodeRepository(db, log),
		Service:       NewServiceRepository(db, log),
		Booking:       NewBookingRepository(db, log),
		DisabledRange: NewDisabledRangeRepository(db, log),
		OwnerSchedule: NewOwnerScheduleRepository(db, log),
		Tx:            NewTxManager(db, log),
	}
}
