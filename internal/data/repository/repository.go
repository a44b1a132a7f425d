package repository

import (
	"errors"

	"rental-booking/pkg/database"

	"go.uber.org/zap"
)

// ErrNotFound is returned by writes that matched no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	User      UserRepository
	Session   SessionRepository
	OTP       OTPRepository
	Equipment EquipmentRepository
	Package   PackageRepository
	Inventory InventoryRepository
	Booking   BookingRepository
	Message   MessageRepository
	Throttle  ThrottleRepository
}

// NewRepository wires the Postgres repositories. Throttle is left to the
// caller because it lives in Redis or in memory.
func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Session:   NewSessionRepository(db, log),
		OTP:       NewOTPRepository(db, log),
		Equipment: NewEquipmentRepository(db, log),
		Package:   NewPackageRepository(db, log),
		Inventory: NewInventoryRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Message:   NewMessageRepository(db, log),
	}
}

type scanner interface {
	Scan(dest ...any) error
}
