// Package memstore keeps every repository in process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
package memstore

import (
	"sync"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

// db is shared by all stores so cross-table operations (cascading deletes,
// session role lookups) see one consistent state.
type db struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*entity.User
	sessions  map[string]*entity.Session
	otps      []*entity.OTP
	equipment map[uuid.UUID]*entity.Equipment
	packages  map[uuid.UUID]*entity.Package
	bookings  map[uuid.UUID]*entity.Booking
	messages  []*entity.Message
}

// New returns a Repository whose stores all share the same memory.
func New() *repository.Repository {
	d := &db{
		users:     make(map[uuid.UUID]*entity.User),
		sessions:  make(map[string]*entity.Session),
		equipment: make(map[uuid.UUID]*entity.Equipment),
		packages:  make(map[uuid.UUID]*entity.Package),
		bookings:  make(map[uuid.UUID]*entity.Booking),
	}

	return &repository.Repository{
		User:      &userStore{d},
		Session:   &sessionStore{d},
		OTP:       &otpStore{d},
		Equipment: &equipmentStore{d},
		Package:   &packageStore{d},
		Inventory: &inventoryStore{d},
		Booking:   &bookingStore{d},
		Message:   &messageStore{d},
		Throttle:  NewThrottle(),
	}
}
