package usecase

import (
	"context"

	"rental-booking/internal/cart"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/notification"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

// Notifications is the slice of the dispatcher the services use. OTPs are
// delivered inline; receipts and rejections are queued.
type Notifications interface {
	SendOTP(ctx context.Context, msg notification.OTPMessage) error
	QueueReceipt(r notification.Receipt)
	QueueRejection(r notification.Rejection)
}

// Emitter pushes a realtime event to whatever connection a user holds.
type Emitter interface {
	EmitToUser(ctx context.Context, userID, event string, payload any) error
}

type Service struct {
	Auth    AuthService
	User    UserService
	Catalog CatalogService
	Booking BookingService
	Payment PaymentService
	Cart    CartService
	Message MessageService
}

func NewService(
	repo *repository.Repository,
	carts cart.Store,
	notifier Notifications,
	emitter Emitter,
	config *utils.Config,
	log *zap.Logger,
) *Service {
	booking := NewBookingService(repo, notifier, log)

	return &Service{
		Auth:    NewAuthService(repo, notifier, config, log),
		User:    NewUserService(repo.User, log),
		Catalog: NewCatalogService(repo, log),
		Booking: booking,
		Payment: NewPaymentService(repo, notifier, log),
		Cart:    NewCartService(repo, carts, booking, log),
		Message: NewMessageService(repo, emitter, log),
	}
}
