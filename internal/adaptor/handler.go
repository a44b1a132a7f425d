package adaptor

import (
	"rental-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Catalog  *CatalogHandler
	Booking  *BookingHandler
	Cart     *CartHandler
	Message  *MessageHandler
	Realtime *RealtimeHandler
}

func NewHandler(service *usecase.Service, socket SocketServer, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Catalog:  NewCatalogHandler(service.Catalog, log),
		Booking:  NewBookingHandler(service.Booking, service.Payment, log),
		Cart:     NewCartHandler(service.Cart, log),
		Message:  NewMessageHandler(service.Message, log),
		Realtime: NewRealtimeHandler(socket, log),
	}
}
