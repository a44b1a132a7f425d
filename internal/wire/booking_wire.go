package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, h *adaptor.BookingHandler, repo *repository.Repository, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// ==================== CUSTOMER ROUTES ====================
		r.Post("/api/book", h.CreateBooking)
		r.Get("/api/user/bookings", h.GetUserBookings)
		r.Get("/api/bookings/{id}", h.GetBooking)
		r.Put("/api/bookings/{id}/cancel", h.CancelBooking)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Admin(repo.User, log))

			r.Get("/api/bookings", h.ListBookings)
			r.Get("/api/bookings/payment-verification", h.PaymentDiagnostics)
			r.Put("/api/bookings/{id}/verify-payment", h.VerifyPayment)
			r.Put("/api/bookings/{id}/status", h.UpdateStatus)
			r.Put("/api/bookings/{id}/resolve-issue", h.ResolveIssue)
		})
	})
}
