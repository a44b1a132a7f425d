package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCart(r chi.Router, h *adaptor.CartHandler, repo *repository.Repository, log *zap.Logger) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/", h.GetCart)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items", h.UpdateItem)
		r.Delete("/items/{type}/{id}", h.RemoveItem)
		r.Put("/dates", h.SetDates)
		r.Post("/checkout", h.Checkout)
	})
}
