package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMessage(r chi.Router, h *adaptor.MessageHandler, repo *repository.Repository, log *zap.Logger) {
	r.Route("/api/messages", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/", h.Send)
		r.With(middleware.Admin(repo.User, log)).Get("/conversations", h.Conversations)
		r.Put("/read/{userId}", h.MarkRead)
		r.Get("/unread/{userId}", h.UnreadCount)
		r.Get("/{userId}", h.Thread)
	})
}
