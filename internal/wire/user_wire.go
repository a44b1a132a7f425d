package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, repo *repository.Repository, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Get("/api/profile", userHandler.GetProfile)
		r.Put("/api/profile", userHandler.UpdateProfile)

		// GET /api/users?page=1&per_page=20
		r.With(middleware.Admin(repo.User, log)).Get("/api/users", userHandler.GetAllUsers)
	})
}
