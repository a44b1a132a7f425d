package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, repo *repository.Repository, log *zap.Logger) {
	r.Post("/api/signup", authHandler.Signup)
	r.Post("/api/verify-otp", authHandler.VerifyOTP)
	r.Post("/api/resend-otp", authHandler.ResendOTP)
	r.Post("/api/login", authHandler.Login)

	r.With(middleware.AuthSession(repo.Session, log)).Post("/api/logout", authHandler.Logout)
}
