package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/internal/data/repository"
	"rental-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(r chi.Router, h *adaptor.CatalogHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/equipment", h.ListEquipment)
	r.Get("/api/equipment/{id}", h.GetEquipment)
	r.Get("/api/packages", h.ListPackages)
	r.Get("/api/packages/{id}", h.GetPackage)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.Admin(repo.User, log))

		r.Post("/api/equipment", h.CreateEquipment)
		r.Put("/api/equipment/{id}", h.UpdateEquipment)
		r.Delete("/api/equipment/{id}", h.DeleteEquipment)

		r.Post("/api/packages", h.CreatePackage)
		r.Put("/api/packages/{id}", h.UpdatePackage)
		r.Delete("/api/packages/{id}", h.DeletePackage)
	})
}
