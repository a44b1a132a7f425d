package adaptor

import (
	"net/http"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

type CatalogHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log.With(zap.String("handler", "catalog")),
	}
}

// ==================== EQUIPMENT ====================

// ListEquipment handles GET /api/equipment (public)
func (h *CatalogHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListEquipment(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list equipment")
		return
	}
	utils.ResponseSuccess(w, "success", items)
}

// GetEquipment handles GET /api/equipment/{id} (public)
func (h *CatalogHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id", "equipment")
	if !ok {
		return
	}

	item, err := h.service.GetEquipment(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get equipment")
		return
	}
	utils.ResponseSuccess(w, "success", item)
}

// CreateEquipment handles POST /api/equipment (admin only)
func (h *CatalogHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	var req request.EquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.CreateEquipment(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create equipment")
		return
	}
	utils.ResponseCreated(w, "Equipment created", item)
}

// UpdateEquipment handles PUT /api/equipment/{id} (admin only)
func (h *CatalogHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id", "equipment")
	if !ok {
		return
	}
	var req request.EquipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.UpdateEquipment(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update equipment")
		return
	}
	utils.ResponseSuccess(w, "Equipment updated", item)
}

// DeleteEquipment handles DELETE /api/equipment/{id} (admin only)
func (h *CatalogHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id", "equipment")
	if !ok {
		return
	}

	if err := h.service.DeleteEquipment(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete equipment")
		return
	}
	utils.ResponseSuccess(w, "Equipment deleted", nil)
}

// ==================== PACKAGES ====================

// ListPackages handles GET /api/packages (public)
func (h *CatalogHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListPackages(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list packages")
		return
	}
	utils.ResponseSuccess(w, "success", items)
}

// GetPackage handles GET /api/packages/{id} (public)
func (h *CatalogHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id", "package")
	if !ok {
		return
	}

	item, err := h.service.GetPackage(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.log, err, "get package")
		return
	}
	utils.ResponseSuccess(w, "success", item)
}

// CreatePackage handles POST /api/packages (admin only)
func (h *CatalogHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var req request.PackageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.CreatePackage(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create package")
		return
	}
	utils.ResponseCreated(w, "Package created", item)
}

// UpdatePackage handles PUT /api/packages/{id} (admin only)
func (h *CatalogHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id", "package")
	if !ok {
		return
	}
	var req request.PackageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.UpdatePackage(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update package")
		return
	}
	utils.ResponseSuccess(w, "Package updated", item)
}

// DeletePackage handles DELETE /api/packages/{id} (admin only)
func (h *CatalogHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id", "package")
	if !ok {
		return
	}

	if err := h.service.DeletePackage(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete package")
		return
	}
	utils.ResponseSuccess(w, "Package deleted", nil)
}
