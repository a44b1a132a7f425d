package adaptor

import (
	"net/http"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	c, err := h.service.GetCart(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get cart")
		return
	}
	utils.ResponseSuccess(w, "success", c)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.service.AddItem(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add cart item")
		return
	}
	utils.ResponseSuccess(w, "Added to cart", c)
}

// UpdateItem handles PUT /api/cart/items
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.service.UpdateItem(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update cart item")
		return
	}
	utils.ResponseSuccess(w, "Cart updated", c)
}

// RemoveItem handles DELETE /api/cart/items/{type}/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	itemType := entity.ItemType(chi.URLParam(r, "type"))
	if !itemType.Valid() {
		utils.ResponseBadRequest(w, "Invalid item type", nil)
		return
	}
	itemID, ok := urlUUID(w, r, "id", "item")
	if !ok {
		return
	}

	c, err := h.service.RemoveItem(r.Context(), userID, itemType, itemID)
	if err != nil {
		handleServiceError(w, h.log, err, "remove cart item")
		return
	}
	utils.ResponseSuccess(w, "Removed from cart", c)
}

// SetDates handles PUT /api/cart/dates
func (h *CartHandler) SetDates(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CartDatesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.service.SetDates(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set cart dates")
		return
	}
	utils.ResponseSuccess(w, "Rental dates updated", c)
}

// Clear handles DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Clear(r.Context(), userID); err != nil {
		handleServiceError(w, h.log, err, "clear cart")
		return
	}
	utils.ResponseSuccess(w, "Cart cleared", nil)
}

// Checkout handles POST /api/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req request.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Checkout(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "checkout")
		return
	}
	utils.ResponseCreated(w, resp.Message, resp)
}
