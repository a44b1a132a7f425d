package adaptor

import (
	"net/http"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service  usecase.BookingService
	payments usecase.PaymentService
	log      *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, payments usecase.PaymentService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		payments: payments,
		log:      log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/book (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, resp.Message, resp)
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), &userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// GetBooking handles GET /api/bookings/{id} (owner or admin)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := urlUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID, userID, utils.IsAdminContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (owner)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, ok := urlUUID(w, r, "id", "booking")
	if !ok {
		return
	}

	if err := h.service.CancelBooking(r.Context(), bookingID, userID); err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "Booking cancelled successfully", nil)
}

// ==================== ADMIN METHODS ====================

// ListBookings handles GET /api/bookings?user_id= (admin only)
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	var filter *uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid user ID", nil)
			return
		}
		filter = &id
	}

	bookings, err := h.service.ListBookings(r.Context(), filter)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// VerifyPayment handles PUT /api/bookings/{id}/verify-payment (admin only)
func (h *BookingHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlUUID(w, r, "id", "booking")
	if !ok {
		return
	}
	var req request.VerifyPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.payments.VerifyPayment(r.Context(), bookingID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, msg, nil)
}

// UpdateStatus handles PUT /api/bookings/{id}/status (admin only)
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlUUID(w, r, "id", "booking")
	if !ok {
		return
	}
	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.UpdateStatus(r.Context(), bookingID, &req); err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", nil)
}

// ResolveIssue handles PUT /api/bookings/{id}/resolve-issue (admin only)
func (h *BookingHandler) ResolveIssue(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := urlUUID(w, r, "id", "booking")
	if !ok {
		return
	}
	var req request.ResolveIssueRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResolveIssue(r.Context(), bookingID, &req); err != nil {
		handleServiceError(w, h.log, err, "resolve booking issue")
		return
	}

	utils.ResponseSuccess(w, "Issue resolved", nil)
}

// PaymentDiagnostics handles GET /api/bookings/payment-verification (admin only)
func (h *BookingHandler) PaymentDiagnostics(w http.ResponseWriter, r *http.Request) {
	report, err := h.payments.Diagnostics(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "payment diagnostics")
		return
	}

	utils.ResponseSuccess(w, "success", report)
}
