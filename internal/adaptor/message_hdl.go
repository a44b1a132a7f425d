package adaptor

import (
	"net/http"
	"strconv"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MessageHandler struct {
	service usecase.MessageService
	log     *zap.Logger
}

func NewMessageHandler(service usecase.MessageService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		log:     log.With(zap.String("handler", "message")),
	}
}

func caller(w http.ResponseWriter, r *http.Request) (usecase.Caller, bool) {
	userID, ok := currentUser(w, r)
	if !ok {
		return usecase.Caller{}, false
	}
	return usecase.Caller{UserID: userID, IsAdmin: utils.IsAdminContext(r.Context())}, true
}

// Send handles POST /api/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	var req request.SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Send(r.Context(), c, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send message")
		return
	}
	utils.ResponseCreated(w, "Message sent", msg)
}

// Thread handles GET /api/messages/{userId}
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	msgs, err := h.service.Thread(r.Context(), c, chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "load thread")
		return
	}
	utils.ResponseSuccess(w, "success", msgs)
}

// Conversations handles GET /api/messages/conversations (admin only)
func (h *MessageHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.service.Conversations(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list conversations")
		return
	}
	utils.ResponseSuccess(w, "success", convs)
}

// MarkRead handles PUT /api/messages/read/{userId}?is_admin=true|false
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}
	readByAdmin, _ := strconv.ParseBool(r.URL.Query().Get("is_admin"))

	resp, err := h.service.MarkRead(r.Context(), c, chi.URLParam(r, "userId"), readByAdmin)
	if err != nil {
		handleServiceError(w, h.log, err, "mark messages read")
		return
	}
	utils.ResponseSuccess(w, "Messages marked as read", resp)
}

// UnreadCount handles GET /api/messages/unread/{userId}
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	c, ok := caller(w, r)
	if !ok {
		return
	}

	resp, err := h.service.UnreadCount(r.Context(), c, chi.URLParam(r, "userId"))
	if err != nil {
		handleServiceError(w, h.log, err, "count unread messages")
		return
	}
	utils.ResponseSuccess(w, "success", resp)
}
