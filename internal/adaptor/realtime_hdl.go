package adaptor

import (
	"net/http"

	"rental-booking/pkg/middleware"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

// SocketServer upgrades an authenticated request into a realtime connection.
type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, token string)
}

type RealtimeHandler struct {
	socket SocketServer
	log    *zap.Logger
}

func NewRealtimeHandler(socket SocketServer, log *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		socket: socket,
		log:    log.With(zap.String("handler", "realtime")),
	}
}

// Connect handles GET /ws. Browsers pass the session token as ?token=.
func (h *RealtimeHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Missing authorization token")
		return
	}
	h.socket.ServeWS(w, r, token)
}
