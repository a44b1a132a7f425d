package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/metrics"
	"rental-booking/pkg/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Hub owns the websocket endpoint and routes events to registered clients.
// With a Bus, emits travel through it so a client connected to another
// instance still receives them.
type Hub struct {
	registry Registry
	bus      Bus
	sessions repository.SessionRepository
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewHub(registry Registry, bus Bus, sessions repository.SessionRepository, origins utils.CORSConfig, log *zap.Logger) *Hub {
	h := &Hub{
		registry: registry,
		bus:      bus,
		sessions: sessions,
		log:      log.With(zap.String("component", "realtime_hub")),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

// originChecker applies the API's CORS allow-list to websocket upgrades.
// Non-browser clients send no Origin and are let through.
func originChecker(origins utils.CORSConfig) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origins.AllowsOrigin(origin)
	}
}

// Run consumes the bus until ctx is done. Without a bus it returns at once.
func (h *Hub) Run(ctx context.Context) {
	if h.bus == nil {
		return
	}
	for {
		err := h.bus.Subscribe(ctx, func(env Envelope) { h.deliverLocal(env.UserID, env.Event) })
		if ctx.Err() != nil {
			return
		}
		h.log.Warn("Realtime bus subscription ended, retrying", zap.Error(err))
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

// EmitToUser sends an event to a user's live connection. An offline user is
// not an error.
func (h *Hub) EmitToUser(ctx context.Context, userID, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", event, err)
	}
	ev := Event{Name: event, Data: data}

	if h.bus != nil {
		err := h.bus.Publish(ctx, Envelope{UserID: userID, Event: ev})
		if err == nil {
			return nil
		}
		h.log.Warn("Bus publish failed, delivering locally", zap.Error(err))
	}

	h.deliverLocal(userID, ev)
	return nil
}

func (h *Hub) deliverLocal(userID string, ev Event) {
	conn, ok := h.registry.Lookup(userID)
	if !ok {
		return
	}
	if err := conn.Send(ev); err != nil {
		h.log.Warn("Dropping event for slow client",
			zap.String("user_id", userID), zap.String("event", ev.Name), zap.Error(err))
	}
}

// ServeWS upgrades an authenticated request and registers the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, token string) {
	session, err := h.sessions.FindValidSession(r.Context(), token)
	if err != nil {
		h.log.Error("Failed to validate websocket session", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if session == nil {
		http.Error(w, "invalid or expired session", http.StatusUnauthorized)
		return
	}

	identity := session.UserID.String()
	if session.Role == entity.RoleAdmin {
		identity = entity.AdminInboxID
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := newWSConn(ws)
	if prev := h.registry.Register(identity, c); prev != nil {
		prev.Close()
	}
	metrics.RealtimeConnected()
	h.log.Info("Client connected", zap.String("identity", identity))

	go c.writePump()
	c.readPump()

	h.registry.Deregister(identity, c)
	metrics.RealtimeDisconnected()
	h.log.Info("Client disconnected", zap.String("identity", identity))
}
