package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/memstore"
	"rental-booking/pkg/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (c *fakeConn) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func TestMemoryRegistry_LatestRegistrationWins(t *testing.T) {
	r := NewMemoryRegistry()
	first, second := &fakeConn{}, &fakeConn{}

	assert.Nil(t, r.Register("u1", first))
	assert.Equal(t, Conn(first), r.Register("u1", second))

	got, ok := r.Lookup("u1")
	require.True(t, ok)
	assert.Equal(t, Conn(second), got)

	// a stale connection going away must not evict the new one
	r.Deregister("u1", first)
	_, ok = r.Lookup("u1")
	assert.True(t, ok)

	r.Deregister("u1", second)
	_, ok = r.Lookup("u1")
	assert.False(t, ok)
	assert.Zero(t, r.Count())
}

func TestHub_EmitToUserLocal(t *testing.T) {
	reg := NewMemoryRegistry()
	hub := NewHub(reg, nil, nil, utils.CORSConfig{}, zap.NewNop())

	conn := &fakeConn{}
	reg.Register("admin", conn)

	require.NoError(t, hub.EmitToUser(context.Background(), "admin", "newMessage", map[string]string{"message": "hi"}))
	require.NoError(t, hub.EmitToUser(context.Background(), "offline-user", "newMessage", "ignored"))

	events := conn.received()
	require.Len(t, events, 1)
	assert.Equal(t, "newMessage", events[0].Name)
	assert.JSONEq(t, `{"message":"hi"}`, string(events[0].Data))
}

func TestHub_EmitThroughRedisBus(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	reg := NewMemoryRegistry()
	hub := NewHub(reg, NewRedisBus(client, zap.NewNop()), nil, utils.CORSConfig{}, zap.NewNop())
	conn := &fakeConn{}
	reg.Register("u1", conn)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	require.Eventually(t, func() bool {
		return len(mr.PubSubChannels("")) == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.EmitToUser(ctx, "u1", "newMessage", "hello"))

	require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 10*time.Millisecond)
	assert.JSONEq(t, `"hello"`, string(conn.received()[0].Data))
}

func TestHub_ServeWS(t *testing.T) {
	repo := memstore.New()
	ctx := context.Background()

	user := &entity.User{BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()}, FullName: "Ana", Email: "ana@example.com", Role: entity.RoleCustomer}
	require.NoError(t, repo.User.Create(ctx, user))
	token := uuid.New()
	require.NoError(t, repo.Session.Create(ctx, &entity.Session{
		UserID: user.ID, Token: token, ExpiresAt: time.Now().Add(time.Hour),
	}))

	reg := NewMemoryRegistry()
	hub := NewHub(reg, nil, repo.Session, utils.CORSConfig{AllowedOrigins: []string{"*"}}, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("token"))
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("rejects unknown token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token="+uuid.NewString(), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("delivers events to the session owner", func(t *testing.T) {
		ws, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+token.String(), nil)
		require.NoError(t, err)
		defer ws.Close()

		require.Eventually(t, func() bool {
			_, ok := reg.Lookup(user.ID.String())
			return ok
		}, time.Second, 10*time.Millisecond)

		require.NoError(t, hub.EmitToUser(ctx, user.ID.String(), "newMessage", map[string]string{"message": "ready"}))

		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev Event
		require.NoError(t, ws.ReadJSON(&ev))
		assert.Equal(t, "newMessage", ev.Name)

		var body map[string]string
		require.NoError(t, json.Unmarshal(ev.Data, &body))
		assert.Equal(t, "ready", body["message"])
	})
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"http://localhost:5173"}, "", true},
		{"listed origin", []string{"http://localhost:5173"}, "http://localhost:5173", true},
		{"unlisted origin", []string{"http://localhost:5173"}, "http://evil.test", false},
		{"wildcard", []string{"*"}, "http://evil.test", true},
		{"empty list", nil, "http://localhost:5173", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := originChecker(utils.CORSConfig{AllowedOrigins: tt.allowed})
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(r))
		})
	}
}
