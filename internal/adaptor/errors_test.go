package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"rental-booking/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"validation", &usecase.Error{Kind: usecase.ErrValidation, Message: "Cart is empty"}, http.StatusBadRequest, "Cart is empty"},
		{"stock", &usecase.InsufficientStockError{Item: "Speaker", Available: 2, Requested: 5}, http.StatusBadRequest, "Not enough stock for Speaker. Available: 2, Requested: 5"},
		{"state", &usecase.Error{Kind: usecase.ErrInvalidState, Message: "Only pending bookings can be cancelled"}, http.StatusBadRequest, "Only pending bookings can be cancelled"},
		{"not pending", &usecase.Error{Kind: usecase.ErrNotPendingVerification, Message: "not pending"}, http.StatusBadRequest, "not pending"},
		{"not found", &usecase.Error{Kind: usecase.ErrNotFound, Message: "Booking not found"}, http.StatusNotFound, "Booking not found"},
		{"unauthorized", &usecase.Error{Kind: usecase.ErrUnauthorized, Message: "Session already ended"}, http.StatusUnauthorized, "Session already ended"},
		{"forbidden", &usecase.Error{Kind: usecase.ErrForbidden, Message: "nope"}, http.StatusForbidden, "nope"},
		{"conflict", &usecase.Error{Kind: usecase.ErrConflict, Message: "Email already exists"}, http.StatusConflict, "Email already exists"},
		{"throttled", &usecase.Error{Kind: usecase.ErrTooManyRequests, Message: "slow down"}, http.StatusTooManyRequests, "slow down"},
		{"notification", &usecase.Error{Kind: usecase.ErrNotification, Message: "Failed to send verification email"}, http.StatusInternalServerError, "Failed to send verification email"},
		{"wrapped internal", fmt.Errorf("create booking: %w", errors.New("connection reset")), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.wantCode, rec.Code)

			var body struct {
				Status  bool   `json:"status"`
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Status)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestHandleServiceError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	err := &usecase.Error{Kind: usecase.ErrValidation, Message: "Validation failed", Fields: map[string]string{"Email": "Invalid email format"}}
	handleServiceError(rec, zap.NewNop(), err, "signup")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Validation failed","errors":{"Email":"Invalid email format"}}`, rec.Body.String())
}

type fakeSocket struct{ token string }

func (f *fakeSocket) ServeWS(w http.ResponseWriter, _ *http.Request, token string) {
	f.token = token
	w.WriteHeader(http.StatusSwitchingProtocols)
}

func TestRealtimeConnect(t *testing.T) {
	socket := &fakeSocket{}
	h := NewRealtimeHandler(socket, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Connect(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Connect(rec, httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil))
	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)
	assert.Equal(t, "abc", socket.token)
}
