package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps service errors onto the response envelope. Only
// *usecase.Error and stock errors carry client-safe messages; everything else
// is logged and reported as a 500.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var svcErr *usecase.Error
	var fields map[string]string
	var details any
	if errors.As(err, &svcErr) && len(svcErr.Fields) > 0 {
		fields = svcErr.Fields
		details = fields
	}
	msg := err.Error()

	switch {
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInsufficientStock),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrNotPendingVerification):
		if fields != nil {
			log.Warn(operation+" validation failed", zap.String("fields", utils.FormatValidationErrors(fields)))
		} else {
			log.Warn(operation+" rejected", zap.Error(err))
		}
		utils.ResponseBadRequest(w, msg, details)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, msg)

	case errors.Is(err, usecase.ErrUnauthorized):
		utils.ResponseUnauthorized(w, msg)

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, msg)

	case errors.Is(err, usecase.ErrConflict):
		utils.ResponseConflict(w, msg)

	case errors.Is(err, usecase.ErrTooManyRequests):
		utils.ResponseTooManyRequests(w, msg)

	case errors.Is(err, usecase.ErrNotification) && svcErr != nil:
		log.Error(operation+" failed - notification", zap.Error(err))
		utils.ResponseInternalError(w, msg)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func urlUUID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return userID, ok
}
