package middleware

import (
	"net/http"

	"rental-booking/pkg/utils"

	"github.com/go-chi/cors"
)

// CORS answers preflight requests for the configured origins. Credentials are
// only allowed with an explicit origin list.
func CORS(config utils.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: config.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: !config.AllowsAny(),
		MaxAge:           300,
	})
}
