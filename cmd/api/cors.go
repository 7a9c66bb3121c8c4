package main

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// applyCORSHandler answers preflight requests and sets the CORS policy of the admin API.
func applyCORSHandler(h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", "X-Request-ID", "X-Client-ID"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedOrigins([]string{"*"}),
		handlers.ExposedHeaders([]string{"X-Request-ID", "X-Client-ID"}),
		handlers.MaxAge(600),
	)(h)
}
