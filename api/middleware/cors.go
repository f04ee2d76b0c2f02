package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000", // local dev
	"https://bazaar-buddy-zeta.vercel.app",
	"https://bazaar-buddy.vercel.app",
}

// CORS returns middleware that applies the API's allowed origin policy.
// Configured origins replace the defaults; "*" keeps the defaults open for demos.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowed := defaultCORSOrigins
	if len(origins) > 0 && !(len(origins) == 1 && origins[0] == "*") {
		allowed = origins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
