package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"rsvpbot/internal/delivery/http/controllers"
	"rsvpbot/internal/delivery/http/middleware"
	"rsvpbot/internal/domain"
)

// NewRouter initializes the ops HTTP router. Every route is request-logged; roster reads
// require a bearer token.
func NewRouter(logger *slog.Logger, verifier domain.TokenVerifier, health *controllers.HealthController, roster *controllers.RosterController) http.Handler {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("GET /events/{eventID}/roster", requireAuth(roster.GetRoster))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, mux)
}
