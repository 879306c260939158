package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"slotswapper/internal/delivery/http/controllers"
	"slotswapper/internal/delivery/http/middleware"
	"slotswapper/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	swapController *controllers.SwapController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Calendar events
	mux.HandleFunc("GET /api/events", requireAuth(eventController.ListMyEvents))
	mux.HandleFunc("POST /api/events", requireAuth(eventController.CreateEvent))
	mux.HandleFunc("PATCH /api/events/{eventID}", requireAuth(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{eventID}", requireAuth(eventController.DeleteEvent))

	// Slot swapping
	mux.HandleFunc("GET /api/swappable-slots", requireAuth(swapController.ListSwappableSlots))
	mux.HandleFunc("POST /api/swap-request", requireAuth(swapController.CreateSwapRequest))
	mux.HandleFunc("POST /api/swap-response/{requestID}", requireAuth(swapController.RespondToSwapRequest))
	mux.HandleFunc("GET /api/swap-requests", requireAuth(swapController.ListSwapRequests))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
