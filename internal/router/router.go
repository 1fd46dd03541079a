package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"vidsight/internal/handlers"
	"vidsight/internal/middleware"
	"vidsight/internal/websocket"
)

func New(
	auth *middleware.BearerAuth,
	workspaceHandler *handlers.WorkspaceHandler,
	wsHub *websocket.Hub,
	commandLimiter *middleware.RateLimiter,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/workspaces", func(r chi.Router) {
			r.Use(commandLimiter.Middleware)

			// WebSocket authenticates via token query param
			r.Get("/{id}/ws", wsHub.HandleWorkspace)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Post("/", workspaceHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Delete("/", workspaceHandler.Release)

					// ──── Search Session ────
					r.Route("/search", func(r chi.Router) {
						r.Get("/", workspaceHandler.GetSearch)
						r.Post("/", workspaceHandler.SubmitSearch)
						r.Post("/clear", workspaceHandler.ClearSearch)
						r.Post("/channels/{channelID}/toggle", workspaceHandler.ToggleChannel)
					})

					// ──── Video Session ────
					r.Route("/video", func(r chi.Router) {
						r.Get("/", workspaceHandler.GetVideo)
						r.Post("/open", workspaceHandler.OpenVideo)
						r.Post("/summary", workspaceHandler.RequestSummary)
						r.Post("/close", workspaceHandler.CloseVideo)
					})

					// ──── Random Picker ────
					r.Route("/picker", func(r chi.Router) {
						r.Get("/", workspaceHandler.GetPicker)
						r.Post("/open", workspaceHandler.OpenPicker)
						r.Post("/close", workspaceHandler.ClosePicker)
						r.Post("/subscription/toggle", workspaceHandler.ToggleSubscription)
						r.Post("/candidates", workspaceHandler.AddCandidate)
						r.Delete("/candidates/{channelID}", workspaceHandler.RemoveCandidate)
						r.Post("/typeahead", workspaceHandler.TypeaheadQuery)
						r.Post("/pick", workspaceHandler.Pick)
					})
				})
			})
		})
	})

	return r
}
