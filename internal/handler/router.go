package handler

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/evntly/event-platform/internal/auth"
)

// NewRouter assembles the full API route tree.
func NewRouter(
	tokens *auth.TokenManager,
	authHandler *AuthHandler,
	eventHandler *EventHandler,
	rsvpHandler *RSVPHandler,
	clientOrigins []string,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(Logger)                  // structured access log
	r.Use(CORS(clientOrigins))

	r.Get("/health", HealthCheck)

	protect := RequireAuth(tokens)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Get("/me", authHandler.Me)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Put("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/events", func(r chi.Router) {
			// Public: anyone can browse events.
			r.Get("/", eventHandler.ListEvents)
			r.Get("/{id}", eventHandler.GetEvent)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Post("/", eventHandler.CreateEvent)
				r.Put("/{id}", eventHandler.UpdateEvent)
				r.Delete("/{id}", eventHandler.DeleteEvent)
				r.Get("/user/my-events", eventHandler.MyEvents)
			})
		})

		r.Route("/rsvp", func(r chi.Router) {
			r.Use(protect)
			r.Post("/{eventId}", rsvpHandler.Join)
			r.Delete("/{eventId}", rsvpHandler.Cancel)
			r.Get("/event/{eventId}", rsvpHandler.Attendees)
			r.Get("/my-rsvps", rsvpHandler.MyRSVPs)
		})
	})

	return r
}
