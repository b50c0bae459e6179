package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouterConfig carries the knobs the router needs from the main config.
type RouterConfig struct {
	RequestTimeout time.Duration
}

// NewRouter wires the public API surface. Everything under /api/v1 requires
// a bearer token; the admin subtree additionally requires a staff role.
func NewRouter(
	cfg RouterConfig,
	auth *Authenticator,
	bookings *BookingHandler,
	admin *AdminHandler,
) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(httprate.LimitByIP(100, time.Second))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookings.Create)
			r.Get("/", bookings.List)
			r.Delete("/{id}", bookings.Cancel)
			r.Post("/{id}/payments/cash", bookings.RegisterCashPayment)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Route("/appointments", func(r chi.Router) {
				r.Post("/", admin.CreateAppointment)
				r.Get("/", admin.ListAppointments)
				r.Patch("/{id}", admin.UpdateAppointment)
				r.Delete("/{id}", admin.DeleteAppointment)
			})

			r.Get("/clinics/{id}/schedule.png", admin.WeekSchedulePNG)
		})
	})

	return router
}
