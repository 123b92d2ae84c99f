package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpsousa/flatbill/internal/auth"
	authHandler "github.com/mpsousa/flatbill/internal/http/auth"
	billHandler "github.com/mpsousa/flatbill/internal/http/bill"
	invitationHandler "github.com/mpsousa/flatbill/internal/http/invitation"
	partyHandler "github.com/mpsousa/flatbill/internal/http/party"
	"github.com/mpsousa/flatbill/internal/http/session"
)

func New(
	authV1 *authHandler.Handler,
	billsV1 *billHandler.Handler,
	invitationsV1 *invitationHandler.Handler,
	partiesV1 *partyHandler.Handler,
	jwt *auth.JWTManager,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		// Reached by invitees before they have an account.
		r.Route("/invitations", func(r chi.Router) {
			invitationsV1.PublicRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(session.Middleware(jwt))
				r.Use(middleware.AllowContentType("application/json"))
				invitationsV1.Routes(r)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(session.Middleware(jwt))

			r.Route("/bills", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				billsV1.Routes(r)
			})

			r.Route("/flatmates", partiesV1.FlatmateRoutes)

			r.Route("/profile", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				partiesV1.ProfileRoutes(r)
			})
		})
	})

	return router
}
