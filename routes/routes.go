package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/Hybee22/football-fixture-api/handlers"
	"github.com/Hybee22/football-fixture-api/middleware"
	"github.com/Hybee22/football-fixture-api/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Admin     *handlers.AdminHandler
	Team      *handlers.TeamHandler
	Fixture   *handlers.FixtureHandler
	Search    *handlers.SearchHandler
	WebSocket *handlers.WebSocketHandler
}

// InitRoutes wires the HTTP surface: public auth and lookup routes,
// session-guarded read routes, and write routes restricted to the
// admin roles.
func InitRoutes(h Handlers, jwtSecret []byte, rateLimitPerMinute int) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rateLimitPerMinute, time.Minute))

		r.Post("/auth/register", h.Auth.Register)
		r.Post("/auth/login", h.Auth.Login)
		r.Post("/auth/logout", h.Auth.Logout)

		r.Get("/fixtures/link/{uniqueLink}", h.Fixture.GetFixtureByLink)

		// Reads require a session of any role.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleUser, models.RoleAdmin, models.RoleSuperAdmin))

			r.Get("/search", h.Search.Search)
			r.Get("/teams", h.Team.ListTeams)
			r.Get("/teams/{teamID}", h.Team.GetTeam)
			r.Get("/fixtures", h.Fixture.ListFixtures)
			r.Get("/fixtures/pending", h.Fixture.ListPendingFixtures)
			r.Get("/fixtures/completed", h.Fixture.ListCompletedFixtures)
			r.Get("/fixtures/{fixtureID}", h.Fixture.GetFixture)
		})

		// Writes are for admins and the superadmin.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleAdmin, models.RoleSuperAdmin))

			r.Post("/teams", h.Team.CreateTeam)
			r.Patch("/teams/{teamID}", h.Team.UpdateTeam)
			r.Delete("/teams/{teamID}", h.Team.DeleteTeam)
			r.Put("/teams/{teamID}/crest", h.Team.UploadCrest)

			r.Post("/fixtures", h.Fixture.CreateFixture)
			r.Patch("/fixtures/{fixtureID}", h.Fixture.UpdateFixture)
			r.Delete("/fixtures/{fixtureID}", h.Fixture.DeleteFixture)
		})

		// Admin account management is superadmin-only.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleSuperAdmin))

			r.Post("/admin/create-admin", h.Admin.CreateAdmin)
		})
	})

	router.Get("/ws/fixtures", h.WebSocket.SubscribeAll)
	router.Get("/ws/fixtures/{fixtureID}", h.WebSocket.SubscribeFixture)

	return router
}
