package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/gdg-garage/events-api/internal/auth"
	"github.com/gdg-garage/events-api/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func RegisterRoutes(r *chi.Mux, cfg *config.Config, authHandler *auth.AuthHandler, eventHandler *EventHandler, registrationHandler *RegistrationHandler) huma.API {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{cfg.FrontendURL},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}
	r.Use(authHandler.SessionMiddleware)

	// Initialize Huma API
	config := huma.DefaultConfig("Events API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.CookieName,
		},
	}
	api := humachi.New(r, config)

	cookieAuth := func(o *huma.Operation) {
		o.Security = []map[string][]string{{"cookieAuth": {}}}
	}
	created := func(o *huma.Operation) {
		o.DefaultStatus = http.StatusCreated
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Account routes
	huma.Post(api, "/register", authHandler.HandleRegister, created)
	huma.Post(api, "/", authHandler.HandleLogin)
	huma.Get(api, "/logout", authHandler.HandleLogout, cookieAuth)
	huma.Post(api, "/logout", authHandler.HandleLogout, cookieAuth)
	huma.Get(api, "/me", authHandler.HandleMe, cookieAuth)
	huma.Delete(api, "/account", authHandler.HandleDeleteAccount, cookieAuth)

	// Events, readable by anyone
	huma.Get(api, "/events", eventHandler.HandleList)
	huma.Get(api, "/events/{id}", eventHandler.HandleGet)

	// Staff only
	huma.Post(api, "/events/create", eventHandler.HandleCreate, cookieAuth, created)
	huma.Get(api, "/events/{id}/edit", eventHandler.HandleEdit, cookieAuth)
	huma.Post(api, "/events/{id}/edit", eventHandler.HandleUpdate, cookieAuth)
	huma.Post(api, "/events/{id}/delete", eventHandler.HandleDelete, cookieAuth)

	// Registrations, authenticated users
	huma.Get(api, "/events/{event_id}/register", registrationHandler.HandleList, cookieAuth)
	huma.Post(api, "/events/{event_id}/register", registrationHandler.HandleRegister, cookieAuth, created)

	return api
}
