package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taperia-pos/api/internal/config"
	"github.com/taperia-pos/api/internal/handler"
	"github.com/taperia-pos/api/internal/ledger"
	"github.com/taperia-pos/api/internal/menu"
	mw "github.com/taperia-pos/api/internal/middleware"
	"github.com/taperia-pos/api/internal/ws"
)

// New wires every route over the single ledger created at startup. When no
// clerk PIN hash is configured the API runs open, matching the original
// unauthenticated single-register setup.
func New(cfg *config.Config, led *ledger.Ledger, m *menu.Menu, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authEnabled := cfg.ClerkPINHash != ""
	if authEnabled {
		authHandler := handler.NewAuthHandler(cfg.ClerkPINHash, cfg.JWTSecret)
		authHandler.RegisterRoutes(r)
	}

	wsSecret := ""
	if authEnabled {
		wsSecret = cfg.JWTSecret
	}
	r.Get("/ws/tables/{tid}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, wsSecret, w, r)
	})

	r.Group(func(r chi.Router) {
		if authEnabled {
			r.Use(mw.Authenticate(cfg.JWTSecret))
		}

		menuHandler := handler.NewMenuHandler(m)
		r.Route("/menu", func(r chi.Router) {
			menuHandler.RegisterRoutes(r)

			exportHandler := handler.NewExportHandler(m)
			exportHandler.RegisterRoutes(r)
		})

		tableHandler := handler.NewTableHandler(led, hub)
		orderHandler := handler.NewOrderHandler(led, m, hub)
		r.Route("/tables", func(r chi.Router) {
			tableHandler.RegisterRoutes(r)
			r.Route("/{tid}/order", orderHandler.RegisterRoutes)
		})
	})

	return r
}
