package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/meetyou-web/internal/api/handlers"
	"github.com/isdelr/meetyou-web/internal/notice"
	"github.com/isdelr/meetyou-web/internal/services"
	"github.com/isdelr/meetyou-web/internal/web"
	"github.com/isdelr/meetyou-web/internal/websocket"
)

// Deps are the collaborators the router wires into its handlers.
type Deps struct {
	Hub             *websocket.Hub
	UserService     services.UserServiceProvider
	InterestService services.InterestServiceProvider
	EventService    services.EventServiceProvider
	Renderer        *web.Renderer
	Notices         *notice.Manager
	API             handlers.Pinger
	APIProxy        http.Handler
	AllowedOrigins  []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(d.UserService, d.Renderer)
	userHandler := handlers.NewUserHandler(d.UserService, pageHandler, d.Notices)
	interestHandler := handlers.NewInterestHandler(d.InterestService, pageHandler, d.Notices)
	eventHandler := handlers.NewEventHandler(d.EventService)
	healthHandler := handlers.NewHealthHandler(d.API)
	wsHandler := handlers.NewWebSocketHandler(d.Hub)

	// Pages and their form posts. Notices are popped only here so asset and
	// socket requests never swallow one.
	r.Group(func(r chi.Router) {
		r.Use(d.Notices.Middleware())

		r.Get("/", pageHandler.Index)
		r.Get("/search", pageHandler.Search)

		r.Post("/users", userHandler.Create)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Post("/", userHandler.Update)
			r.Post("/delete", userHandler.Delete)
			r.Post("/interests/delete", interestHandler.Remove)
			r.Post("/interests/{interestId}", interestHandler.Update)
		})
		r.Post("/interests", interestHandler.Add)
	})

	r.Get("/ws", wsHandler.Serve)
	r.Get("/healthz", healthHandler.Get)
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	// Browser scripts on other dev origins may call these.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/activity", eventHandler.GetRecent)
		if d.APIProxy != nil {
			r.Handle(handlers.ProxyPrefix+"/*", d.APIProxy)
		}
	})

	return r
}
