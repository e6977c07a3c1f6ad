package routes

import (
	"github.com/aditotot/Spinner/handlers"
	"github.com/aditotot/Spinner/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires the spin-wheel API onto the router.
func SetupRoutes(
	router *chi.Mux,
	spinHandler *handlers.SpinHandler,
	wsHandler *handlers.WebSocketHandler,
	apiKey string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-KEY"},
		MaxAge:         300,
	}))

	router.Get("/healthz", handlers.Healthz)
	router.Get("/ws", wsHandler.ServeWs)

	router.Route("/api", func(r chi.Router) {
		r.Get("/names/grouped", spinHandler.GroupedNames)
		r.Get("/names/{region}", spinHandler.NamesByRegion)
		r.Post("/spin_result", spinHandler.SpinResult)
		r.Get("/lobbies/unmapped", spinHandler.UnmappedLobbies)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAPIKey(apiKey))
			r.Post("/map/winner", spinHandler.MapWinner)
		})
	})
}
