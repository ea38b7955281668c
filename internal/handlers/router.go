package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/lastcard/internal/middleware"
)

// NewRouter mounts the room endpoints behind recovery, heartbeat, CORS and
// request logging.
func NewRouter(gs *GameServer, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.LogMiddleware(gs.Logger))

	r.Route("/room", func(r chi.Router) {
		r.Post("/create", CreateRoomHandler(gs))
		r.Get("/list", ListRoomsHandler(gs))
		r.Get("/ws/{roomID}", GameWSHandler(gs))
	})
	return r
}
