/*
Package handler provides the HTTP handlers and routing for the CineChat server.

This file defines the main Router, applying logging, CORS, and IP-based rate
limiting middleware before delegating to the REST and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"cinechat/internal/pkg/limiter"
	"cinechat/internal/pkg/logx"
	"cinechat/internal/pkg/resp"
)

const (
	// ConnectRate and ConnectBurst bound WebSocket upgrades per client IP.
	ConnectRate  = 0.2
	ConnectBurst = 5

	// CatalogRate and CatalogBurst bound room catalog requests per client IP.
	CatalogRate  = 1
	CatalogBurst = 10
)

// Router builds the HTTP routing table: CORS, request logging, the health
// endpoint, the room catalog API, and the WebSocket entry point.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)
	catalogLimiter := limiter.NewIPRateLimiter(rate.Limit(CatalogRate), CatalogBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "CineChat Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.With(catalogLimiter.Middleware).Get("/chat/rooms", HandleListRooms(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	return r
}
