/*
Package handler provides the HTTP handlers and routing for the CineChat server.

This file contains the WebSocket upgrade handler: rate limiting, identity
handshake validation, the upgrade itself, and starting the client pumps.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"cinechat/internal/app/chat"
	"cinechat/internal/app/user"
	"cinechat/internal/pkg/errs"
	"cinechat/internal/pkg/limiter"
	"cinechat/internal/pkg/logx"
	"cinechat/internal/pkg/randx"
	"cinechat/internal/pkg/resp"
)

// HandleWebSocket returns the handler for WebSocket connection requests.
// Identity arrives as the userId and username query parameters, produced by
// the authentication layer and trusted as-is; only presence is validated,
// and a missing field rejects the handshake before the upgrade.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		query := r.URL.Query()
		identity := user.Identity{
			ID:       query.Get("userId"),
			Username: query.Get("username"),
		}

		if err := identity.Validate(); err != nil {
			logx.Warn("WebSocket connection rejected: incomplete identity handshake.")
			resp.RespondError(w, r, err)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		client := chat.NewClient(deps.Hub, conn, connID, identity)

		if admitErr := deps.Hub.Connect(connID, identity, client); admitErr != nil {
			logx.Warn("Connection admission failed after upgrade.", "conn_id", connID)
			conn.Close()
			return
		}

		logx.Info("WebSocket connection established.",
			"conn_id", connID,
			"user_id", identity.ID,
		)

		go client.WritePump()
		client.ReadPump()
	}
}
