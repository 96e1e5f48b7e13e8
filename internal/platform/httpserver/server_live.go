package httpserver

import (
	"net/http"

	"stackit/internal/platform/realtime"

	"github.com/gorilla/websocket"
)

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the board frontend; origin policy is
	// enforced upstream.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleLiveSubscribe upgrades the request to a websocket, registers the
// connection for the resolved user, and blocks on the read loop until the
// peer disconnects. Identity failures reject before the upgrade.
func (s *Server) handleLiveSubscribe(w http.ResponseWriter, r *http.Request) {
	caller, err := s.authenticate(r)
	if err != nil {
		writeNotificationError(w, http.StatusUnauthorized, "unauthenticated", "valid bearer token required")
		return
	}

	conn, err := liveUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			"event", "ws_upgrade_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"user_id", caller.UserID,
			"error", err.Error(),
		)
		return
	}

	subscription := realtime.NewWebsocketConnection(conn)
	s.live.Register(caller.UserID, subscription)
	s.logger.Info("live subscription opened",
		"event", "ws_subscribed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"user_id", caller.UserID,
	)

	// Inbound frames are discarded; the read loop only detects disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.live.Unregister(subscription)
	_ = conn.Close()
	s.logger.Info("live subscription closed",
		"event", "ws_unsubscribed",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"user_id", caller.UserID,
	)
}
