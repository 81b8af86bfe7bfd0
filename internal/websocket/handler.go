package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/dukerupert/shoplist/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and runs it as a Hub
// client for the caller. originPatterns restricts cross-origin browsers; an
// empty list accepts same-origin requests only.
func HandleWebSocket(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == "" {
			http.Error(w, "unauthenticated", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			logger.Warn("websocket accept", "error", err, "user_id", userID)
			return
		}

		client := NewClient(hub, conn, userID)
		client.Run(r.Context())
		conn.CloseNow()
	}
}
