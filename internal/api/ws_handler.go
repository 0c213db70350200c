package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"loantrack/internal/auth"
	"loantrack/internal/config"
	"loantrack/internal/db"
	"loantrack/internal/events"
	"loantrack/internal/user"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /api/ws/events?token=...  [admin only]
// Live loan-activity feed. Browsers cannot set an Authorization header on a
// websocket handshake, so the token travels as a query parameter.
func WSEventsHandler(cfg *config.Config, hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, c.Query("token"))
		if err != nil {
			respondErr(c, http.StatusUnauthorized, codeUnauthorized, "Ugyldig token")
			return
		}
		var u user.User
		if err := db.DB.First(&u, "id = ?", claims.UserID).Error; err != nil {
			respondErr(c, http.StatusUnauthorized, codeUnauthorized, "Bruker ikke funnet")
			return
		}
		if u.Role != user.RoleAdmin {
			respondErr(c, http.StatusForbidden, codeForbidden, "Krever admin tilgang")
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[Events] websocket upgrade failed: %v", err)
			return
		}
		hub.Register(conn)

		// The feed is write-only; the read loop only detects disconnects.
		go func() {
			defer hub.Unregister(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
