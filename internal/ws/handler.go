package ws

import (
	"log"
	"net/http"

	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin checks happen at the reverse proxy
	},
}

// Handler upgrades authenticated connections and joins them to their own
// user-id room.
type Handler struct {
	hub         *Hub
	authService service.AuthService
}

// NewHandler creates a new websocket Handler.
func NewHandler(hub *Hub, authService service.AuthService) *Handler {
	return &Handler{hub: hub, authService: authService}
}

// Connect handles GET /ws?token=<jwt>. Browsers cannot set headers on
// websocket upgrades, so the session token arrives as a query parameter.
func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}

	claims, err := h.authService.VerifyToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARN: websocket upgrade failed: %v", err)
		return
	}

	client := h.hub.Register(claims.UserID, conn)
	go client.WritePump()
	go client.ReadPump(h.hub)
}
