package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/teamtask-app/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

// WSController menangani handshake live channel. Token sudah divalidasi oleh
// WebSocketAuthMiddleware sebelum sampai ke sini; connection tanpa user_id
// di context ditolak tanpa upgrade.
type WSController struct {
	hub *realtime.Hub
}

func NewWSController(hub *realtime.Hub) *WSController {
	return &WSController{hub: hub}
}

// Handle -> upgrade, join room per user id, lepas saat disconnect
func (wc *WSController) Handle(c *gin.Context) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID := userIDValue.(uint)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc.hub.Join(userID, ws)

	// Baca sampai client menutup koneksi; tidak ada reconnect/backoff di
	// layer ini, client yang reconnect melakukan handshake baru.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	wc.hub.Leave(userID, ws)
}
