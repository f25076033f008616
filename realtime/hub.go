package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event types yang didorong ke client
const (
	EventNotification = "notification"
	EventBroadcast    = "system_broadcast"
	EventMention      = "mention"
)

// Event adalah payload yang dikirim ke session live.
type Event struct {
	Type      string     `json:"type"`
	Title     string     `json:"title,omitempty"`
	Message   string     `json:"message"`
	TaskID    *uint      `json:"taskId,omitempty"`
	TeamID    *uint      `json:"teamId,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Hub menampung semua session live per user. Satu user bisa punya beberapa
// session (multi device); semuanya masuk room yang sama, di-key user id.
// Push bersifat best-effort: tanpa queue, tanpa retry. Record durable-nya
// adalah models.Message yang selalu dipersist lebih dulu.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*websocket.Conn]struct{})}
}

// Join mendaftarkan connection ke room milik user.
func (h *Hub) Join(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*websocket.Conn]struct{})
		h.rooms[userID] = room
	}
	room[conn] = struct{}{}
}

// Leave melepaskan connection dari room dan menutupnya. Room kosong dihapus.
func (h *Hub) Leave(userID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[userID]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
	conn.Close()
}

// Sessions mengembalikan jumlah session yang sedang joined untuk user.
func (h *Hub) Sessions(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// PushToUser mengirim event ke semua session di room user dan mengembalikan
// jumlah session yang terkirim. Kalau room kosong, event di-drop begitu saja.
func (h *Hub) PushToUser(userID uint, ev Event) int {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshaling push event: %v", err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.rooms[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error pushing to user %d: %v", userID, err)
			continue
		}
		sent++
	}
	return sent
}
