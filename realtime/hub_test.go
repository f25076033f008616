package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
)

// dialSession membuka satu session live dan menunggu sampai joined.
func dialSession(t *testing.T, hub *Hub, userID uint) (*websocket.Conn, *websocket.Conn) {
	upgrader := websocket.Upgrader{}
	joined := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Join(userID, conn)
		joined <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	serverConn := <-joined
	return client, serverConn
}

func TestHubJoinPushLeave(t *testing.T) {
	hub := NewHub()
	client, serverConn := dialSession(t, hub, 7)

	assert.Equal(t, 1, hub.Sessions(7))
	assert.Equal(t, 0, hub.Sessions(8))

	taskID := uint(12)
	sent := hub.PushToUser(7, Event{
		Type:    "task_assigned",
		Message: "Task assigned to you",
		TaskID:  &taskID,
	})
	assert.Equal(t, 1, sent)

	_, data, err := client.ReadMessage()
	assert.NoError(t, err)

	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "task_assigned", payload["type"])
	assert.Equal(t, "Task assigned to you", payload["message"])
	assert.Equal(t, float64(12), payload["taskId"])
	// Field kosong di-omit
	_, hasTeam := payload["teamId"]
	assert.False(t, hasTeam)

	hub.Leave(7, serverConn)
	assert.Equal(t, 0, hub.Sessions(7))
}

func TestHubMultiSession(t *testing.T) {
	hub := NewHub()
	clientA, connA := dialSession(t, hub, 9)
	clientB, connB := dialSession(t, hub, 9)

	assert.Equal(t, 2, hub.Sessions(9))

	sent := hub.PushToUser(9, Event{Type: "notification", Message: "hello"})
	assert.Equal(t, 2, sent)

	for _, client := range []*websocket.Conn{clientA, clientB} {
		_, data, err := client.ReadMessage()
		assert.NoError(t, err)
		assert.Contains(t, string(data), "hello")
	}

	hub.Leave(9, connA)
	assert.Equal(t, 1, hub.Sessions(9))
	hub.Leave(9, connB)
	assert.Equal(t, 0, hub.Sessions(9))
}

func TestPushToEmptyRoomDropsEvent(t *testing.T) {
	hub := NewHub()
	sent := hub.PushToUser(42, Event{Type: "notification", Message: "nobody home"})
	assert.Equal(t, 0, sent)
}
