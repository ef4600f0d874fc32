package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/tollnotify/tollnotify-app/utils"
)

// Event types
const (
	EventNotification   = "notification"
	EventLocationUpdate = "location_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi WebSocket yang sedang online, di-key per user.
// Satu user boleh punya lebih dari satu koneksi (multi-tab/multi-device).
type Hub struct {
	clients map[uint]map[*websocket.Conn]struct{}
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[uint]map[*websocket.Conn]struct{}),
	}
}

// RegisterClient menambahkan koneksi untuk userID
func (h *Hub) RegisterClient(userID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*websocket.Conn]struct{})
	}
	h.clients[userID][conn] = struct{}{}
}

// UnregisterClient melepaskan koneksi dan menutupnya
func (h *Hub) UnregisterClient(userID uint, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
	conn.Close()
}

// IsOnline -> apakah user punya koneksi aktif
func (h *Hub) IsOnline(userID uint) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients[userID]) > 0
}

// SendToUser mengirim event ke semua koneksi milik satu user.
// Best-effort: kalau user offline atau write gagal, pesan di-drop.
func (h *Hub) SendToUser(userID uint, msg Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns, ok := h.clients[userID]
	if !ok {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling ws message: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending ws message to user %d: %v", userID, err)
		}
	}
}
