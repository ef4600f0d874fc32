package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/realtime"
	"github.com/tollnotify/tollnotify-app/services"
	"github.com/tollnotify/tollnotify-app/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSController struct {
	DB       *gorm.DB
	Hub      *realtime.Hub
	Notifier *services.NotificationService
}

func NewWSController(db *gorm.DB, hub *realtime.Hub, notifier *services.NotificationService) *WSController {
	return &WSController{DB: db, Hub: hub, Notifier: notifier}
}

type inboundMessage struct {
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Handler -> endpoint WebSocket. Koneksi didaftarkan ke hub atas nama user
// dari token; pesan location_update menggerakkan cek alert.
func (wc *WSController) Handler(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	userID, ok := userIDInterface.(uint)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc.Hub.RegisterClient(userID, ws)
	utils.InfoLogger.Printf("Client connected: user %d", userID)

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			utils.ErrorLogger.Printf("Invalid ws message from user %d: %v", userID, err)
			continue
		}

		if msg.Type == realtime.EventLocationUpdate {
			wc.handleLocationUpdate(userID, msg.Latitude, msg.Longitude)
		}
	}

	wc.Hub.UnregisterClient(userID, ws)
	utils.InfoLogger.Printf("Client disconnected: user %d", userID)
}

func (wc *WSController) handleLocationUpdate(userID uint, latitude, longitude float64) {
	err := wc.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_known_latitude":     latitude,
		"last_known_longitude":    longitude,
		"last_location_timestamp": time.Now(),
	}).Error
	if err != nil {
		utils.ErrorLogger.Printf("Error saving location for user %d: %v", userID, err)
		return
	}

	if err := wc.Notifier.CheckAlerts(userID, latitude, longitude); err != nil {
		utils.ErrorLogger.Printf("Alert check failed for user %d: %v", userID, err)
	}
}
