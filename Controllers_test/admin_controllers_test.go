package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/controllers"
	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/utils"
)

func setupAdminRouter(db *gorm.DB, sms *fakeSms) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	adminCtrl := controllers.NewAdminController(db, newTestNotifier(db, sms))

	router.GET("/toll-plazas", adminCtrl.GetTollPlazas)
	router.POST("/toll-plazas", adminCtrl.CreateTollPlaza)
	router.PUT("/toll-plazas/:toll_id", adminCtrl.UpdateTollPlaza)
	router.DELETE("/toll-plazas/:toll_id", adminCtrl.DeleteTollPlaza)
	router.GET("/users", adminCtrl.GetUsers)
	router.GET("/stats", adminCtrl.GetDashboardStats)
	return router
}

func TestAdminTollPlazaCRUD(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupAdminRouter(db, &fakeSms{})

	// Create
	payload, _ := json.Marshal(map[string]interface{}{
		"name":      "Kherki Daula",
		"road_name": "NH-48",
		"toll_fee":  65,
		"latitude":  28.4089,
		"longitude": 76.9853,
	})
	req, _ := http.NewRequest("POST", "/toll-plazas", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp struct {
		Data models.TollPlaza `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	tollID := createResp.Data.ID
	assert.NotZero(t, tollID)

	// Update
	payload, _ = json.Marshal(map[string]interface{}{
		"name":      "Kherki Daula",
		"road_name": "NH-48",
		"toll_fee":  75,
		"latitude":  28.4089,
		"longitude": 76.9853,
	})
	req, _ = http.NewRequest("PUT", fmt.Sprintf("/toll-plazas/%d", tollID), bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var toll models.TollPlaza
	db.First(&toll, tollID)
	assert.Equal(t, 75.0, toll.TollFee)

	// Delete
	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/toll-plazas/%d", tollID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest("DELETE", fmt.Sprintf("/toll-plazas/%d", tollID), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminTollPlazaPaginationAndSearch(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupAdminRouter(db, &fakeSms{})

	for i := 0; i < 15; i++ {
		db.Create(&models.TollPlaza{
			Name:     fmt.Sprintf("Plaza %02d", i),
			RoadName: "NH-48", TollFee: 65,
			Latitude: 28.0, Longitude: 77.0,
		})
	}
	db.Create(&models.TollPlaza{
		Name: "Special Gate", RoadName: "NH-44", TollFee: 90,
		Latitude: 28.5, Longitude: 77.5,
	})

	req, _ := http.NewRequest("GET", "/toll-plazas?page=2&limit=10", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var pageResp struct {
		Data struct {
			Data       []models.TollPlaza `json:"data"`
			Pagination utils.Pagination   `json:"pagination"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pageResp))
	assert.Equal(t, int64(16), pageResp.Data.Pagination.Total)
	assert.Equal(t, int64(2), pageResp.Data.Pagination.Pages)
	assert.Len(t, pageResp.Data.Data, 6)

	req, _ = http.NewRequest("GET", "/toll-plazas?search=Special", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &pageResp))
	assert.Len(t, pageResp.Data.Data, 1)
	assert.Equal(t, "Special Gate", pageResp.Data.Data[0].Name)
}

func TestAdminUsersLowBalanceFilter(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupAdminRouter(db, &fakeSms{})

	seedVerifiedUser(db, "rich@example.com", 500)
	seedVerifiedUser(db, "poor@example.com", 50)

	req, _ := http.NewRequest("GET", "/users?filter=low_balance", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Data []models.User `json:"data"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Data, 1)
	assert.Equal(t, "poor@example.com", resp.Data.Data[0].Email)
}

func TestAdminDashboardStats(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupAdminRouter(db, &fakeSms{})

	user := seedVerifiedUser(db, "stats@example.com", 150)
	db.Create(&models.TollPlaza{Name: "Gate", RoadName: "NH-1", TollFee: 50, Latitude: 28.0, Longitude: 77.0})
	seedNotification(db, user.ID, models.NotificationSent)

	req, _ := http.NewRequest("GET", "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			UsersCount         int64 `json:"users_count"`
			NotificationsCount int64 `json:"notifications_count"`
			TollPlazasCount    int64 `json:"toll_plazas_count"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.UsersCount)
	assert.Equal(t, int64(1), resp.Data.NotificationsCount)
	assert.Equal(t, int64(1), resp.Data.TollPlazasCount)
}
