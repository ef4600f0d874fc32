package Controllers_test

import (
	"encoding/json"
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

func setupTollPlazaRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tollCtrl := controllers.NewTollPlazaController(db)
	router.GET("/toll-plazas", tollCtrl.GetAllTollPlazas)
	router.GET("/toll-plazas/nearby", tollCtrl.GetNearbyTollPlazas)
	return router
}

func TestGetNearbyTollPlazas(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupTollPlazaRouter(db)

	// Sekitar 1 km dan 3 km dari titik query; satu lagi jauh sekali
	db.Create(&models.TollPlaza{Name: "Near", RoadName: "NH-48", TollFee: 65, Latitude: 28.6229, Longitude: 77.2090})
	db.Create(&models.TollPlaza{Name: "Mid", RoadName: "NH-44", TollFee: 80, Latitude: 28.6409, Longitude: 77.2090})
	db.Create(&models.TollPlaza{Name: "Far", RoadName: "NH-8", TollFee: 120, Latitude: 19.0760, Longitude: 72.8777})

	req, _ := http.NewRequest("GET", "/toll-plazas/nearby?latitude=28.6139&longitude=77.2090&radius=5", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Name     string  `json:"name"`
			Distance float64 `json:"distance"`
		} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Dalam radius 5 km hanya dua, urut dari yang terdekat
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "Near", resp.Data[0].Name)
	assert.Equal(t, "Mid", resp.Data[1].Name)
	assert.Less(t, resp.Data[0].Distance, resp.Data[1].Distance)
}

func TestGetNearbyRequiresCoordinates(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupTollPlazaRouter(db)

	req, _ := http.NewRequest("GET", "/toll-plazas/nearby", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllTollPlazasSortedByName(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	router := setupTollPlazaRouter(db)

	db.Create(&models.TollPlaza{Name: "Zeta", RoadName: "NH-1", TollFee: 50, Latitude: 28.0, Longitude: 77.0})
	db.Create(&models.TollPlaza{Name: "Alpha", RoadName: "NH-2", TollFee: 60, Latitude: 28.1, Longitude: 77.1})

	req, _ := http.NewRequest("GET", "/toll-plazas", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.TollPlaza `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, "Alpha", resp.Data[0].Name)
	assert.Equal(t, "Zeta", resp.Data[1].Name)
}
