package controllers

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/geo"
	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/utils"
)

type TollPlazaController struct {
	DB *gorm.DB
}

func NewTollPlazaController(db *gorm.DB) *TollPlazaController {
	return &TollPlazaController{DB: db}
}

// GetAllTollPlazas -> daftar semua gerbang tol, urut nama
func (tc *TollPlazaController) GetAllTollPlazas(c *gin.Context) {
	var tollPlazas []models.TollPlaza
	if err := tc.DB.Order("name").Find(&tollPlazas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Toll plazas", tollPlazas)
}

type nearbyTollPlaza struct {
	models.TollPlaza
	Distance float64 `json:"distance"`
}

// GetNearbyTollPlazas -> gerbang tol dalam radius tertentu dari posisi user,
// urut dari yang terdekat. Daftar gerbang cukup kecil untuk discan di memori.
func (tc *TollPlazaController) GetNearbyTollPlazas(c *gin.Context) {
	latitude, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	longitude, errLon := strconv.ParseFloat(c.Query("longitude"), 64)
	if errLat != nil || errLon != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("latitude and longitude are required"))
		return
	}

	radius := 50.0
	if raw := c.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			radius = parsed
		}
	}

	var tollPlazas []models.TollPlaza
	if err := tc.DB.Find(&tollPlazas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	nearby := make([]nearbyTollPlaza, 0)
	for _, toll := range tollPlazas {
		distance := geo.DistanceKm(latitude, longitude, toll.Latitude, toll.Longitude)
		if distance <= radius {
			nearby = append(nearby, nearbyTollPlaza{TollPlaza: toll, Distance: distance})
		}
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})

	utils.RespondJSON(c, http.StatusOK, "Nearby toll plazas", nearby)
}
