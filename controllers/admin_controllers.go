package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/services"
	"github.com/tollnotify/tollnotify-app/utils"
)

// Saldo di bawah nilai ini dianggap "low balance" di tabel admin
const adminLowBalanceThreshold = 200

type AdminController struct {
	DB       *gorm.DB
	Notifier *services.NotificationService
}

func NewAdminController(db *gorm.DB, notifier *services.NotificationService) *AdminController {
	return &AdminController{DB: db, Notifier: notifier}
}

func parsePagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}

func sortClause(c *gin.Context, allowed map[string]bool, fallback string) string {
	sortBy := c.DefaultQuery("sort_by", fallback)
	if !allowed[sortBy] {
		sortBy = fallback
	}
	order := "ASC"
	if c.DefaultQuery("sort_order", "asc") == "desc" {
		order = "DESC"
	}
	return sortBy + " " + order
}

// GetTollPlazas -> tabel gerbang tol dengan pagination/search/sort
func (ac *AdminController) GetTollPlazas(c *gin.Context) {
	page, limit, offset := parsePagination(c)
	sortBy := sortClause(c, map[string]bool{
		"name": true, "road_name": true, "toll_fee": true, "created_at": true,
	}, "name")

	query := ac.DB.Model(&models.TollPlaza{})
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR road_name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var tollPlazas []models.TollPlaza
	if err := query.Order(sortBy).Offset(offset).Limit(limit).Find(&tollPlazas).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Toll plazas", gin.H{
		"data":       tollPlazas,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

// CreateTollPlaza
func (ac *AdminController) CreateTollPlaza(c *gin.Context) {
	var req struct {
		Name      string   `json:"name" binding:"required"`
		RoadName  string   `json:"road_name" binding:"required"`
		TollFee   *float64 `json:"toll_fee" binding:"required"`
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	toll := models.TollPlaza{
		Name:      req.Name,
		RoadName:  req.RoadName,
		TollFee:   *req.TollFee,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if err := ac.DB.Create(&toll).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Toll plaza created: %s (id=%d)", toll.Name, toll.ID)
	utils.RespondJSON(c, http.StatusCreated, "Toll plaza created", toll)
}

// UpdateTollPlaza
func (ac *AdminController) UpdateTollPlaza(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("toll_id"))

	var toll models.TollPlaza
	if err := ac.DB.First(&toll, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("toll plaza not found"))
		return
	}

	var req struct {
		Name      string   `json:"name" binding:"required"`
		RoadName  string   `json:"road_name" binding:"required"`
		TollFee   *float64 `json:"toll_fee" binding:"required"`
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	toll.Name = req.Name
	toll.RoadName = req.RoadName
	toll.TollFee = *req.TollFee
	toll.Latitude = *req.Latitude
	toll.Longitude = *req.Longitude

	if err := ac.DB.Save(&toll).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Toll plaza updated", toll)
}

// DeleteTollPlaza
func (ac *AdminController) DeleteTollPlaza(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("toll_id"))

	result := ac.DB.Delete(&models.TollPlaza{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("toll plaza not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Toll plaza deleted successfully", gin.H{"toll_id": id})
}

// GetUsers -> tabel user dengan pagination/search/sort + filter saldo
func (ac *AdminController) GetUsers(c *gin.Context) {
	page, limit, offset := parsePagination(c)
	sortBy := sortClause(c, map[string]bool{
		"name": true, "email": true, "fastag_balance": true, "created_at": true,
	}, "name")

	query := ac.DB.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR fastag_id LIKE ? OR vehicle_number LIKE ?",
			like, like, like, like)
	}

	switch c.Query("filter") {
	case "low_balance":
		query = query.Where("fastag_balance < ?", adminLowBalanceThreshold)
	case "active":
		query = query.Where("fastag_balance >= ?", adminLowBalanceThreshold)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var users []models.User
	if err := query.Order(sortBy).Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Users", gin.H{
		"data":       users,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

// UpdateUserBalance mengubah saldo FASTag user. Kalau hasilnya di bawah
// threshold, balance alert dikirim asinkron agar tidak menahan response.
func (ac *AdminController) UpdateUserBalance(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid user id format"))
		return
	}

	var req struct {
		FastagBalance *float64 `json:"fastag_balance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid balance value: must be a valid number"))
		return
	}

	var user models.User
	if err := ac.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.FastagBalance = *req.FastagBalance
	if err := ac.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if user.FastagBalance < adminLowBalanceThreshold {
		go func(userID uint, balance float64) {
			if _, err := ac.Notifier.Dispatch(services.DispatchInput{
				UserID:  userID,
				Type:    models.AlertTypeBalance,
				Message: fmt.Sprintf("Your FASTag balance is low. Current balance: ₹%v", balance),
			}); err != nil {
				utils.ErrorLogger.Printf("Error dispatching balance alert for user %d: %v", userID, err)
			}
		}(user.ID, user.FastagBalance)
	}

	utils.InfoLogger.Printf("Balance updated for user %d: %v", user.ID, user.FastagBalance)
	utils.RespondJSON(c, http.StatusOK, "Balance updated successfully", gin.H{
		"id":        user.ID,
		"fastag_id": user.FastagID,
		"balance":   user.FastagBalance,
	})
}

// GetNotifications -> log notifikasi lintas user, bisa difilter per type
func (ac *AdminController) GetNotifications(c *gin.Context) {
	page, limit, offset := parsePagination(c)

	query := ac.DB.Model(&models.NotificationLog{})
	if alertType := c.Query("type"); alertType != "" && alertType != "all" {
		query = query.Where("type = ?", alertType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var notifications []models.NotificationLog
	err := query.Order("sent_at DESC").
		Offset(offset).Limit(limit).
		Preload("User").
		Preload("TollPlaza").
		Find(&notifications).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification logs", gin.H{
		"data":       notifications,
		"pagination": utils.NewPagination(total, page, limit),
	})
}

// GetDashboardStats mengambil statistik untuk dashboard admin
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	thirtyMinutesAgo := time.Now().Add(-30 * time.Minute)

	var stats struct {
		UsersCount          int64                    `json:"users_count"`
		ActiveUsersCount    int64                    `json:"active_users_count"`
		NotificationsCount  int64                    `json:"notifications_count"`
		TollPlazasCount     int64                    `json:"toll_plazas_count"`
		RecentNotifications []models.NotificationLog `json:"recent_notifications"`
	}

	ac.DB.Model(&models.User{}).Count(&stats.UsersCount)
	ac.DB.Model(&models.User{}).Where("last_location_timestamp > ?", thirtyMinutesAgo).Count(&stats.ActiveUsersCount)
	ac.DB.Model(&models.NotificationLog{}).Count(&stats.NotificationsCount)
	ac.DB.Model(&models.TollPlaza{}).Count(&stats.TollPlazasCount)

	err := ac.DB.Order("sent_at DESC").
		Limit(5).
		Preload("User").
		Preload("TollPlaza").
		Find(&stats.RecentNotifications).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
