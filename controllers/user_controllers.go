package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/services"
	"github.com/tollnotify/tollnotify-app/utils"
)

type UserController struct {
	DB       *gorm.DB
	Notifier *services.NotificationService
}

func NewUserController(db *gorm.DB, notifier *services.NotificationService) *UserController {
	return &UserController{DB: db, Notifier: notifier}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	userID, ok := userIDInterface.(uint)
	return userID, ok
}

// GetProfile -> profil user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile retrieved", user)
}

// UpdateProfile -> nama, nomor telepon, nomor kendaraan
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Name          string `json:"name" binding:"required"`
		ContactNumber string `json:"contact_number" binding:"required"`
		VehicleNumber string `json:"vehicle_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.Name = req.Name
	user.ContactNumber = req.ContactNumber
	user.VehicleNumber = req.VehicleNumber

	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile updated", user)
}

// UpdateLocation menyimpan posisi terakhir user lalu menjalankan cek alert
func (uc *UserController) UpdateLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("latitude and longitude are required"))
		return
	}

	now := time.Now()
	err := uc.DB.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_known_latitude":     *req.Latitude,
		"last_known_longitude":    *req.Longitude,
		"last_location_timestamp": now,
	}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := uc.Notifier.CheckAlerts(userID, *req.Latitude, *req.Longitude); err != nil {
		utils.ErrorLogger.Printf("Alert check failed for user %d: %v", userID, err)
	}

	utils.RespondJSON(c, http.StatusOK, "Location updated successfully", nil)
}

// GetNotificationSettings
func (uc *UserController) GetNotificationSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notification settings", user.Settings)
}

// UpdateNotificationSettings mengganti seluruh settings user
func (uc *UserController) UpdateNotificationSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var settings models.UserSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if settings.BalanceAlerts.Threshold < 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid threshold value"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.Settings = settings
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Settings updated", user.Settings)
}

// Recharge menambah saldo FASTag; kalau masih di bawah threshold, kirim
// alert "balance still low" tanpa cooldown (permintaan eksplisit user)
func (uc *UserController) Recharge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid recharge amount"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	user.FastagBalance += req.Amount
	if err := uc.DB.Save(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if user.FastagBalance < user.Settings.BalanceAlerts.Threshold {
		if _, err := uc.Notifier.Dispatch(services.DispatchInput{
			UserID:  user.ID,
			Type:    models.AlertTypeBalance,
			Message: fmt.Sprintf("Balance still low: ₹%v (Threshold: ₹%v)", user.FastagBalance, user.Settings.BalanceAlerts.Threshold),
		}); err != nil {
			utils.ErrorLogger.Printf("Error dispatching recharge balance alert for user %d: %v", user.ID, err)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Recharge successful", gin.H{
		"fastag_balance": user.FastagBalance,
	})
}

// GetNotifications -> 20 notifikasi terakhir milik user
func (uc *UserController) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var notifications []models.NotificationLog
	err := uc.DB.Where("user_id = ?", userID).
		Order("sent_at DESC").
		Limit(20).
		Preload("TollPlaza").
		Find(&notifications).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User notifications", notifications)
}

// ClearNotifications menghapus semua notifikasi milik user
func (uc *UserController) ClearNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	if err := uc.DB.Where("user_id = ?", userID).Delete(&models.NotificationLog{}).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to clear notifications"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications cleared successfully", nil)
}

// MarkNotificationsSeen menandai notifikasi sent -> seen
func (uc *UserController) MarkNotificationsSeen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req struct {
		NotificationIDs []uint `json:"notification_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := uc.Notifier.MarkSeen(req.NotificationIDs, userID); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Notifications marked as seen", nil)
}
