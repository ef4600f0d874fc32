package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/services"
	"github.com/tollnotify/tollnotify-app/utils"
)

const otpValidity = 10 * time.Minute

type AuthController struct {
	DB  *gorm.DB
	Sms services.SmsSender
}

func NewAuthController(db *gorm.DB, sms services.SmsSender) *AuthController {
	return &AuthController{DB: db, Sms: sms}
}

// Register user baru -> buat akun unverified + kirim OTP verifikasi via SMS
func (ac *AuthController) Register(c *gin.Context) {
	type request struct {
		Name          string  `json:"name" binding:"required"`
		Email         string  `json:"email" binding:"required,email"`
		Password      string  `json:"password" binding:"required,min=6"`
		ContactNumber string  `json:"contact_number" binding:"required"`
		VehicleNumber string  `json:"vehicle_number" binding:"required"`
		FastagID      string  `json:"fastag_id" binding:"required"`
		FastagBalance float64 `json:"fastag_balance"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var existing models.User
	if err := ac.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.RespondError(c, http.StatusConflict, errors.New("user with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	user := models.User{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hashed),
		ContactNumber: req.ContactNumber,
		VehicleNumber: req.VehicleNumber,
		FastagID:      req.FastagID,
		FastagBalance: req.FastagBalance,
		IsVerified:    false,
		Settings:      models.DefaultSettings(),
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := ac.issueOtp(user.ID, user.ContactNumber); err != nil {
		utils.ErrorLogger.Printf("Error sending OTP to user %d: %v", user.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to send verification OTP"))
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (id=%d), verification OTP sent", user.Email, user.ID)

	utils.RespondJSON(c, http.StatusCreated, "User registered successfully. Verification OTP sent.", gin.H{
		"user_id": user.ID,
	})
}

// VerifyOtp menandai user sebagai verified
func (ac *AuthController) VerifyOtp(c *gin.Context) {
	var req struct {
		UserID uint   `json:"user_id" binding:"required"`
		Otp    string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var verification models.OtpVerification
	err := ac.DB.Where("user_id = ? AND otp = ? AND expires_at > ? AND is_verified = ?",
		req.UserID, req.Otp, time.Now(), false).
		First(&verification).Error
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid or expired OTP"))
		return
	}

	ac.DB.Model(&verification).Update("is_verified", true)
	ac.DB.Model(&models.User{}).Where("id = ?", req.UserID).Update("is_verified", true)

	utils.RespondJSON(c, http.StatusOK, "OTP verified successfully", nil)
}

// ResendOtp mengirim ulang OTP verifikasi
func (ac *AuthController) ResendOtp(c *gin.Context) {
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.First(&user, req.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user not found"))
		return
	}

	if err := ac.issueOtp(user.ID, user.ContactNumber); err != nil {
		utils.ErrorLogger.Printf("Error resending OTP to user %d: %v", user.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to send OTP"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "OTP resent successfully", nil)
}

// ForgotPassword -> kirim OTP reset ke nomor telepon terdaftar
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req struct {
		ContactNumber string `json:"contact_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	normalized := req.ContactNumber
	if !strings.HasPrefix(normalized, "+") {
		normalized = "+91" + strings.TrimLeft(normalized, "0")
	}

	var user models.User
	if err := ac.DB.Where("contact_number = ?", normalized).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("user with this phone number not found"))
		return
	}

	if err := ac.issueOtp(user.ID, user.ContactNumber); err != nil {
		utils.ErrorLogger.Printf("Error sending reset OTP to user %d: %v", user.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to send OTP"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "OTP sent for password reset", gin.H{
		"user_id": user.ID,
	})
}

// ResetPassword mengganti password setelah OTP reset tervalidasi
func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req struct {
		UserID      uint   `json:"user_id" binding:"required"`
		Otp         string `json:"otp" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var verification models.OtpVerification
	err := ac.DB.Where("user_id = ? AND otp = ? AND expires_at > ? AND is_verified = ?",
		req.UserID, req.Otp, time.Now(), false).
		First(&verification).Error
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid or expired OTP"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	ac.DB.Model(&verification).Update("is_verified", true)
	ac.DB.Model(&models.User{}).Where("id = ?", req.UserID).Update("password_hash", string(hashed))

	utils.RespondJSON(c, http.StatusOK, "Password reset successful", nil)
}

// Login user -> return JWT, hanya untuk akun yang sudah verified
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if !user.IsVerified {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("please verify your account first"))
		return
	}

	token, err := utils.GenerateToken(user.ID, utils.RoleUser)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	ac.DB.Model(&user).Update("last_login", now)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":          token,
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"is_verified":    user.IsVerified,
		"fastag_balance": user.FastagBalance,
		"fastag_id":      user.FastagID,
		"vehicle_number": user.VehicleNumber,
	})
}

// AdminLogin -> return JWT dengan role admin
func (ac *AuthController) AdminLogin(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("email = ?", input.Email).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid admin credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid admin credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, utils.RoleAdmin)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"id":    admin.ID,
		"name":  admin.Name,
	})
}

// Logout memasukkan token ke blacklist
func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
	}
	token = strings.TrimPrefix(token, "Bearer ")

	if token != "" {
		utils.BlacklistToken(token)
	}

	utils.RespondJSON(c, http.StatusOK, "Logged out successfully", nil)
}

func (ac *AuthController) issueOtp(userID uint, contactNumber string) error {
	otp := utils.GenerateOTP()

	verification := models.OtpVerification{
		UserID:    userID,
		Otp:       otp,
		ExpiresAt: time.Now().Add(otpValidity),
	}
	if err := ac.DB.Create(&verification).Error; err != nil {
		return err
	}

	if ac.Sms == nil {
		return errors.New("sms sender not configured")
	}
	return ac.Sms.Send(contactNumber, fmt.Sprintf("Your TollNotify verification code is: %s", otp))
}
