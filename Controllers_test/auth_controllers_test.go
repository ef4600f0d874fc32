package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/controllers"
	"github.com/tollnotify/tollnotify-app/utils"
)

func setupAuthRouter(db *gorm.DB, sms *fakeSms) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	authCtrl := controllers.NewAuthController(db, sms)
	router.POST("/register", authCtrl.Register)
	router.POST("/verify-otp", authCtrl.VerifyOtp)
	router.POST("/login", authCtrl.Login)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterVerifyAndLogin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	sms := &fakeSms{}
	router := setupAuthRouter(db, sms)

	// --- Register ---
	w := postJSON(t, router, "/register", map[string]interface{}{
		"name":           "Test User",
		"email":          "test@example.com",
		"password":       "password123",
		"contact_number": "9876543210",
		"vehicle_number": "DL01AB1234",
		"fastag_id":      "FAST123456",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	data := createResp["data"].(map[string]interface{})
	userID := uint(data["user_id"].(float64))
	assert.NotZero(t, userID)

	// OTP terkirim ke nomor yang sudah dinormalkan
	assert.Len(t, sms.messages, 1)
	assert.Equal(t, "+919876543210", sms.messages[0].To)
	otp := strings.TrimPrefix(sms.messages[0].Body, "Your TollNotify verification code is: ")
	assert.Len(t, otp, 6)

	// --- Login sebelum verifikasi harus ditolak ---
	w = postJSON(t, router, "/login", map[string]interface{}{
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// --- Verify OTP ---
	w = postJSON(t, router, "/verify-otp", map[string]interface{}{
		"user_id": userID,
		"otp":     otp,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// --- Login ---
	w = postJSON(t, router, "/login", map[string]interface{}{
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	loginData := loginResp["data"].(map[string]interface{})
	assert.NotEmpty(t, loginData["token"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	sms := &fakeSms{}
	router := setupAuthRouter(db, sms)

	seedVerifiedUser(db, "dup@example.com", 0)

	w := postJSON(t, router, "/register", map[string]interface{}{
		"name":           "Dup User",
		"email":          "dup@example.com",
		"password":       "password123",
		"contact_number": "9876543211",
		"vehicle_number": "DL01AB9999",
		"fastag_id":      "FAST999999",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVerifyOtpRejectsWrongCode(t *testing.T) {
	utils.InitLogger()
	db := setupTestDB(t)
	sms := &fakeSms{}
	router := setupAuthRouter(db, sms)

	w := postJSON(t, router, "/register", map[string]interface{}{
		"name":           "Test User",
		"email":          "otp@example.com",
		"password":       "password123",
		"contact_number": "9876543212",
		"vehicle_number": "DL01AB0001",
		"fastag_id":      "FAST000001",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var createResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &createResp))
	data := createResp["data"].(map[string]interface{})
	userID := uint(data["user_id"].(float64))

	w = postJSON(t, router, "/verify-otp", map[string]interface{}{
		"user_id": userID,
		"otp":     "000001",
	})
	// OTP salah bisa saja kebetulan benar, tapi peluangnya 1:900000
	if w.Code == http.StatusOK {
		t.Skip("generated OTP collided with the fixed wrong code")
	}
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
