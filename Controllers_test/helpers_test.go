package Controllers_test

import (
	"fmt"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/realtime"
	"github.com/tollnotify/tollnotify-app/services"
)

// fakeSms merekam SMS keluar supaya test bisa membaca OTP
type fakeSms struct {
	messages []struct {
		To   string
		Body string
	}
	err error
}

func (f *fakeSms) Send(to, body string) error {
	f.messages = append(f.messages, struct {
		To   string
		Body string
	}{to, body})
	return f.err
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.TollPlaza{},
		&models.NotificationLog{},
		&models.OtpVerification{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

func newTestNotifier(db *gorm.DB, sms services.SmsSender) *services.NotificationService {
	return &services.NotificationService{
		DB:          db,
		Hub:         realtime.NewHub(),
		Sms:         sms,
		Cooldown:    services.DefaultCooldown,
		ProximityKm: services.DefaultProximityKm,
	}
}

// asUser mem-bypass AuthMiddleware dengan menanam user_id langsung di context
func asUser(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", "user")
		c.Next()
	}
}

func seedVerifiedUser(db *gorm.DB, email string, balance float64) models.User {
	user := models.User{
		Name:          "Test User",
		Email:         email,
		PasswordHash:  "secret",
		ContactNumber: "+919876543210",
		VehicleNumber: "DL01AB1234",
		FastagID:      "FAST123456",
		IsVerified:    true,
		FastagBalance: balance,
		Settings:      models.DefaultSettings(),
	}
	db.Create(&user)
	return user
}
