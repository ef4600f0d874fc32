package services

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/geo"
	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/realtime"
	"github.com/tollnotify/tollnotify-app/utils"
)

const (
	DefaultCooldown    = 5 * time.Minute
	DefaultProximityKm = 2.0

	notificationTTL = 30 * 24 * time.Hour

	smsBodyMaxLen  = 160
	smsErrorMaxLen = 200
	smsPrefix      = "TollAlert: "
)

// Pola timestamp ISO-8601 yang kadang terbawa di akhir message dari upstream
var trailingTimestamp = regexp.MustCompile(`\s*\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z\s*$`)

// NotificationService memutuskan kapan alert dikirim dan mengantarkannya
// lewat dua kanal: push real-time (hub) dan SMS (gateway eksternal).
type NotificationService struct {
	DB  *gorm.DB
	Hub *realtime.Hub
	Sms SmsSender

	// Cooldown membatasi frekuensi alert per (user, type[, plaza])
	Cooldown    time.Duration
	ProximityKm float64
}

func NewNotificationService(db *gorm.DB, hub *realtime.Hub, sms SmsSender) *NotificationService {
	svc := &NotificationService{
		DB:          db,
		Hub:         hub,
		Sms:         sms,
		Cooldown:    DefaultCooldown,
		ProximityKm: DefaultProximityKm,
	}

	if v := os.Getenv("ALERT_COOLDOWN_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			svc.Cooldown = time.Duration(minutes) * time.Minute
		}
	}
	if v := os.Getenv("PROXIMITY_THRESHOLD_KM"); v != "" {
		if km, err := strconv.ParseFloat(v, 64); err == nil && km > 0 {
			svc.ProximityKm = km
		}
	}

	return svc
}

// DispatchInput -> satu keputusan pengiriman alert
type DispatchInput struct {
	UserID      uint
	Type        string
	Message     string
	TollPlazaID *uint
	Distance    float64
}

// PlazaData ikut di payload hanya untuk alert proximity
type PlazaData struct {
	Name     string  `json:"name"`
	Fee      float64 `json:"fee"`
	Distance float64 `json:"distance"`
}

// NotificationEvent -> payload yang dikirim ke koneksi real-time
type NotificationEvent struct {
	ID      uint       `json:"id"`
	Type    string     `json:"type"`
	Message string     `json:"message"`
	Status  string     `json:"status"`
	SentAt  time.Time  `json:"sent_at"`
	Data    *PlazaData `json:"data,omitempty"`
}

// CheckAlerts mengevaluasi satu observasi posisi user: cek saldo dulu,
// lalu jarak ke semua gerbang tol. Setiap alert punya kunci cooldown
// sendiri, jadi dua gerbang yang berdekatan bisa sama-sama memicu alert.
//
// Guard cooldown berupa query lalu insert tanpa kunci unik; dua update
// lokasi yang hampir bersamaan bisa sama-sama lolos cek.
func (s *NotificationService) CheckAlerts(userID uint, latitude, longitude float64) error {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return err
	}

	if !user.Settings.NotificationsEnabled {
		return nil
	}

	var tollPlazas []models.TollPlaza
	if err := s.DB.Find(&tollPlazas).Error; err != nil {
		return err
	}

	since := time.Now().Add(-s.Cooldown)

	// Cek balance alert lebih dulu
	if user.Settings.BalanceAlerts.Enabled && user.FastagBalance < user.Settings.BalanceAlerts.Threshold {
		if !s.hasRecentAlert(userID, models.AlertTypeBalance, nil, since) {
			if _, err := s.Dispatch(DispatchInput{
				UserID:  userID,
				Type:    models.AlertTypeBalance,
				Message: fmt.Sprintf("Low balance: ₹%v. Minimum threshold: ₹%v", user.FastagBalance, user.Settings.BalanceAlerts.Threshold),
			}); err != nil {
				return err
			}
		}
	}

	// Cek proximity per gerbang
	for _, toll := range tollPlazas {
		distance := geo.DistanceKm(latitude, longitude, toll.Latitude, toll.Longitude)
		if distance > s.ProximityKm || !user.Settings.ProximityAlerts.Enabled {
			continue
		}

		plazaID := toll.ID
		if s.hasRecentAlert(userID, models.AlertTypeProximity, &plazaID, since) {
			continue
		}

		if _, err := s.Dispatch(DispatchInput{
			UserID:      userID,
			Type:        models.AlertTypeProximity,
			Message:     fmt.Sprintf("Approaching %s (%.1fkm away). Fee: ₹%v", toll.Name, distance, toll.TollFee),
			TollPlazaID: &plazaID,
			Distance:    distance,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *NotificationService) hasRecentAlert(userID uint, alertType string, tollPlazaID *uint, since time.Time) bool {
	query := s.DB.Model(&models.NotificationLog{}).
		Where("user_id = ? AND type = ? AND sent_at >= ?", userID, alertType, since)
	if tollPlazaID != nil {
		query = query.Where("toll_plaza_id = ?", *tollPlazaID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		utils.ErrorLogger.Printf("Error checking recent alerts for user %d: %v", userID, err)
		return false
	}
	return count > 0
}

// Dispatch membuat NotificationLog, mencoba kanal SMS, lalu push event ke
// koneksi real-time user. Kegagalan SMS dicatat di record dan tidak pernah
// menggagalkan dispatch; push bersifat fire-and-forget.
func (s *NotificationService) Dispatch(in DispatchInput) (*NotificationEvent, error) {
	message := strings.TrimSpace(trailingTimestamp.ReplaceAllString(in.Message, ""))

	now := time.Now()
	notification := models.NotificationLog{
		UserID:      in.UserID,
		TollPlazaID: in.TollPlazaID,
		Type:        in.Type,
		Message:     message,
		Status:      models.NotificationSent,
		SmsStatus:   models.SmsPending,
		SentAt:      now,
		ExpiresAt:   now.Add(notificationTTL),
	}

	if err := s.DB.Create(&notification).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := s.DB.First(&user, in.UserID).Error; err == nil {
		s.handleSms(&notification, &user)
	}

	event := NotificationEvent{
		ID:      notification.ID,
		Type:    notification.Type,
		Message: notification.Message,
		Status:  notification.Status,
		SentAt:  notification.SentAt,
	}

	if in.TollPlazaID != nil {
		var toll models.TollPlaza
		if err := s.DB.First(&toll, *in.TollPlazaID).Error; err == nil {
			event.Data = &PlazaData{
				Name:     toll.Name,
				Fee:      toll.TollFee,
				Distance: in.Distance,
			}
		}
	}

	if s.Hub != nil {
		s.Hub.SendToUser(in.UserID, realtime.Message{
			Event: realtime.EventNotification,
			Data:  event,
		})
	}

	return &event, nil
}

func (s *NotificationService) handleSms(notification *models.NotificationLog, user *models.User) {
	smsAllowed := false
	switch notification.Type {
	case models.AlertTypeBalance:
		smsAllowed = user.Settings.BalanceAlerts.Sms
	case models.AlertTypeProximity:
		smsAllowed = user.Settings.ProximityAlerts.Sms
	}

	if s.Sms == nil || user.ContactNumber == "" || !user.Settings.SmsAlertsEnabled || !smsAllowed {
		s.updateSmsOutcome(notification, models.SmsDisabled, nil)
		return
	}

	body := truncate(smsPrefix+notification.Message, smsBodyMaxLen)
	if err := s.Sms.Send(user.ContactNumber, body); err != nil {
		errMsg := truncate(err.Error(), smsErrorMaxLen)
		s.updateSmsOutcome(notification, models.SmsFailed, &errMsg)
		utils.ErrorLogger.Printf("SMS delivery failed for notification %d: %v", notification.ID, err)
		return
	}

	s.updateSmsOutcome(notification, models.SmsSent, nil)
}

func (s *NotificationService) updateSmsOutcome(notification *models.NotificationLog, status string, smsError *string) {
	updates := map[string]interface{}{"sms_status": status}
	if smsError != nil {
		updates["sms_error"] = *smsError
	}

	if err := s.DB.Model(&models.NotificationLog{}).
		Where("id = ?", notification.ID).
		Updates(updates).Error; err != nil {
		utils.ErrorLogger.Printf("Error updating sms status for notification %d: %v", notification.ID, err)
		return
	}

	notification.SmsStatus = status
	notification.SmsError = smsError
}

// MarkSeen menandai notifikasi sent -> seen, hanya untuk record milik userID
func (s *NotificationService) MarkSeen(notificationIDs []uint, userID uint) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	return s.DB.Model(&models.NotificationLog{}).
		Where("id IN ? AND user_id = ? AND status = ?", notificationIDs, userID, models.NotificationSent).
		Update("status", models.NotificationSeen).Error
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
