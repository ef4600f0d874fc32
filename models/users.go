package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ProximityAlertSettings mengatur alert saat user mendekati gerbang tol
type ProximityAlertSettings struct {
	Enabled bool `gorm:"default:true" json:"enabled"`
	Sms     bool `gorm:"default:true" json:"sms"`
}

// BalanceAlertSettings mengatur alert saat saldo FASTag di bawah threshold
type BalanceAlertSettings struct {
	Enabled   bool    `gorm:"default:true" json:"enabled"`
	Sms       bool    `gorm:"default:true" json:"sms"`
	Threshold float64 `gorm:"default:200" json:"threshold"`
}

type UserSettings struct {
	NotificationsEnabled bool                   `gorm:"default:true" json:"notifications_enabled"`
	ProximityAlerts      ProximityAlertSettings `gorm:"embedded;embeddedPrefix:proximity_" json:"proximity_alerts"`
	BalanceAlerts        BalanceAlertSettings   `gorm:"embedded;embeddedPrefix:balance_" json:"balance_alerts"`
	LocationTracking     bool                   `gorm:"default:true" json:"location_tracking"`
	SmsAlertsEnabled     bool                   `gorm:"default:true" json:"sms_alerts_enabled"`
}

// DefaultSettings -> nilai awal settings untuk user baru
func DefaultSettings() UserSettings {
	return UserSettings{
		NotificationsEnabled: true,
		ProximityAlerts:      ProximityAlertSettings{Enabled: true, Sms: true},
		BalanceAlerts:        BalanceAlertSettings{Enabled: true, Sms: true, Threshold: 200},
		LocationTracking:     true,
		SmsAlertsEnabled:     true,
	}
}

type User struct {
	ID                    uint         `gorm:"primaryKey" json:"id"`
	Name                  string       `gorm:"type:varchar(255);not null" json:"name"`
	Email                 string       `gorm:"type:varchar(255);unique;not null" json:"email"`
	PasswordHash          string       `gorm:"type:varchar(255);not null" json:"-"`
	FastagBalance         float64      `gorm:"default:0" json:"fastag_balance"`
	ContactNumber         string       `gorm:"type:varchar(20);not null" json:"contact_number"`
	VehicleNumber         string       `gorm:"type:varchar(20);not null" json:"vehicle_number"`
	FastagID              string       `gorm:"type:varchar(50);not null" json:"fastag_id"`
	IsVerified            bool         `gorm:"default:false" json:"is_verified"`
	LastKnownLatitude     *float64     `json:"last_known_latitude,omitempty"`
	LastKnownLongitude    *float64     `json:"last_known_longitude,omitempty"`
	LastLocationTimestamp *time.Time   `json:"last_location_timestamp,omitempty"`
	LastLogin             *time.Time   `json:"last_login,omitempty"`
	Settings              UserSettings `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// BeforeSave menormalkan nomor telepon ke format +91XXXXXXXXXX
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.ContactNumber == "" {
		return nil
	}
	if !strings.HasPrefix(u.ContactNumber, "+") {
		u.ContactNumber = "+91" + strings.TrimLeft(u.ContactNumber, "0")
	}
	u.ContactNumber = nonPhoneChars.ReplaceAllString(u.ContactNumber, "")
	return nil
}
