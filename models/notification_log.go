package models

import "time"

// Jenis alert
const (
	AlertTypeBalance   = "balance"
	AlertTypeProximity = "proximity"
)

// Status pengiriman in-app
const (
	NotificationPending = "pending"
	NotificationSent    = "sent"
	NotificationSeen    = "seen"
	NotificationFailed  = "failed"
)

// Status pengiriman SMS, independen dari status in-app.
// disabled -> pending -> sent|failed, tidak pernah mundur.
const (
	SmsDisabled = "disabled"
	SmsPending  = "pending"
	SmsSent     = "sent"
	SmsFailed   = "failed"
)

type NotificationLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user,omitempty"`
	TollPlazaID *uint      `gorm:"index" json:"toll_plaza_id,omitempty"`
	TollPlaza   *TollPlaza `gorm:"foreignKey:TollPlazaID" json:"toll_plaza,omitempty"`
	Type        string     `gorm:"type:varchar(20);index;not null" json:"type"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	Status      string     `gorm:"type:varchar(20);index;not null;default:'pending'" json:"status"`
	SmsStatus   string     `gorm:"type:varchar(20);index;default:'disabled'" json:"sms_status"`
	SmsError    *string    `gorm:"type:varchar(255)" json:"sms_error,omitempty"`
	RetryCount  int        `gorm:"default:0" json:"retry_count"`
	SentAt      time.Time  `gorm:"index;not null" json:"sent_at"`
	ExpiresAt   time.Time  `gorm:"index" json:"expires_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
