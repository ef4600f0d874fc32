package models

import "time"

type OtpVerification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Otp        string    `gorm:"type:varchar(6);not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	IsVerified bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}
