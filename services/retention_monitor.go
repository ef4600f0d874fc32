package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/tollnotify/tollnotify-app/models"
	"github.com/tollnotify/tollnotify-app/utils"
)

// RetentionMonitor menghapus NotificationLog yang sudah lewat expires_at
type RetentionMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewRetentionMonitor(db *gorm.DB) *RetentionMonitor {
	return &RetentionMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Hour,
	}
}

func (rm *RetentionMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rm.sweep()
			case <-rm.StopChan:
				return
			}
		}
	}()
}

func (rm *RetentionMonitor) Stop() {
	close(rm.StopChan)
}

func (rm *RetentionMonitor) sweep() {
	result := rm.DB.Where("expires_at < ?", time.Now()).Delete(&models.NotificationLog{})
	if result.Error != nil {
		utils.ErrorLogger.Printf("Error sweeping expired notifications: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		utils.InfoLogger.Printf("Removed %d expired notifications", result.RowsAffected)
	}
}
