package models

import "time"

type TollPlaza struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	RoadName  string    `gorm:"type:varchar(255);not null" json:"road_name"`
	TollFee   float64   `gorm:"not null" json:"toll_fee"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
