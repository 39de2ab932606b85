package models

import "time"

type Customer struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100;uniqueIndex;not null"`
	Phone     string `gorm:"size:20"`
	Address   string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
