package models

import "time"

// Customer is the booking profile of a registered user.
type Customer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Address       string `gorm:"type:text" json:"address"`
	AvatarURL     string `gorm:"size:500" json:"avatar"`
	LoyaltyPoints int    `gorm:"default:0" json:"loyalty_points"`
	IsBlocked     bool   `gorm:"default:false" json:"is_blocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
