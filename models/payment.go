package models

import "time"

// Payment records a promotion purchase by a restaurant owner. Creating
// one promotes the restaurant for a fixed window from the payment moment.
type Payment struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	TransactionID string      `json:"transaction_id" gorm:"not null"`
	UserID        uint        `json:"user_id" gorm:"not null"`
	User          *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RestaurantID  uint        `json:"restaurant_id" gorm:"not null"`
	Restaurant    *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
