package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleClient   UserRole = "Client"
	RoleOwner    UserRole = "Owner"
	RoleDelivery UserRole = "Delivery"

	// RoleAny is a sentinel for operations that accept any authenticated user.
	// It is never stored on a User record.
	RoleAny UserRole = "Any"
)

type User struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Email       string       `json:"email" gorm:"uniqueIndex;not null"`
	Password    string       `json:"-" gorm:"not null"`
	Role        UserRole     `json:"role" gorm:"not null"`
	Verified    bool         `json:"verified" gorm:"default:false"`
	Restaurants []Restaurant `json:"restaurants,omitempty" gorm:"foreignKey:OwnerID"`
	Orders      []Order      `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
	Deliveries  []Order      `json:"deliveries,omitempty" gorm:"foreignKey:DriverID"`
	Payments    []Payment    `json:"payments,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Verification is a single-use email verification code tied to one user.
// Created on registration or email change, deleted once consumed.
type Verification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"created_at"`
}
