package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;not null"`
	Slug        string       `json:"slug" gorm:"uniqueIndex;not null"`
	CoverImage  string       `json:"cover_image"`
	Restaurants []Restaurant `json:"restaurants,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Restaurant struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"not null"`
	Address       string         `json:"address"`
	CoverImage    string         `json:"cover_image"`
	CategoryID    *uint          `json:"category_id"`
	Category      *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	OwnerID       uint           `json:"owner_id" gorm:"not null"`
	Owner         User           `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Menu          []Menu         `json:"menu,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Orders        []Order        `json:"orders,omitempty" gorm:"foreignKey:RestaurantID"`
	IsPromoted    bool           `json:"is_promoted" gorm:"default:false"`
	PromotedUntil *time.Time     `json:"promoted_until"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// MenuOptionChoice is one selectable choice within a menu option,
// optionally carrying its own surcharge.
type MenuOptionChoice struct {
	Name  string  `json:"name"`
	Extra float64 `json:"extra,omitempty"`
}

// MenuOption is a configurable add-on on a menu item. Either Extra is a
// flat surcharge, or Choices lists named variants with per-choice extras.
type MenuOption struct {
	Name    string             `json:"name"`
	Extra   float64            `json:"extra,omitempty"`
	Choices []MenuOptionChoice `json:"choices,omitempty"`
}

type Menu struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"not null"`
	Price        float64      `json:"price" gorm:"not null"`
	Photo        string       `json:"photo"`
	Description  string       `json:"description"`
	RestaurantID uint         `json:"restaurant_id" gorm:"not null"`
	Restaurant   *Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Options      []MenuOption `json:"options,omitempty" gorm:"serializer:json"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
