package models

import "time"

// OrderStatus represents the lifecycle of an order. Orders are born
// Pending and move strictly forward.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCooking   OrderStatus = "Cooking"
	StatusPickedUp  OrderStatus = "PickedUp"
	StatusDelivered OrderStatus = "Delivered"
)

type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CustomerID   *uint       `json:"customer_id"`
	Customer     *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	DriverID     *uint       `json:"driver_id"`
	Driver       *User       `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	RestaurantID *uint       `json:"restaurant_id"`
	Restaurant   *Restaurant `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	Items        []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	Total        float64     `json:"total"`
	Status       OrderStatus `json:"status" gorm:"not null;default:'Pending'"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// OrderItemOption records the option (and choice, if any) the customer
// selected for a line item. It is a snapshot, not a live reference back
// into the menu's option list.
type OrderItemOption struct {
	Name   string `json:"name"`
	Choice string `json:"choice,omitempty"`
}

type OrderItem struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	OrderID   uint              `json:"order_id" gorm:"not null"`
	MenuID    uint              `json:"menu_id" gorm:"not null"`
	Menu      *Menu             `json:"menu,omitempty" gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE"`
	Options   []OrderItemOption `json:"options,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time         `json:"created_at"`
}
