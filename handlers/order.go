package handlers

import (
	"net/http"

	"dishdash-api/config"
	"dishdash-api/events"
	"dishdash-api/middleware"
	"dishdash-api/models"
	"dishdash-api/statemachine"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// OrderHandler serves the order lifecycle. The event bus is injected so
// mutations can notify subscribers after the order is durably saved.
type OrderHandler struct {
	Bus *events.Bus
}

func NewOrderHandler(bus *events.Bus) *OrderHandler {
	return &OrderHandler{Bus: bus}
}

type CreateOrderItemRequest struct {
	MenuID  uint                     `json:"menu_id" binding:"required"`
	Options []models.OrderItemOption `json:"options"`
}

type CreateOrderRequest struct {
	RestaurantID uint                     `json:"restaurant_id" binding:"required"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required,min=1"`
}

// itemPrice computes one line item's final price: the menu's base price
// plus the surcharge of every matched option or choice. Unmatched options
// and choices contribute nothing; they are ignored, not rejected.
func itemPrice(menu *models.Menu, selected []models.OrderItemOption) float64 {
	price := menu.Price

	for _, sel := range selected {
		var option *models.MenuOption
		for i := range menu.Options {
			if menu.Options[i].Name == sel.Name {
				option = &menu.Options[i]
				break
			}
		}
		if option == nil {
			continue
		}

		if option.Extra != 0 {
			price += option.Extra
			continue
		}

		for _, choice := range option.Choices {
			if choice.Name == sel.Choice {
				price += choice.Extra
				break
			}
		}
	}

	return price
}

// CreateOrder creates an order from a cart of menu items with selected
// options, computing the total server-side. The total is frozen at
// creation: later menu price changes never touch existing orders.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	customer := middleware.CurrentUser(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Restaurant not found"})
		return
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, item := range req.Items {
		var menu models.Menu
		if err := config.DB.First(&menu, item.MenuID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Menu not found"})
			return
		}
		if menu.RestaurantID != restaurant.ID {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Menu does not belong to this restaurant"})
			return
		}

		total += itemPrice(&menu, item.Options)
		items = append(items, models.OrderItem{
			MenuID:  menu.ID,
			Options: item.Options,
		})
	}

	order := models.Order{
		CustomerID:   &customer.ID,
		RestaurantID: &restaurant.ID,
		Status:       models.StatusPending,
		Total:        total,
		Items:        items,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create order")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create order"})
		return
	}

	order.Restaurant = &restaurant
	h.Bus.Publish(events.TopicPendingOrders, &order)

	c.JSON(http.StatusCreated, gin.H{"ok": true, "order": order})
}

// GetOrders lists orders scoped strictly by the caller's role: a Client
// sees orders they placed, a Delivery driver orders assigned to them, an
// Owner orders across every restaurant they own.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	query := config.DB.Preload("Items").Preload("Restaurant")

	switch user.Role {
	case models.RoleClient:
		query = query.Where("customer_id = ?", user.ID)
	case models.RoleDelivery:
		query = query.Where("driver_id = ?", user.ID)
	case models.RoleOwner:
		ownedIDs := config.DB.Model(&models.Restaurant{}).Select("id").Where("owner_id = ?", user.ID)
		query = query.Where("restaurant_id IN (?)", ownedIDs)
	default:
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't do that."})
		return
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Order("id desc").Find(&orders).Error; err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to load orders")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

// loadVisibleOrder fetches an order with its restaurant and applies the
// visibility check. Returns nil after writing the response on failure.
func loadVisibleOrder(c *gin.Context, user *models.User) *models.Order {
	var order models.Order
	if err := config.DB.Preload("Restaurant").Preload("Items").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Order not found"})
		return nil
	}
	if !statemachine.CanSee(user, &order) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't see that"})
		return nil
	}
	return &order
}

// GetOrder returns one order the caller is allowed to see.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	order := loadVisibleOrder(c, user)
	if order == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "order": order})
}

type EditOrderRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// EditOrder moves an order into a new status. The caller must be able to
// see the order, and their role must be granted the target status: an
// Owner may only set Cooking, a Delivery driver only PickedUp or
// Delivered, a Client nothing. Only {id, status} is persisted.
func (h *OrderHandler) EditOrder(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req EditOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !statemachine.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "Invalid order status"})
		return
	}

	var order models.Order
	if err := config.DB.Preload("Restaurant").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Order not found"})
		return
	}
	if !statemachine.CanSee(user, &order) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't edit an order that you don't see"})
		return
	}

	if err := statemachine.CanSetStatus(user.Role, req.Status); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't do that."})
		return
	}

	if err := config.DB.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", req.Status).Error; err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to edit order")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not edit order"})
		return
	}
	order.Status = req.Status

	if req.Status == models.StatusCooking {
		h.Bus.Publish(events.TopicCookedOrders, &order)
	}
	h.Bus.Publish(events.TopicOrderUpdates, &order)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// TakeOrder assigns the calling driver to an unclaimed order.
func (h *OrderHandler) TakeOrder(c *gin.Context) {
	driver := middleware.CurrentUser(c)

	var order models.Order
	if err := config.DB.Preload("Restaurant").First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Order not found"})
		return
	}

	if order.DriverID != nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "This order already has a driver"})
		return
	}

	if err := config.DB.Model(&order).Update("driver_id", driver.ID).Error; err != nil {
		log.Error().Err(err).Uint("order_id", order.ID).Msg("failed to take order")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not take order"})
		return
	}
	order.DriverID = &driver.ID

	h.Bus.Publish(events.TopicOrderUpdates, &order)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
