package handlers

import (
	"io"
	"strconv"

	"dishdash-api/events"
	"dishdash-api/middleware"
	"dishdash-api/statemachine"

	"github.com/gin-gonic/gin"
)

// SubscriptionHandler streams order events to connected clients over
// server-sent events. Each connection holds its own bus subscription with
// a filter closed over the subscriber's identity; disconnecting cancels
// the subscription, and no backlog is replayed.
type SubscriptionHandler struct {
	Bus *events.Bus
}

func NewSubscriptionHandler(bus *events.Bus) *SubscriptionHandler {
	return &SubscriptionHandler{Bus: bus}
}

func (h *SubscriptionHandler) stream(c *gin.Context, topic string, filter events.FilterFunc) {
	ch, cancel := h.Bus.Subscribe(topic, filter)
	defer cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Topic, ev.Order)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// PendingOrders notifies an owner of each new order placed at one of
// their restaurants.
func (h *SubscriptionHandler) PendingOrders(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	h.stream(c, events.TopicPendingOrders, func(ev events.Event) bool {
		return ev.Order.Restaurant != nil && ev.Order.Restaurant.OwnerID == owner.ID
	})
}

// CookedOrders notifies delivery drivers of every order that enters
// Cooking and will soon need a pickup.
func (h *SubscriptionHandler) CookedOrders(c *gin.Context) {
	h.stream(c, events.TopicCookedOrders, nil)
}

// OrderUpdates notifies the customer, driver and restaurant owner of one
// specific order about its status changes.
func (h *SubscriptionHandler) OrderUpdates(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(400, gin.H{"ok": false, "error": "Invalid order id"})
		return
	}

	h.stream(c, events.TopicOrderUpdates, func(ev events.Event) bool {
		return ev.Order.ID == uint(orderID) && statemachine.CanSee(user, ev.Order)
	})
}
