package handlers

import (
	"net/http"
	"time"

	"dishdash-api/config"
	"dishdash-api/middleware"
	"dishdash-api/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PaymentHandler records promotion payments. The window is configured so
// tests can shrink it.
type PaymentHandler struct {
	Window time.Duration
}

func NewPaymentHandler(window time.Duration) *PaymentHandler {
	return &PaymentHandler{Window: window}
}

type CreatePaymentRequest struct {
	TransactionID string `json:"transaction_id" binding:"required"`
	RestaurantID  uint   `json:"restaurant_id" binding:"required"`
}

// CreatePayment records a payment and promotes the restaurant. The
// promotion always resets to a full window from the payment moment, even
// if one was already active; it is not cumulative.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Restaurant not found"})
		return
	}
	if restaurant.OwnerID != owner.ID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You are not allowed to do this"})
		return
	}

	payment := models.Payment{
		TransactionID: req.TransactionID,
		UserID:        owner.ID,
		RestaurantID:  restaurant.ID,
	}
	if err := config.DB.Create(&payment).Error; err != nil {
		log.Error().Err(err).Msg("failed to create payment")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create payment"})
		return
	}

	promotedUntil := time.Now().Add(h.Window)
	if err := config.DB.Model(&restaurant).Updates(map[string]interface{}{
		"is_promoted":    true,
		"promoted_until": promotedUntil,
	}).Error; err != nil {
		log.Error().Err(err).Uint("restaurant_id", restaurant.ID).Msg("failed to promote restaurant")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create payment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "payment": payment})
}

// GetPayments lists the caller's own payments.
func (h *PaymentHandler) GetPayments(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var payments []models.Payment
	if err := config.DB.Where("user_id = ?", owner.ID).Find(&payments).Error; err != nil {
		log.Error().Err(err).Uint("user_id", owner.ID).Msg("failed to load payments")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "payments": payments})
}
