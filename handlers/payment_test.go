package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"dishdash-api/config"
	"dishdash-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentPromotesRestaurant(t *testing.T) {
	r, _ := setupAPI(t)
	owner, ownerToken := createUser(t, "owner@test.com", models.RoleOwner)
	restaurant := seedRestaurant(t, owner.ID, "Promoted Place")

	before := time.Now()
	w := do(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"transaction_id": "txn_001", "restaurant_id": restaurant.ID,
	}, ownerToken)
	requireOK(t, w, http.StatusCreated)

	var got models.Restaurant
	require.NoError(t, config.DB.First(&got, restaurant.ID).Error)
	assert.True(t, got.IsPromoted)
	require.NotNil(t, got.PromotedUntil)

	// A full window from the payment moment.
	want := before.Add(testPromotionWindow)
	assert.WithinDuration(t, want, *got.PromotedUntil, 5*time.Second)
}

func TestCreatePaymentResetsWindow(t *testing.T) {
	r, _ := setupAPI(t)
	owner, ownerToken := createUser(t, "owner@test.com", models.RoleOwner)
	restaurant := seedRestaurant(t, owner.ID, "Promoted Place")

	// Already promoted, with most of the window left.
	existing := time.Now().Add(6 * 24 * time.Hour)
	require.NoError(t, config.DB.Model(&restaurant).Updates(map[string]interface{}{
		"is_promoted": true, "promoted_until": existing,
	}).Error)

	w := do(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"transaction_id": "txn_002", "restaurant_id": restaurant.ID,
	}, ownerToken)
	requireOK(t, w, http.StatusCreated)

	var got models.Restaurant
	require.NoError(t, config.DB.First(&got, restaurant.ID).Error)
	require.NotNil(t, got.PromotedUntil)

	// Reset to a fresh window, not stacked on the remaining time.
	want := time.Now().Add(testPromotionWindow)
	assert.WithinDuration(t, want, *got.PromotedUntil, 5*time.Second)
}

func TestCreatePaymentRejections(t *testing.T) {
	r, _ := setupAPI(t)
	owner, _ := createUser(t, "owner@test.com", models.RoleOwner)
	_, otherToken := createUser(t, "other@test.com", models.RoleOwner)
	restaurant := seedRestaurant(t, owner.ID, "Not Yours")

	w := do(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"transaction_id": "txn_003", "restaurant_id": restaurant.ID,
	}, otherToken)
	requireFail(t, w, http.StatusForbidden, "You are not allowed to do this")

	var got models.Restaurant
	require.NoError(t, config.DB.First(&got, restaurant.ID).Error)
	assert.False(t, got.IsPromoted)

	w = do(t, r, http.MethodPost, "/api/payments", map[string]interface{}{
		"transaction_id": "txn_004", "restaurant_id": 999,
	}, otherToken)
	requireFail(t, w, http.StatusNotFound, "Restaurant not found")
}

func TestGetPaymentsOwnOnly(t *testing.T) {
	r, _ := setupAPI(t)
	owner, ownerToken := createUser(t, "owner@test.com", models.RoleOwner)
	other, _ := createUser(t, "other@test.com", models.RoleOwner)
	mine := seedRestaurant(t, owner.ID, "Mine")
	theirs := seedRestaurant(t, other.ID, "Theirs")

	require.NoError(t, config.DB.Create(&models.Payment{
		TransactionID: "txn_mine", UserID: owner.ID, RestaurantID: mine.ID,
	}).Error)
	require.NoError(t, config.DB.Create(&models.Payment{
		TransactionID: "txn_theirs", UserID: other.ID, RestaurantID: theirs.ID,
	}).Error)

	env := requireOK(t, do(t, r, http.MethodGet, "/api/payments", nil, ownerToken), http.StatusOK)
	payments := env["payments"].([]interface{})
	require.Len(t, payments, 1)
	assert.Equal(t, "txn_mine", payments[0].(map[string]interface{})["transaction_id"])
}
