package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"dishdash-api/config"
	"dishdash-api/events"
	"dishdash-api/handlers"
	"dishdash-api/middleware"
	"dishdash-api/models"
	"dishdash-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPromotionWindow = 7 * 24 * time.Hour

var testDBSeq atomic.Int64

// nopMailer satisfies mail.Sender without talking to Mailgun.
type nopMailer struct{}

func (nopMailer) SendVerificationEmail(to, code string) {}

// fakeStore satisfies uploads.ObjectStore in memory.
type fakeStore struct {
	lastFilename string
}

func (s *fakeStore) Put(ctx context.Context, filename string, body io.Reader) (string, error) {
	s.lastFilename = filename
	return "https://uploads.test/" + filename, nil
}

// setupAPI builds a fresh in-memory database and the full router.
func setupAPI(t *testing.T) (*gin.Engine, *events.Bus) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Verification{},
		&models.Category{},
		&models.Restaurant{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
	))

	config.DB = db
	config.JWTSecret = []byte("test-secret")

	bus := events.New()
	r := gin.New()
	routes.SetupRoutes(r, routes.Handlers{
		Accounts:      handlers.NewAccountHandler(nopMailer{}, config.JWTConfig{Secret: "test-secret", TTL: time.Hour}),
		Orders:        handlers.NewOrderHandler(bus),
		Subscriptions: handlers.NewSubscriptionHandler(bus),
		Payments:      handlers.NewPaymentHandler(testPromotionWindow),
		Uploads:       handlers.NewUploadHandler(&fakeStore{}),
	})
	return r, bus
}

// createUser inserts a user directly and returns it with a valid token.
func createUser(t *testing.T, email string, role models.UserRole) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{Email: email, Password: string(hash), Role: role}
	require.NoError(t, config.DB.Create(&user).Error)

	token, err := middleware.GenerateToken(&user, time.Hour)
	require.NoError(t, err)

	return user, token
}

// do performs a JSON request against the router.
func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope map[string]interface{}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func requireOK(t *testing.T, w *httptest.ResponseRecorder, wantStatus int) envelope {
	t.Helper()
	require.Equal(t, wantStatus, w.Code, "body: %s", w.Body.String())
	env := decode(t, w)
	require.Equal(t, true, env["ok"], "body: %s", w.Body.String())
	return env
}

func requireFail(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantError string) {
	t.Helper()
	require.Equal(t, wantStatus, w.Code, "body: %s", w.Body.String())
	env := decode(t, w)
	require.Equal(t, false, env["ok"], "body: %s", w.Body.String())
	require.Equal(t, wantError, env["error"])
}

// seedRestaurant creates a restaurant for an owner, bypassing the API.
func seedRestaurant(t *testing.T, ownerID uint, name string) models.Restaurant {
	t.Helper()
	restaurant := models.Restaurant{Name: name, Address: "1 Test St", OwnerID: ownerID}
	require.NoError(t, config.DB.Create(&restaurant).Error)
	return restaurant
}

// seedMenu creates a menu item on a restaurant, bypassing the API.
func seedMenu(t *testing.T, restaurantID uint, name string, price float64, options []models.MenuOption) models.Menu {
	t.Helper()
	menu := models.Menu{Name: name, Price: price, RestaurantID: restaurantID, Options: options}
	require.NoError(t, config.DB.Create(&menu).Error)
	return menu
}

// seedOrder creates an order directly with the given relations.
func seedOrder(t *testing.T, customerID, restaurantID uint, status models.OrderStatus) models.Order {
	t.Helper()
	order := models.Order{
		CustomerID:   &customerID,
		RestaurantID: &restaurantID,
		Status:       status,
		Total:        10,
	}
	require.NoError(t, config.DB.Create(&order).Error)
	return order
}
