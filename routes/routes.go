package routes

import (
	"dishdash-api/handlers"
	"dishdash-api/middleware"
	"dishdash-api/models"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the constructed handlers routes need.
type Handlers struct {
	Accounts      *handlers.AccountHandler
	Orders        *handlers.OrderHandler
	Subscriptions *handlers.SubscriptionHandler
	Payments      *handlers.PaymentHandler
	Uploads       *handlers.UploadHandler
}

// SetupRoutes registers the full API surface. Identity resolution runs on
// every request (fail-open); each group declares its required role set.
func SetupRoutes(r *gin.Engine, h Handlers) {
	api := r.Group("/api")
	api.Use(middleware.Authenticate())

	// ── Public ─────────────────────────────────────────────────────
	{
		api.POST("/accounts", h.Accounts.CreateAccount)
		api.POST("/auth/login", h.Accounts.Login)
		api.POST("/accounts/verify-email", h.Accounts.VerifyEmail)

		api.GET("/categories", handlers.AllCategories)
		api.GET("/categories/:slug", handlers.FindCategoryBySlug)
		api.GET("/restaurants", handlers.AllRestaurants)
		api.GET("/restaurants/search", handlers.SearchRestaurants)
		api.GET("/restaurants/:id", handlers.FindRestaurantByID)

		api.POST("/uploads", h.Uploads.Upload)
	}

	// ── Any authenticated user ─────────────────────────────────────
	authed := api.Group("")
	authed.Use(middleware.RoleRequired(models.RoleAny))
	{
		authed.GET("/me", h.Accounts.Me)
		authed.PUT("/me", h.Accounts.EditProfile)
		authed.GET("/users/:id", h.Accounts.UserProfile)

		authed.GET("/orders", h.Orders.GetOrders)
		authed.GET("/orders/:id", h.Orders.GetOrder)
		authed.PUT("/orders/:id", h.Orders.EditOrder)
		authed.GET("/subscriptions/orders/:id/updates", h.Subscriptions.OrderUpdates)
	}

	// ── Client ─────────────────────────────────────────────────────
	client := api.Group("")
	client.Use(middleware.RoleRequired(models.RoleClient))
	{
		client.POST("/orders", h.Orders.CreateOrder)
	}

	// ── Owner ──────────────────────────────────────────────────────
	owner := api.Group("")
	owner.Use(middleware.RoleRequired(models.RoleOwner))
	{
		owner.POST("/restaurants", handlers.CreateRestaurant)
		owner.PUT("/restaurants/:id", handlers.EditRestaurant)
		owner.DELETE("/restaurants/:id", handlers.DeleteRestaurant)
		owner.GET("/owner/restaurants", handlers.MyRestaurants)
		owner.GET("/owner/restaurants/:id", handlers.MyRestaurant)

		owner.POST("/menus", handlers.CreateMenu)
		owner.PUT("/menus/:id", handlers.EditMenu)
		owner.DELETE("/menus/:id", handlers.DeleteMenu)

		owner.POST("/payments", h.Payments.CreatePayment)
		owner.GET("/payments", h.Payments.GetPayments)

		owner.GET("/subscriptions/pending-orders", h.Subscriptions.PendingOrders)
	}

	// ── Delivery ───────────────────────────────────────────────────
	delivery := api.Group("")
	delivery.Use(middleware.RoleRequired(models.RoleDelivery))
	{
		delivery.PUT("/orders/:id/take", h.Orders.TakeOrder)
		delivery.GET("/subscriptions/cooked-orders", h.Subscriptions.CookedOrders)
	}
}
