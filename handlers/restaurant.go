package handlers

import (
	"net/http"
	"strings"

	"dishdash-api/config"
	"dishdash-api/middleware"
	"dishdash-api/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ── Categories ──────────────────────────────────────────────────────────────

// getOrCreateCategory resolves a category by name, creating it on first
// use. Names are normalized (trimmed, lowercased) so "Pizza" and "pizza"
// resolve to the same category; the slug replaces spaces with dashes.
func getOrCreateCategory(db *gorm.DB, name string) (*models.Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	slug := strings.ReplaceAll(normalized, " ", "-")

	var category models.Category
	err := db.Where("slug = ?", slug).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	category = models.Category{Name: normalized, Slug: slug}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// AllCategories lists every category with its restaurant count.
func AllCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Find(&categories).Error; err != nil {
		log.Error().Err(err).Msg("failed to load categories")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load categories"})
		return
	}

	type categoryWithCount struct {
		models.Category
		RestaurantCount int64 `json:"restaurant_count"`
	}
	out := make([]categoryWithCount, 0, len(categories))
	for _, category := range categories {
		var count int64
		config.DB.Model(&models.Restaurant{}).Where("category_id = ?", category.ID).Count(&count)
		out = append(out, categoryWithCount{Category: category, RestaurantCount: count})
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "categories": out})
}

// FindCategoryBySlug returns one category plus a page of its restaurants,
// newest first.
func FindCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	page, limit := paginationParams(c)

	var category models.Category
	if err := config.DB.Where("slug = ?", slug).First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Category not found"})
		return
	}

	var restaurants []models.Restaurant
	if err := config.DB.
		Where("category_id = ?", category.ID).
		Limit(limit).
		Offset((page - 1) * limit).
		Order("id desc").
		Find(&restaurants).Error; err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("failed to load category restaurants")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load category"})
		return
	}

	var totalResults int64
	config.DB.Model(&models.Restaurant{}).Where("category_id = ?", category.ID).Count(&totalResults)

	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"category":    category,
		"restaurants": restaurants,
		"totalPages":  totalPages(totalResults, limit),
	})
}

// ── Restaurants ─────────────────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address" binding:"required"`
	CoverImage   string `json:"cover_image"`
	CategoryName string `json:"category_name" binding:"required"`
}

// CreateRestaurant creates a restaurant owned by the caller.
func CreateRestaurant(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	category, err := getOrCreateCategory(config.DB, req.CategoryName)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve category")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create restaurant"})
		return
	}

	restaurant := models.Restaurant{
		Name:       req.Name,
		Address:    req.Address,
		CoverImage: req.CoverImage,
		CategoryID: &category.ID,
		OwnerID:    owner.ID,
	}
	if err := config.DB.Create(&restaurant).Error; err != nil {
		log.Error().Err(err).Msg("failed to create restaurant")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "restaurant": restaurant})
}

type EditRestaurantRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	CoverImage   string `json:"cover_image"`
	CategoryName string `json:"category_name"`
}

// EditRestaurant updates a restaurant's details, owner only.
func EditRestaurant(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Restaurant not found"})
		return
	}
	if restaurant.OwnerID != owner.ID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't edit a restaurant that you don't own"})
		return
	}

	var req EditRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	update := map[string]interface{}{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Address != "" {
		update["address"] = req.Address
	}
	if req.CoverImage != "" {
		update["cover_image"] = req.CoverImage
	}
	if req.CategoryName != "" {
		category, err := getOrCreateCategory(config.DB, req.CategoryName)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve category")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not edit restaurant"})
			return
		}
		update["category_id"] = category.ID
	}

	if err := config.DB.Model(&restaurant).Updates(update).Error; err != nil {
		log.Error().Err(err).Uint("restaurant_id", restaurant.ID).Msg("failed to edit restaurant")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not edit restaurant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteRestaurant tombstones a restaurant, owner only.
func DeleteRestaurant(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Restaurant not found"})
		return
	}
	if restaurant.OwnerID != owner.ID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't delete a restaurant that you don't own"})
		return
	}

	if err := config.DB.Delete(&restaurant).Error; err != nil {
		log.Error().Err(err).Uint("restaurant_id", restaurant.ID).Msg("failed to delete restaurant")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not delete restaurant"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AllRestaurants lists restaurants, newest first, paginated.
func AllRestaurants(c *gin.Context) {
	page, limit := paginationParams(c)

	var restaurants []models.Restaurant
	if err := config.DB.
		Limit(limit).
		Offset((page - 1) * limit).
		Order("id desc").
		Find(&restaurants).Error; err != nil {
		log.Error().Err(err).Msg("failed to load restaurants")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load restaurants"})
		return
	}

	var totalResults int64
	config.DB.Model(&models.Restaurant{}).Count(&totalResults)

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"restaurants":  restaurants,
		"totalResults": totalResults,
		"totalPages":   totalPages(totalResults, limit),
	})
}

// FindRestaurantByID returns one restaurant with its menu.
func FindRestaurantByID(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("Menu").First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "restaurant": restaurant})
}

// SearchRestaurants matches restaurant names case-insensitively against a
// substring, paginated.
func SearchRestaurants(c *gin.Context) {
	query := c.Query("query")
	page, limit := paginationParams(c)

	pattern := "%" + strings.ToLower(query) + "%"

	var restaurants []models.Restaurant
	if err := config.DB.
		Where("LOWER(name) LIKE ?", pattern).
		Limit(limit).
		Offset((page - 1) * limit).
		Order("id desc").
		Find(&restaurants).Error; err != nil {
		log.Error().Err(err).Str("query", query).Msg("restaurant search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not search restaurants"})
		return
	}

	var totalResults int64
	config.DB.Model(&models.Restaurant{}).Where("LOWER(name) LIKE ?", pattern).Count(&totalResults)

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"restaurants":  restaurants,
		"totalResults": totalResults,
		"totalPages":   totalPages(totalResults, limit),
	})
}

// MyRestaurants lists every restaurant the caller owns.
func MyRestaurants(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var restaurants []models.Restaurant
	if err := config.DB.Where("owner_id = ?", owner.ID).Find(&restaurants).Error; err != nil {
		log.Error().Err(err).Uint("owner_id", owner.ID).Msg("failed to load own restaurants")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not load restaurants"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "restaurants": restaurants})
}

// MyRestaurant returns one of the caller's restaurants with menu and orders.
func MyRestaurant(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var restaurant models.Restaurant
	if err := config.DB.
		Preload("Menu").
		Preload("Orders").
		Where("id = ? AND owner_id = ?", c.Param("id"), owner.ID).
		First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "restaurant": restaurant})
}

// ── Menus ───────────────────────────────────────────────────────────────────

type CreateMenuRequest struct {
	RestaurantID uint                `json:"restaurant_id" binding:"required"`
	Name         string              `json:"name" binding:"required"`
	Price        float64             `json:"price" binding:"required,gt=0"`
	Photo        string              `json:"photo"`
	Description  string              `json:"description"`
	Options      []models.MenuOption `json:"options"`
}

// CreateMenu adds a menu item to a restaurant the caller owns.
func CreateMenu(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	var req CreateMenuRequest
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
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You can't add a menu to a restaurant that you don't own"})
		return
	}

	menu := models.Menu{
		RestaurantID: restaurant.ID,
		Name:         req.Name,
		Price:        req.Price,
		Photo:        req.Photo,
		Description:  req.Description,
		Options:      req.Options,
	}
	if err := config.DB.Create(&menu).Error; err != nil {
		log.Error().Err(err).Msg("failed to create menu")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create menu"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "menu": menu})
}

type EditMenuRequest struct {
	Name        string              `json:"name"`
	Price       float64             `json:"price" binding:"omitempty,gt=0"`
	Photo       string              `json:"photo"`
	Description string              `json:"description"`
	Options     []models.MenuOption `json:"options"`
}

// loadOwnedMenu fetches a menu with its restaurant and checks the caller
// owns it. Returns nil after writing the response when the check fails.
func loadOwnedMenu(c *gin.Context, ownerID uint) *models.Menu {
	var menu models.Menu
	if err := config.DB.Preload("Restaurant").First(&menu, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Menu not found"})
		return nil
	}
	if menu.Restaurant == nil || menu.Restaurant.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "You don't own this menu"})
		return nil
	}
	return &menu
}

// EditMenu updates a menu item, owner only.
func EditMenu(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	menu := loadOwnedMenu(c, owner.ID)
	if menu == nil {
		return
	}

	var req EditMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if req.Name != "" {
		menu.Name = req.Name
	}
	if req.Price > 0 {
		menu.Price = req.Price
	}
	if req.Photo != "" {
		menu.Photo = req.Photo
	}
	if req.Description != "" {
		menu.Description = req.Description
	}
	if req.Options != nil {
		menu.Options = req.Options
	}

	if err := config.DB.Save(menu).Error; err != nil {
		log.Error().Err(err).Uint("menu_id", menu.ID).Msg("failed to edit menu")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not edit menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteMenu removes a menu item, owner only.
func DeleteMenu(c *gin.Context) {
	owner := middleware.CurrentUser(c)

	menu := loadOwnedMenu(c, owner.ID)
	if menu == nil {
		return
	}

	if err := config.DB.Delete(menu).Error; err != nil {
		log.Error().Err(err).Uint("menu_id", menu.ID).Msg("failed to delete menu")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not delete menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
