package handlers

import (
	"net/http"

	"dishdash-api/config"
	"dishdash-api/mail"
	"dishdash-api/middleware"
	"dishdash-api/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountHandler serves account registration, login and profile
// operations. The mailer is injected so tests can run without Mailgun.
type AccountHandler struct {
	Mailer mail.Sender
	cfg    config.JWTConfig
}

func NewAccountHandler(mailer mail.Sender, cfg config.JWTConfig) *AccountHandler {
	return &AccountHandler{Mailer: mailer, cfg: cfg}
}

type CreateAccountRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=6"`
	Role     models.UserRole `json:"role" binding:"required,oneof=Client Owner Delivery"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateAccount registers a new user and kicks off email verification.
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "There is a user with that email already"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create account"})
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hash),
		Role:     req.Role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		log.Error().Err(err).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create account"})
		return
	}

	verification := models.Verification{
		Code:   uuid.New().String(),
		UserID: user.ID,
	}
	if err := config.DB.Create(&verification).Error; err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to create verification")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not create account"})
		return
	}

	h.Mailer.SendVerificationEmail(user.Email, verification.Code)

	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// Login authenticates a user and returns a signed token.
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "User not found"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "Wrong password"})
		return
	}

	token, err := middleware.GenerateToken(&user, h.cfg.TTL)
	if err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "token": token})
}

// Me returns the authenticated user's own record.
func (h *AccountHandler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

// UserProfile returns any user's public profile by id.
func (h *AccountHandler) UserProfile(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "User Not Found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}

type EditProfileRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

// EditProfile updates the caller's email and/or password. Changing the
// email revokes verification and starts a fresh verification round.
// Hashing happens here, only when a plaintext password actually arrives.
func (h *AccountHandler) EditProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req EditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "There is a user with that email already"})
			return
		}

		user.Email = req.Email
		user.Verified = false

		config.DB.Where("user_id = ?", user.ID).Delete(&models.Verification{})
		verification := models.Verification{
			Code:   uuid.New().String(),
			UserID: user.ID,
		}
		if err := config.DB.Create(&verification).Error; err != nil {
			log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to create verification")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not update profile"})
			return
		}
		h.Mailer.SendVerificationEmail(user.Email, verification.Code)
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not update profile"})
			return
		}
		user.Password = string(hash)
	}

	if err := config.DB.Save(user).Error; err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyEmail consumes a verification code: marks the user verified and
// deletes the record so the code is single-use.
func (h *AccountHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	var verification models.Verification
	if err := config.DB.Where("code = ?", req.Code).First(&verification).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "Verification Not Found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", verification.UserID).
			Update("verified", true).Error; err != nil {
			return err
		}
		return tx.Delete(&verification).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("user_id", verification.UserID).Msg("failed to verify email")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "Could not verify email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
