package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/models"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// RegisterHandler creates a password account. Duplicate email is a
// conflict; the hash never leaves the server.
func RegisterHandler(db *gorm.DB, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Password) < 6 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password (min 6) required"})
			return
		}
		email := normalizeEmail(req.Email)

		var existing models.User
		if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		} else if err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}

		user := models.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         req.Name,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}

		token, err := tokens.Issue(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Token generation failed"})
			return
		}
		c.JSON(http.StatusCreated, tokenResponse{Token: token, User: &user})
	}
}

// LoginHandler verifies an email+password pair. Unknown email and wrong
// password produce the same rejection.
func LoginHandler(db *gorm.DB, tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password required"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", normalizeEmail(req.Email)).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
			return
		}

		token, err := tokens.Issue(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, tokenResponse{Token: token, User: &user})
	}
}

// GetShippingInfoHandler returns the caller's saved shipping profile.
func GetShippingInfoHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"shippingInfo": user.ShippingInfo})
	}
}

// UpdateShippingInfoHandler replaces the caller's shipping profile.
func UpdateShippingInfoHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")

		var info models.ShippingInfo
		if err := c.ShouldBindJSON(&info); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid shipping info"})
			return
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		if err := db.Model(&user).Updates(map[string]interface{}{
			"shipping_full_name":   info.FullName,
			"shipping_phone":       info.Phone,
			"shipping_address":     info.Address,
			"shipping_city":        info.City,
			"shipping_postal_code": info.PostalCode,
		}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update shipping info"})
			return
		}
		user.ShippingInfo = info
		c.JSON(http.StatusOK, gin.H{"shippingInfo": user.ShippingInfo})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
