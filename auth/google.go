package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/api/idtoken"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/models"
)

type googleLoginRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleLoginHandler verifies a Google ID token and finds or creates
// the local account it maps to. A password account with the same email
// gets the Google subject linked on first login; both paths converge on
// the same local token.
func GoogleLoginHandler(db *gorm.DB, tokens *Tokens, clientID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req googleLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "idToken is required"})
			return
		}

		payload, err := idtoken.Validate(c.Request.Context(), req.IDToken, clientID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Google ID token"})
			return
		}

		email, _ := payload.Claims["email"].(string)
		if email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Google token has no email"})
			return
		}
		name, _ := payload.Claims["name"].(string)
		picture, _ := payload.Claims["picture"].(string)
		googleID := payload.Subject

		user, err := findOrCreateGoogleUser(db, googleID, normalizeEmail(email), name, picture)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to resolve user"})
			return
		}

		token, err := tokens.Issue(user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Token generation failed"})
			return
		}
		c.JSON(http.StatusOK, tokenResponse{Token: token, User: user})
	}
}

func findOrCreateGoogleUser(db *gorm.DB, googleID, email, name, picture string) (*models.User, error) {
	var user models.User

	err := db.Where("google_id = ?", googleID).First(&user).Error
	if err == nil {
		// Refresh profile fields Google may have changed.
		db.Model(&user).Updates(models.User{Name: name, Picture: picture})
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	// Existing password account with this email: link the Google subject.
	err = db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if updateErr := db.Model(&user).Updates(map[string]interface{}{
			"google_id": googleID,
			"name":      name,
			"picture":   picture,
		}).Error; updateErr != nil {
			return nil, updateErr
		}
		user.GoogleID = &googleID
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	user = models.User{
		ID:       uuid.NewString(),
		Email:    email,
		GoogleID: &googleID,
		Name:     name,
		Picture:  picture,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
