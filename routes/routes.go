package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/auth"
	"github.com/threadcart/threadcart-api/config"
	orderControllers "github.com/threadcart/threadcart-api/controllers/order"
	"github.com/threadcart/threadcart-api/payment"
)

// Setup is the single entry point that wires up the /api surface.
func Setup(r *gin.Engine, db *gorm.DB, tokens *auth.Tokens, gw payment.Gateway, hub *orderControllers.Hub, cfg config.App, log *logrus.Logger) {
	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupAuthRoutes(api, db, tokens, cfg)
	setupProductRoutes(api, db, cfg)
	setupOrderRoutes(api, db, tokens, gw, hub, cfg, log)
}
