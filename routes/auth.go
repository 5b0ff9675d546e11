package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/auth"
	"github.com/threadcart/threadcart-api/config"
	"github.com/threadcart/threadcart-api/middleware"
)

func setupAuthRoutes(api *gin.RouterGroup, db *gorm.DB, tokens *auth.Tokens, cfg config.App) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", auth.RegisterHandler(db, tokens))
		authGroup.POST("/login", auth.LoginHandler(db, tokens))
		authGroup.POST("/google", auth.GoogleLoginHandler(db, tokens, cfg.GoogleClientID))

		protected := authGroup.Group("")
		protected.Use(middleware.RequireAuth(tokens))
		{
			protected.GET("/shipping-info", auth.GetShippingInfoHandler(db))
			protected.PUT("/shipping-info", auth.UpdateShippingInfoHandler(db))
		}
	}
}
