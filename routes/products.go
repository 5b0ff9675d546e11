package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/config"
	productControllers "github.com/threadcart/threadcart-api/controllers/product"
	"github.com/threadcart/threadcart-api/middleware"
)

func setupProductRoutes(api *gin.RouterGroup, db *gorm.DB, cfg config.App) {
	products := api.Group("/products")
	{
		// Reads are public; the storefront browses without a session.
		products.GET("", productControllers.GetProducts(db))

		// Mutations are an admin surface.
		admin := products.Group("")
		admin.Use(middleware.RequireAdminKey(cfg.AdminAPIKey))
		{
			admin.POST("", productControllers.CreateProduct(db))
			admin.GET("/export", productControllers.ExportProductsToExcel(db))
			admin.PUT("/:id", productControllers.UpdateProduct(db))
			admin.DELETE("/:id", productControllers.DeleteProduct(db))
		}

		products.GET("/:id", productControllers.GetProductByID(db))
	}
}
