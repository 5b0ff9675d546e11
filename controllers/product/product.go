package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/models"
)

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
}

// parseID reads the numeric id param; anything malformed reads as
// not-found, same as an unknown id.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid product ID"})
		return 0, false
	}
	return uint(id), true
}

// GetProducts lists the catalog, newest first.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve product"})
			}
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, description, price are required"})
			return
		}
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "price must be non-negative"})
			return
		}
		category, ok := models.ParseCategory(req.Category)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       *req.Price,
			Image:       req.Image,
			Category:    category,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct is a full-field replace, mirroring create validation.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name, description, price are required"})
			return
		}
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "price must be non-negative"})
			return
		}
		category, catOK := models.ParseCategory(req.Category)
		if !catOK {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}

		product.Name = req.Name
		product.Description = req.Description
		product.Price = *req.Price
		product.Image = req.Image
		product.Category = category

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
