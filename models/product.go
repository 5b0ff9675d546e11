package models

import "time"

type ProductCategory string

const (
	CategoryPolo  ProductCategory = "polo"
	CategoryJean  ProductCategory = "jean"
	CategorySomi  ProductCategory = "somi"
	CategoryThun  ProductCategory = "thun"
	CategoryOther ProductCategory = "other"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `gorm:"not null" json:"description"`
	Price       float64         `gorm:"not null" json:"price"`
	Image       string          `json:"image"`
	Category    ProductCategory `gorm:"type:VARCHAR(20);default:'other'" json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ParseCategory maps a client-supplied category to the closed set.
// An empty value falls back to "other"; anything else is rejected.
func ParseCategory(s string) (ProductCategory, bool) {
	switch ProductCategory(s) {
	case CategoryPolo, CategoryJean, CategorySomi, CategoryThun, CategoryOther:
		return ProductCategory(s), true
	case "":
		return CategoryOther, true
	default:
		return "", false
	}
}
