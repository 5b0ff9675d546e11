package models

import "time"

type User struct {
	ID           string       `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string       `json:"-"`
	GoogleID     *string      `gorm:"uniqueIndex" json:"-"`
	Name         string       `json:"name,omitempty"`
	Picture      string       `json:"picture,omitempty"`
	ShippingInfo ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingInfo"`
	Orders       []Order      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ShippingInfo is the saved shipping profile, embedded in User the same
// way as the order's shipping address but without the email field.
type ShippingInfo struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}
