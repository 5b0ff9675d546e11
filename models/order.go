package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending   OrderStatus = "pending"   // awaiting online payment
	OrderStatusConfirmed OrderStatus = "confirmed" // placed, COD path
	OrderStatusPaid      OrderStatus = "paid"      // payment received
	OrderStatusShipped   OrderStatus = "shipped"   // out for delivery
	OrderStatusDelivered OrderStatus = "delivered" // terminal
	OrderStatusCancelled OrderStatus = "cancelled" // terminal

	PaymentMethodCOD    PaymentMethod = "cash_on_delivery"
	PaymentMethodPayOS  PaymentMethod = "payos"
	PaymentMethodStripe PaymentMethod = "stripe"
)

// CODCancelWindow is how long a cash-on-delivery order stays
// self-service cancellable after creation.
const CODCancelWindow = 24 * time.Hour

var (
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrOrderNotCancelable = errors.New("order can no longer be cancelled")
	ErrCancelWindowClosed = errors.New("cancellation window has expired")
	ErrNoProducts         = errors.New("products are required")
	ErrBadAddress         = errors.New("shipping address is incomplete")
	ErrInvalidQuantity    = errors.New("quantity must be a positive integer")
	ErrUnknownProduct     = errors.New("product not found")
	ErrInvalidPayment     = errors.New("invalid payment method")
)

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          string          `gorm:"index;not null" json:"userId"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     float64         `gorm:"not null" json:"totalAmount"`
	Status          OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	PaymentMethod   PaymentMethod   `gorm:"type:VARCHAR(30);default:'cash_on_delivery'" json:"paymentMethod"`
	PaymentID       string          `json:"paymentId,omitempty"`
	PaymentURL      string          `json:"paymentUrl,omitempty"`
	CancelableUntil *time.Time      `json:"cancelableUntil,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// OrderItem carries the product snapshot frozen at order time. Later
// catalog edits or deletes never change it.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"-"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image,omitempty"`
}

type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// orderTransitions is the single source of truth for the lifecycle.
// Every mutation path (status updates, payment updates, cancellation,
// webhooks, reconciliation) goes through CanTransition, so a stale
// EXPIRED webhook cannot regress a paid order.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPaid, OrderStatusShipped, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseOrderStatus maps a client-supplied status string to the enum.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(s))
	if _, ok := orderTransitions[st]; !ok {
		return "", ErrInvalidStatus
	}
	return st, nil
}

// CreationState resolves the requested payment method into the stored
// method, the initial status and the cancellation deadline. Only an
// explicit cash-on-delivery request is confirmed up front and gets a
// cancellation window; everything else, including the unspecified
// default path, starts pending with no deadline.
func CreationState(requested string, now time.Time) (PaymentMethod, OrderStatus, *time.Time, error) {
	switch PaymentMethod(requested) {
	case PaymentMethodCOD:
		deadline := now.Add(CODCancelWindow)
		return PaymentMethodCOD, OrderStatusConfirmed, &deadline, nil
	case PaymentMethodPayOS:
		return PaymentMethodPayOS, OrderStatusPending, nil, nil
	case PaymentMethodStripe:
		return PaymentMethodStripe, OrderStatusPending, nil, nil
	case "":
		return PaymentMethodCOD, OrderStatusPending, nil, nil
	default:
		return "", "", nil, ErrInvalidPayment
	}
}

// CanCancel applies the cancellation guard: only pending or confirmed
// orders may be cancelled, and COD orders only inside their window.
// Shipped orders must go through support, so they get a distinct error.
func (o *Order) CanCancel(now time.Time) error {
	if !CanTransition(o.Status, OrderStatusCancelled) {
		return ErrOrderNotCancelable
	}
	if o.PaymentMethod == PaymentMethodCOD && o.CancelableUntil != nil && now.After(*o.CancelableUntil) {
		return ErrCancelWindowClosed
	}
	return nil
}
