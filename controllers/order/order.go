package orderControllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/models"
	"github.com/threadcart/threadcart-api/payment"
)

// -------- Request structs --------

// orderItemRequest deliberately has no binding tags: a zero quantity or
// product id should surface as a domain error, not a generic bind failure.
type orderItemRequest struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type createOrderRequest struct {
	Products        []orderItemRequest     `json:"products" binding:"required"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type updatePaymentRequest struct {
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

// -------- Helpers --------

func parseOrderID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invalid order ID"})
		return 0, false
	}
	return uint(id), true
}

// loadOwnedOrder fetches an order scoped to its owner. An order that
// exists but belongs to someone else reads as not found.
func loadOwnedOrder(db *gorm.DB, c *gin.Context) (*models.Order, bool) {
	id, ok := parseOrderID(c)
	if !ok {
		return nil, false
	}
	userID := c.GetString("user_id")

	var order models.Order
	if err := db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		return nil, false
	}
	return &order, true
}

func validAddress(a models.ShippingAddress) bool {
	return a.FullName != "" && a.Email != "" && a.Phone != "" &&
		a.Address != "" && a.City != "" && a.PostalCode != ""
}

// buildLineItems snapshots price, name and image per requested line and
// accumulates the total. The catalog is consulted once, here; nothing
// recomputes the total from live prices afterwards.
func buildLineItems(items []orderItemRequest, byID map[uint]models.Product) ([]models.OrderItem, float64, error) {
	var total float64
	lines := make([]models.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, 0, models.ErrInvalidQuantity
		}
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, 0, models.ErrUnknownProduct
		}
		total += product.Price * float64(item.Quantity)
		lines = append(lines, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			Price:     product.Price,
			Name:      product.Name,
			Image:     product.Image,
		})
	}
	return lines, total, nil
}

// transition applies a table-guarded status change on a freshly read
// order. Every mutation path funnels through here.
func transition(db *gorm.DB, order *models.Order, to models.OrderStatus) error {
	if !models.CanTransition(order.Status, to) {
		return models.ErrInvalidTransition
	}
	if err := db.Model(order).Update("status", to).Error; err != nil {
		return err
	}
	order.Status = to
	return nil
}

// guardStatusChange validates a requested lifecycle move before anything
// is written. A move to cancelled additionally passes the cancellation
// guard, so the COD window holds no matter which endpoint asks.
func guardStatusChange(order *models.Order, to models.OrderStatus, now time.Time) (int, error) {
	if to == models.OrderStatusCancelled {
		if err := order.CanCancel(now); err != nil {
			return cancelErrorStatus(err), err
		}
	}
	if !models.CanTransition(order.Status, to) {
		return http.StatusConflict, models.ErrInvalidTransition
	}
	return 0, nil
}

// cancelErrorStatus maps cancellation-guard failures onto HTTP codes: a
// closed COD window is a bad request, a state that was never cancelable
// is a conflict.
func cancelErrorStatus(err error) int {
	if err == models.ErrCancelWindowClosed {
		return http.StatusBadRequest
	}
	return http.StatusConflict
}

// createOrder validates the request, resolves every referenced product
// and persists the order atomically; no partial order survives a bad
// line item.
func createOrder(db *gorm.DB, userID string, req createOrderRequest, forcedMethod string) (*models.Order, error) {
	if len(req.Products) == 0 {
		return nil, models.ErrNoProducts
	}
	if !validAddress(req.ShippingAddress) {
		return nil, models.ErrBadAddress
	}

	requested := req.PaymentMethod
	if forcedMethod != "" {
		requested = forcedMethod
	}
	method, status, cancelableUntil, err := models.CreationState(requested, time.Now())
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(req.Products))
	for _, item := range req.Products {
		ids = append(ids, item.ProductID)
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		lines, total, err := buildLineItems(req.Products, byID)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:          userID,
			Items:           lines,
			TotalAmount:     total,
			Status:          status,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   method,
			CancelableUntil: cancelableUntil,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// -------- Handlers --------

// CreateOrderHandler is the COD/default order creation path.
func CreateOrderHandler(db *gorm.DB, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Products are required"})
			return
		}

		order, err := createOrder(db, c.GetString("user_id"), req, "")
		if err != nil {
			c.JSON(creationErrorStatus(err), gin.H{"message": err.Error()})
			return
		}

		hub.Broadcast(order)
		c.JSON(http.StatusCreated, order)
	}
}

func creationErrorStatus(err error) int {
	switch err {
	case models.ErrNoProducts, models.ErrBadAddress, models.ErrInvalidQuantity,
		models.ErrUnknownProduct, models.ErrInvalidPayment:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetOrdersHandler lists the caller's orders, newest first.
func GetOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").
			Where("user_id = ?", c.GetString("user_id")).
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadOwnedOrder(db, c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatusHandler moves an order along the lifecycle. A
// cancellation through this path obeys the same guard as the cancel
// endpoint.
func UpdateOrderStatusHandler(db *gorm.DB, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}
		newStatus, err := models.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}

		order, ok := loadOwnedOrder(db, c)
		if !ok {
			return
		}

		if code, err := guardStatusChange(order, newStatus, time.Now()); err != nil {
			c.JSON(code, gin.H{"message": err.Error()})
			return
		}
		if err := transition(db, order, newStatus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order status"})
			return
		}

		hub.Broadcast(order)
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderPaymentHandler records a gateway payment id and/or applies
// a status change reported by the client after checkout. The whole
// request is validated first and written as one update, so a rejected
// status change leaves nothing half-applied.
func UpdateOrderPaymentHandler(db *gorm.DB, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment update"})
			return
		}

		order, ok := loadOwnedOrder(db, c)
		if !ok {
			return
		}

		updates := map[string]interface{}{}
		var newStatus models.OrderStatus

		if req.Status != "" {
			parsed, err := models.ParseOrderStatus(req.Status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
				return
			}
			if code, err := guardStatusChange(order, parsed, time.Now()); err != nil {
				c.JSON(code, gin.H{"message": err.Error()})
				return
			}
			newStatus = parsed
			updates["status"] = parsed
		}
		if req.PaymentID != "" {
			updates["payment_id"] = req.PaymentID
		}

		if len(updates) > 0 {
			if err := db.Model(order).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update payment"})
				return
			}
			if req.PaymentID != "" {
				order.PaymentID = req.PaymentID
			}
			if newStatus != "" {
				order.Status = newStatus
				hub.Broadcast(order)
			}
		}

		c.JSON(http.StatusOK, order)
	}
}

// CancelOrderHandler applies the cancellation guard and, for hosted
// payments, tells the gateway to void the checkout link (best effort).
func CancelOrderHandler(db *gorm.DB, gw payment.Gateway, hub *Hub, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadOwnedOrder(db, c)
		if !ok {
			return
		}

		if code, err := guardStatusChange(order, models.OrderStatusCancelled, time.Now()); err != nil {
			c.JSON(code, gin.H{"message": err.Error()})
			return
		}
		if err := transition(db, order, models.OrderStatusCancelled); err != nil {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			return
		}

		if order.PaymentMethod == models.PaymentMethodPayOS && order.PaymentID != "" {
			if code, err := strconv.ParseInt(order.PaymentID, 10, 64); err == nil {
				if err := gw.CancelPaymentRequest(context.Background(), code); err != nil {
					log.WithError(err).WithField("order_id", order.ID).
						Warn("failed to cancel payment request at gateway")
				}
			}
		}

		hub.Broadcast(order)
		c.JSON(http.StatusOK, order)
	}
}
