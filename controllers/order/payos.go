package orderControllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/models"
	"github.com/threadcart/threadcart-api/payment"
)

// CreatePayOSOrderHandler creates an order and a hosted-checkout link
// for it. The order is persisted first (status pending); the gateway
// order code and checkout URL are attached afterwards so the webhook
// can find its way back.
func CreatePayOSOrderHandler(db *gorm.DB, gw payment.Gateway, frontendURL string, hub *Hub, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Products are required"})
			return
		}

		order, err := createOrder(db, c.GetString("user_id"), req, string(models.PaymentMethodPayOS))
		if err != nil {
			c.JSON(creationErrorStatus(err), gin.H{"message": err.Error()})
			return
		}

		items := make([]payment.CheckoutItem, 0, len(order.Items))
		for _, line := range order.Items {
			items = append(items, payment.CheckoutItem{
				Name:     line.Name,
				Quantity: line.Quantity,
				Price:    line.Price,
			})
		}

		link, err := gw.CreatePaymentLink(c.Request.Context(), payment.CheckoutRequest{
			OrderCode:   int64(order.ID),
			Amount:      order.TotalAmount,
			Description: fmt.Sprintf("Thread Cart order #%d", order.ID),
			Items:       items,
			BuyerName:   order.ShippingAddress.FullName,
			BuyerEmail:  order.ShippingAddress.Email,
			BuyerPhone:  order.ShippingAddress.Phone,
			ReturnURL:   fmt.Sprintf("%s/orders/%d?payment=success", frontendURL, order.ID),
			CancelURL:   fmt.Sprintf("%s/orders/%d?payment=cancelled", frontendURL, order.ID),
		})
		if err != nil {
			// No silent fallback: the gateway choice was made at boot.
			log.WithError(err).WithField("order_id", order.ID).Error("payment link creation failed")
			c.JSON(http.StatusBadGateway, gin.H{"message": "Failed to create payment link"})
			return
		}

		updates := map[string]interface{}{
			"payment_id":  strconv.FormatInt(link.OrderCode, 10),
			"payment_url": link.CheckoutURL,
		}
		if err := db.Model(order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save payment link"})
			return
		}
		order.PaymentID = strconv.FormatInt(link.OrderCode, 10)
		order.PaymentURL = link.CheckoutURL

		hub.Broadcast(order)
		c.JSON(http.StatusCreated, order)
	}
}

// PayOSWebhookHandler is the unauthenticated re-entry point. The
// signature is checked before anything is read from the payload, and
// the status change still goes through the transition table, so a late
// EXPIRED after PAID is acknowledged without effect.
func PayOSWebhookHandler(db *gorm.DB, gw payment.Gateway, hub *Hub, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload map[string]interface{}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid webhook payload"})
			return
		}

		signature, _ := payload["signature"].(string)
		delete(payload, "signature")

		if !gw.VerifyWebhook(payload, signature) {
			log.Warn("webhook rejected: bad signature")
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid webhook signature"})
			return
		}

		orderCode := webhookOrderCode(payload["orderCode"])
		if orderCode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing orderCode"})
			return
		}
		gatewayStatus, _ := payload["status"].(string)

		var order models.Order
		if err := db.Where("payment_id = ?", orderCode).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}

		target, relevant := statusFromGateway(gatewayStatus)
		if !relevant {
			c.JSON(http.StatusOK, gin.H{"message": "Webhook acknowledged"})
			return
		}

		if err := transition(db, &order, target); err != nil {
			if err == models.ErrInvalidTransition {
				log.WithFields(logrus.Fields{
					"order_id": order.ID,
					"from":     order.Status,
					"to":       target,
				}).Info("webhook transition not applicable, ignoring")
				c.JSON(http.StatusOK, gin.H{"message": "Webhook acknowledged"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
			return
		}

		log.WithFields(logrus.Fields{
			"order_id": order.ID,
			"status":   order.Status,
		}).Info("order updated from webhook")

		hub.Broadcast(&order)
		c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
	}
}

// PaymentStatusHandler reconciles a possibly stale local order with the
// gateway's view, then reports both.
func PaymentStatusHandler(db *gorm.DB, gw payment.Gateway, hub *Hub, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadOwnedOrder(db, c)
		if !ok {
			return
		}

		gatewayStatus := ""
		if order.PaymentMethod == models.PaymentMethodPayOS && order.PaymentID != "" {
			code, err := strconv.ParseInt(order.PaymentID, 10, 64)
			if err == nil {
				info, err := gw.GetPaymentInfo(c.Request.Context(), code)
				if err != nil {
					log.WithError(err).WithField("order_id", order.ID).
						Warn("payment info fetch failed")
				} else {
					gatewayStatus = info.Status
					if target, relevant := statusFromGateway(info.Status); relevant {
						if err := transition(db, order, target); err == nil {
							hub.Broadcast(order)
						}
					}
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"orderId":       order.ID,
			"status":        order.Status,
			"gatewayStatus": gatewayStatus,
		})
	}
}

// CompletePaymentHandler is the client-reported success path used by
// the mock checkout page: the owner reports payment done and the order
// moves to paid if the table allows it.
func CompletePaymentHandler(db *gorm.DB, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := loadOwnedOrder(db, c)
		if !ok {
			return
		}

		if order.PaymentMethod == models.PaymentMethodCOD {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Order is cash on delivery"})
			return
		}
		if err := transition(db, order, models.OrderStatusPaid); err != nil {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			return
		}

		hub.Broadcast(order)
		c.JSON(http.StatusOK, order)
	}
}

// statusFromGateway maps a gateway payment status onto the order
// lifecycle. Unknown statuses are ignored, not errors.
func statusFromGateway(s string) (models.OrderStatus, bool) {
	switch s {
	case "PAID":
		return models.OrderStatusPaid, true
	case "CANCELLED", "EXPIRED":
		return models.OrderStatusCancelled, true
	default:
		return "", false
	}
}

// webhookOrderCode renders the payload's orderCode, which arrives as a
// JSON number or string, to the stored payment id form.
func webhookOrderCode(v interface{}) string {
	switch code := v.(type) {
	case string:
		return code
	case float64:
		return strconv.FormatInt(int64(code), 10)
	default:
		return ""
	}
}
