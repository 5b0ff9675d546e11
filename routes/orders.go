package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/threadcart/threadcart-api/auth"
	"github.com/threadcart/threadcart-api/config"
	orderControllers "github.com/threadcart/threadcart-api/controllers/order"
	"github.com/threadcart/threadcart-api/middleware"
	"github.com/threadcart/threadcart-api/payment"
)

func setupOrderRoutes(api *gin.RouterGroup, db *gorm.DB, tokens *auth.Tokens, gw payment.Gateway, hub *orderControllers.Hub, cfg config.App, log *logrus.Logger) {
	orders := api.Group("/orders")

	// The gateway calls back without a session; authenticity comes from
	// the payload signature instead.
	orders.POST("/payos/webhook", orderControllers.PayOSWebhookHandler(db, gw, hub, log))

	// Live order feed for dashboards.
	orders.GET("/ws", hub.Handler)

	authed := orders.Group("")
	authed.Use(middleware.RequireAuth(tokens))
	{
		authed.GET("", orderControllers.GetOrdersHandler(db))
		authed.POST("", orderControllers.CreateOrderHandler(db, hub))
		authed.POST("/payos", orderControllers.CreatePayOSOrderHandler(db, gw, cfg.FrontendURL, hub, log))

		authed.GET("/:id", orderControllers.GetOrderByIDHandler(db))
		authed.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(db, hub))
		authed.PUT("/:id/payment", orderControllers.UpdateOrderPaymentHandler(db, hub))
		authed.PUT("/:id/cancel", orderControllers.CancelOrderHandler(db, gw, hub, log))
		authed.GET("/:id/payment-status", orderControllers.PaymentStatusHandler(db, gw, hub, log))
		authed.POST("/:id/complete-payment", orderControllers.CompletePaymentHandler(db, hub))
	}
}
