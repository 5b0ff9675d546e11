package payment

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/threadcart/threadcart-api/config"
)

// CheckoutItem is one order line as the gateway wants to see it.
type CheckoutItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// CheckoutRequest describes a hosted-checkout session to be created.
type CheckoutRequest struct {
	OrderCode   int64
	Amount      float64
	Description string
	Items       []CheckoutItem
	BuyerName   string
	BuyerEmail  string
	BuyerPhone  string
	ReturnURL   string
	CancelURL   string
}

// CheckoutLink is the gateway's answer: where to send the customer and
// the opaque code the webhook will later reference.
type CheckoutLink struct {
	CheckoutURL string
	OrderCode   int64
}

// PaymentInfo is the remote view of a payment request, used to
// reconcile a possibly stale local order.
type PaymentInfo struct {
	OrderCode int64
	Status    string // PENDING, PAID, CANCELLED, EXPIRED
	Amount    float64
}

// Gateway is the hosted-checkout contract. Implementations: the live
// PayOS client and an in-app mock.
type Gateway interface {
	CreatePaymentLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error)
	VerifyWebhook(payload map[string]interface{}, signature string) bool
	GetPaymentInfo(ctx context.Context, orderCode int64) (*PaymentInfo, error)
	CancelPaymentRequest(ctx context.Context, orderCode int64) error
}

// Select picks the gateway implementation from configuration. The
// choice is made once at startup and logged; there is no per-request
// fallback from live to mock.
func Select(cfg config.App, log *logrus.Logger) Gateway {
	mode := cfg.PayOS.Mode
	if mode == "live" && !cfg.PayOS.HasLiveCredentials() {
		log.Warn("PAYOS_MODE=live but credentials are missing, forcing mock gateway")
		mode = "mock"
	}

	switch mode {
	case "live":
		log.WithField("base_url", cfg.PayOS.BaseURL).Info("using live PayOS gateway")
		return NewPayOSClient(cfg.PayOS, log)
	default:
		log.Info("using mock payment gateway")
		return NewMockGateway(cfg.FrontendURL, log)
	}
}
