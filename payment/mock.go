package payment

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// MockGateway simulates hosted checkout without any network call. The
// checkout URL points at the frontend's mock payment page, and every
// webhook verifies. Not a security boundary; selected by configuration
// for development and tests.
type MockGateway struct {
	frontendURL string
	log         *logrus.Logger

	mu       sync.Mutex
	statuses map[int64]string
	amounts  map[int64]float64
}

func NewMockGateway(frontendURL string, log *logrus.Logger) *MockGateway {
	return &MockGateway{
		frontendURL: frontendURL,
		log:         log,
		statuses:    make(map[int64]string),
		amounts:     make(map[int64]float64),
	}
}

func (m *MockGateway) CreatePaymentLink(_ context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	url := fmt.Sprintf("%s/mock-payment/%d?amount=%s",
		m.frontendURL, req.OrderCode, strconv.FormatFloat(req.Amount, 'f', -1, 64))

	m.mu.Lock()
	m.statuses[req.OrderCode] = "PENDING"
	m.amounts[req.OrderCode] = req.Amount
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{
		"order_code":   req.OrderCode,
		"checkout_url": url,
	}).Info("mock payment link created")

	return &CheckoutLink{CheckoutURL: url, OrderCode: req.OrderCode}, nil
}

// VerifyWebhook always succeeds; the mock has no shared secret.
func (m *MockGateway) VerifyWebhook(map[string]interface{}, string) bool {
	return true
}

func (m *MockGateway) GetPaymentInfo(_ context.Context, orderCode int64) (*PaymentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status, ok := m.statuses[orderCode]
	if !ok {
		status = "PENDING"
	}
	return &PaymentInfo{OrderCode: orderCode, Status: status, Amount: m.amounts[orderCode]}, nil
}

func (m *MockGateway) CancelPaymentRequest(_ context.Context, orderCode int64) error {
	m.mu.Lock()
	m.statuses[orderCode] = "CANCELLED"
	m.mu.Unlock()
	return nil
}

// MarkPaid lets tests and the mock payment page flip a payment request
// to PAID so reconciliation can observe it.
func (m *MockGateway) MarkPaid(orderCode int64) {
	m.mu.Lock()
	m.statuses[orderCode] = "PAID"
	m.mu.Unlock()
}
