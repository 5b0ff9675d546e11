package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/threadcart/threadcart-api/config"
)

// linkExpiry is how long a checkout link stays valid.
const linkExpiry = 30 * time.Minute

// PayOSClient talks to the PayOS payment-requests API.
type PayOSClient struct {
	clientID    string
	apiKey      string
	checksumKey string
	baseURL     string
	http        *http.Client
	log         *logrus.Logger
}

func NewPayOSClient(cfg config.PayOS, log *logrus.Logger) *PayOSClient {
	return &PayOSClient{
		clientID:    cfg.ClientID,
		apiKey:      cfg.APIKey,
		checksumKey: cfg.ChecksumKey,
		baseURL:     cfg.BaseURL,
		http:        &http.Client{Timeout: 15 * time.Second},
		log:         log,
	}
}

// payosEnvelope is the common response wrapper: code "00" means success.
type payosEnvelope struct {
	Code string          `json:"code"`
	Desc string          `json:"desc"`
	Data json.RawMessage `json:"data"`
}

func (c *PayOSClient) CreatePaymentLink(ctx context.Context, req CheckoutRequest) (*CheckoutLink, error) {
	body := map[string]interface{}{
		"orderCode":   req.OrderCode,
		"amount":      req.Amount,
		"description": req.Description,
		"items":       req.Items,
		"returnUrl":   req.ReturnURL,
		"cancelUrl":   req.CancelURL,
		"buyerName":   req.BuyerName,
		"buyerEmail":  req.BuyerEmail,
		"buyerPhone":  req.BuyerPhone,
		"expiredAt":   time.Now().Add(linkExpiry).Unix(),
	}

	var data struct {
		CheckoutURL string `json:"checkoutUrl"`
		OrderCode   int64  `json:"orderCode"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/payment-requests", body, &data); err != nil {
		return nil, err
	}
	if data.CheckoutURL == "" {
		return nil, errors.New("payos returned empty checkout url")
	}

	c.log.WithFields(logrus.Fields{
		"order_code": data.OrderCode,
		"amount":     req.Amount,
	}).Info("payos payment link created")

	return &CheckoutLink{CheckoutURL: data.CheckoutURL, OrderCode: data.OrderCode}, nil
}

func (c *PayOSClient) GetPaymentInfo(ctx context.Context, orderCode int64) (*PaymentInfo, error) {
	var data struct {
		OrderCode int64   `json:"orderCode"`
		Status    string  `json:"status"`
		Amount    float64 `json:"amount"`
	}
	path := fmt.Sprintf("/v2/payment-requests/%d", orderCode)
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return &PaymentInfo{OrderCode: data.OrderCode, Status: data.Status, Amount: data.Amount}, nil
}

func (c *PayOSClient) CancelPaymentRequest(ctx context.Context, orderCode int64) error {
	path := fmt.Sprintf("/v2/payment-requests/%d/cancel", orderCode)
	return c.do(ctx, http.MethodPost, path, map[string]interface{}{}, nil)
}

// VerifyWebhook checks the HMAC-SHA256 signature over the canonical
// payload string against the shared checksum key.
func (c *PayOSClient) VerifyWebhook(payload map[string]interface{}, signature string) bool {
	if signature == "" {
		return false
	}
	expected := SignPayload(payload, c.checksumKey)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *PayOSClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshal payos request")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "build payos request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "payos request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read payos response")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("payos API error (%d): %s", resp.StatusCode, raw)
	}

	var env payosEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(err, "parse payos response")
	}
	if env.Code != "00" {
		return errors.Errorf("payos rejected request: %s", env.Desc)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "parse payos response data")
		}
	}
	return nil
}

// SignPayload computes the webhook signature: fields sorted by key,
// rendered as key=value and joined with "&", then HMAC-SHA256 with the
// checksum key, hex encoded. The signature field itself must not be in
// the payload.
func SignPayload(payload map[string]interface{}, checksumKey string) string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte('&')
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(canonicalValue(payload[k]))
	}

	mac := hmac.New(sha256.New, []byte(checksumKey))
	mac.Write(buf.Bytes())
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalValue renders a decoded JSON value the way the gateway does:
// numbers without a trailing ".0", null as empty.
func canonicalValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
