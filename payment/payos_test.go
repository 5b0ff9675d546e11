package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threadcart/threadcart-api/config"
)

const testChecksumKey = "test-checksum-key"

func testClient() *PayOSClient {
	log := logrus.New()
	return NewPayOSClient(config.PayOS{
		ClientID:    "client",
		APIKey:      "key",
		ChecksumKey: testChecksumKey,
		BaseURL:     "https://api-sandbox.payos.vn",
	}, log)
}

func hmacHex(data string) string {
	mac := hmac.New(sha256.New, []byte(testChecksumKey))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestSignPayloadCanonicalForm(t *testing.T) {
	payload := map[string]interface{}{
		"status":      "PAID",
		"orderCode":   float64(123456789),
		"amount":      float64(200000),
		"description": "order #12",
	}

	// Keys sorted, values rendered without a float tail, joined with &.
	expected := hmacHex("amount=200000&description=order #12&orderCode=123456789&status=PAID")
	assert.Equal(t, expected, SignPayload(payload, testChecksumKey))
}

func TestSignPayloadIsStableUnderKeyOrder(t *testing.T) {
	a := map[string]interface{}{"b": "2", "a": "1", "c": "3"}
	b := map[string]interface{}{"c": "3", "a": "1", "b": "2"}
	assert.Equal(t, SignPayload(a, testChecksumKey), SignPayload(b, testChecksumKey))
}

func TestSignPayloadValueRendering(t *testing.T) {
	payload := map[string]interface{}{
		"int":   float64(5),
		"frac":  2.5,
		"bool":  true,
		"empty": nil,
	}
	expected := hmacHex("bool=true&empty=&frac=2.5&int=5")
	assert.Equal(t, expected, SignPayload(payload, testChecksumKey))
}

func TestVerifyWebhook(t *testing.T) {
	client := testClient()
	payload := map[string]interface{}{
		"orderCode": float64(42),
		"status":    "PAID",
		"amount":    float64(100000),
	}

	t.Run("accepts a correctly signed payload", func(t *testing.T) {
		signature := SignPayload(payload, testChecksumKey)
		assert.True(t, client.VerifyWebhook(payload, signature))
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		signature := SignPayload(payload, testChecksumKey)
		tampered := map[string]interface{}{
			"orderCode": float64(42),
			"status":    "PAID",
			"amount":    float64(999999),
		}
		assert.False(t, client.VerifyWebhook(tampered, signature))
	})

	t.Run("rejects a signature under the wrong key", func(t *testing.T) {
		signature := SignPayload(payload, "some-other-key")
		assert.False(t, client.VerifyWebhook(payload, signature))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.False(t, client.VerifyWebhook(payload, ""))
	})
}

func TestSelectForcesMockWithoutCredentials(t *testing.T) {
	log := logrus.New()

	cfg := config.App{FrontendURL: "http://localhost:5173"}
	cfg.PayOS.Mode = "live"

	gw := Select(cfg, log)
	_, isMock := gw.(*MockGateway)
	assert.True(t, isMock, "live mode without credentials must fall back to mock at startup")
}

func TestSelectLiveWithCredentials(t *testing.T) {
	log := logrus.New()

	cfg := config.App{FrontendURL: "http://localhost:5173"}
	cfg.PayOS = config.PayOS{
		Mode:        "live",
		ClientID:    "client",
		APIKey:      "key",
		ChecksumKey: "checksum",
		BaseURL:     "https://api-sandbox.payos.vn",
	}

	gw := Select(cfg, log)
	_, isLive := gw.(*PayOSClient)
	require.True(t, isLive)
}
