package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	razorpay "github.com/razorpay/razorpay-go"
)

// PaymentGateway wraps the Razorpay client. Without credentials it runs in
// mock mode: intents get synthetic ids and refunds are recorded locally,
// which keeps the order flow testable end to end.
type PaymentGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

func NewPaymentGateway(keyID, secret string) *PaymentGateway {
	g := &PaymentGateway{keyID: keyID, secret: secret}
	if keyID != "" && secret != "" {
		g.client = razorpay.NewClient(keyID, secret)
	}
	return g
}

// Mock reports whether the gateway runs without real credentials.
func (g *PaymentGateway) Mock() bool {
	return g.client == nil
}

// KeyID is exposed to the checkout page.
func (g *PaymentGateway) KeyID() string {
	if g.Mock() {
		return "rzp_test_mock"
	}
	return g.keyID
}

// ToPaise converts rupees to the integer paise the gateway bills in.
func ToPaise(amount float64) int {
	return int(math.Round(amount * 100))
}

// CreateOrder registers a payment intent for the amount and returns the
// gateway order id.
func (g *PaymentGateway) CreateOrder(amount float64, receipt string) (string, error) {
	if g.Mock() {
		return "order_mock_" + uuid.New().String(), nil
	}

	data := map[string]interface{}{
		"amount":   ToPaise(amount),
		"currency": "INR",
		"receipt":  receipt,
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", errors.Wrap(err, "create razorpay order")
	}
	id, ok := body["id"].(string)
	if !ok {
		return "", errors.New("razorpay order response missing id")
	}
	return id, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(order_id + "|" + payment_id, key_secret). In mock mode any
// non-empty signature passes; the caller still enforces order state.
func (g *PaymentGateway) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if g.Mock() {
		return signature != ""
	}
	return hmac.Equal([]byte(SignPayment(gatewayOrderID, paymentID, g.secret)), []byte(signature))
}

// SignPayment computes the hex HMAC-SHA256 signature Razorpay sends back
// after checkout.
func SignPayment(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", gatewayOrderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// Refund asks the gateway to reverse a completed payment in full.
func (g *PaymentGateway) Refund(paymentID string, amount float64) error {
	if g.Mock() {
		return nil
	}
	_, err := g.client.Payment.Refund(paymentID, ToPaise(amount), nil, nil)
	return errors.Wrap(err, "create razorpay refund")
}
