package payment

import (
	"crypto/hmac"     // HMAC signature verification
	"crypto/sha256"   // SHA-256 for the HMAC
	"encoding/hex"    // Hex-encode signatures
	"math"            // Minor-unit conversion
	"strings"         // Identifier formatting

	"github.com/google/uuid" // Order identifiers
)

// Order is an opaque order handle returned by the gateway
type Order struct {
	OrderID  string `json:"order_id"` // Gateway order identifier
	Amount   int64  `json:"amount"`   // Amount in minor units (paise)
	Currency string `json:"currency"` // Always INR
	KeyID    string `json:"key"`      // Public key id for the checkout client
}

// Gateway creates payment orders and verifies payment signatures. Order
// creation runs in sandbox mode; signature verification follows the provider
// contract: hex(HMAC-SHA256("order_id|payment_id", secret)).
type Gateway struct {
	keyID  string // Public key id
	secret string // Shared signing secret
}

// NewGateway creates a gateway client with the given credentials
func NewGateway(keyID, secret string) *Gateway {
	return &Gateway{keyID: keyID, secret: secret}
}

// CreateOrder converts amount to minor units and returns an order handle
func (g *Gateway) CreateOrder(amount float64) Order {
	return Order{
		OrderID:  "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14], // Sandbox order id
		Amount:   int64(math.Round(amount * 100)),                               // Rupees to paise
		Currency: "INR",                                                         // Single-currency system
		KeyID:    g.keyID,                                                       // For the checkout client
	}
}

// Sign computes the expected signature over "order_id|payment_id"
func (g *Gateway) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.secret)) // Keyed by the shared secret
	mac.Write([]byte(orderID + "|" + paymentID))  // Provider's canonical payload
	return hex.EncodeToString(mac.Sum(nil))       // Hex-encoded
}

// VerifySignature checks a payment signature in constant time
func (g *Gateway) VerifySignature(orderID, paymentID, signature string) bool {
	expected := g.Sign(orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
