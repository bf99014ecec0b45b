package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	gw := NewGateway("key_test", "secret_test")

	order := gw.CreateOrder(499.99)
	assert.True(t, strings.HasPrefix(order.OrderID, "order_"))
	assert.EqualValues(t, 49999, order.Amount) // rupees converted to paise
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "key_test", order.KeyID)

	// Order identifiers are unique
	assert.NotEqual(t, order.OrderID, gw.CreateOrder(499.99).OrderID)
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	gw := NewGateway("key_test", "secret_test")

	signature := gw.Sign("order_abc123", "pay_xyz789")
	require.Len(t, signature, 64) // hex-encoded SHA-256
	assert.True(t, gw.VerifySignature("order_abc123", "pay_xyz789", signature))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	gw := NewGateway("key_test", "secret_test")
	signature := gw.Sign("order_abc123", "pay_xyz789")

	// Wrong order, wrong payment, altered signature, wrong secret
	assert.False(t, gw.VerifySignature("order_other", "pay_xyz789", signature))
	assert.False(t, gw.VerifySignature("order_abc123", "pay_other", signature))
	assert.False(t, gw.VerifySignature("order_abc123", "pay_xyz789", signature[:63]+"0"))
	other := NewGateway("key_test", "different_secret")
	assert.False(t, other.VerifySignature("order_abc123", "pay_xyz789", signature))
}

// The signature is keyed over "order_id|payment_id" exactly; swapping the
// two halves must not verify.
func TestVerifySignaturePayloadOrder(t *testing.T) {
	gw := NewGateway("key_test", "secret_test")
	signature := gw.Sign("order_abc123", "pay_xyz789")
	assert.False(t, gw.VerifySignature("pay_xyz789", "order_abc123", signature))
}
