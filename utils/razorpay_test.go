package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPaise(t *testing.T) {
	assert.Equal(t, 100, ToPaise(1))
	assert.Equal(t, 149999, ToPaise(1499.99))
	assert.Equal(t, 10, ToPaise(0.1))
	assert.Equal(t, 3, ToPaise(0.029999))
}

func TestMockGateway(t *testing.T) {
	g := NewPaymentGateway("", "")
	require.True(t, g.Mock())
	assert.Equal(t, "rzp_test_mock", g.KeyID())

	id, err := g.CreateOrder(499, "order-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "order_mock_"))

	assert.True(t, g.VerifySignature(id, "pay_1", "anything"))
	assert.False(t, g.VerifySignature(id, "pay_1", ""))

	assert.NoError(t, g.Refund("pay_1", 499))
}

func TestSignPaymentVerifies(t *testing.T) {
	g := NewPaymentGateway("rzp_test_key", "secret123")
	require.False(t, g.Mock())
	assert.Equal(t, "rzp_test_key", g.KeyID())

	sig := SignPayment("order_abc", "pay_xyz", "secret123")
	assert.True(t, g.VerifySignature("order_abc", "pay_xyz", sig))
	assert.False(t, g.VerifySignature("order_abc", "pay_xyz", sig+"0"))
	assert.False(t, g.VerifySignature("order_other", "pay_xyz", sig))

	wrongSecret := SignPayment("order_abc", "pay_xyz", "secret124")
	assert.False(t, g.VerifySignature("order_abc", "pay_xyz", wrongSecret))
}
