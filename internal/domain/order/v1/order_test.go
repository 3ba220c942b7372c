package orderv1

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testAddr(last byte) Address {
	var a Address
	a[19] = last
	return a
}

func testOrder() *Order {
	return &Order{
		Version:    SupportedVersion,
		Owner:      testAddr(0x01),
		TokenSell:  testAddr(0x10),
		TokenBuy:   testAddr(0x11),
		AmountSell: big.NewInt(1000),
		AmountBuy:  big.NewInt(500),
	}
}

func TestOrder_ResolveDefaults(t *testing.T) {
	protocolFeeToken := testAddr(0xff)

	t.Run("absent fields resolve to protocol defaults", func(t *testing.T) {
		order := testOrder()
		order.ResolveDefaults(protocolFeeToken)

		assert.Equal(t, order.Owner, order.Broker)
		assert.Equal(t, order.Owner, order.TokenRecipient)
		assert.Equal(t, protocolFeeToken, order.FeeToken)
		assert.Equal(t, 0, order.FeeAmount.Sign())
		assert.Equal(t, 0, order.FilledAmountSell.Sign())
		assert.True(t, order.Valid)
	})

	t.Run("explicit fields are kept", func(t *testing.T) {
		order := testOrder()
		order.Broker = testAddr(0x02)
		order.TokenRecipient = testAddr(0x03)
		order.FeeToken = testAddr(0x12)
		order.FeeAmount = big.NewInt(42)
		order.ResolveDefaults(protocolFeeToken)

		assert.Equal(t, testAddr(0x02), order.Broker)
		assert.Equal(t, testAddr(0x03), order.TokenRecipient)
		assert.Equal(t, testAddr(0x12), order.FeeToken)
		assert.Equal(t, big.NewInt(42), order.FeeAmount)
	})
}

func TestOrder_IsPeerToPeer(t *testing.T) {
	order := testOrder()
	assert.False(t, order.IsPeerToPeer())

	order.TokenSellFeePercentage = 40
	assert.True(t, order.IsPeerToPeer())

	order.TokenSellFeePercentage = 0
	order.TokenBuyFeePercentage = 25
	assert.True(t, order.IsPeerToPeer())
}

func TestOrder_IsBrokered(t *testing.T) {
	order := testOrder()
	order.ResolveDefaults(testAddr(0xff))
	assert.False(t, order.IsBrokered())

	order.Broker = testAddr(0x02)
	assert.True(t, order.IsBrokered())
}

func TestOrder_RemainingSell(t *testing.T) {
	order := testOrder()
	order.FilledAmountSell = big.NewInt(600)
	assert.Equal(t, big.NewInt(400), order.RemainingSell())

	// A fill beyond the sell amount clamps to zero instead of going
	// negative.
	order.FilledAmountSell = big.NewInt(1200)
	assert.Equal(t, 0, order.RemainingSell().Sign())
}

func TestOrder_CheckAllOrNone(t *testing.T) {
	order := testOrder()
	order.FilledAmountSell = big.NewInt(600)
	assert.True(t, order.CheckAllOrNone())

	order.AllOrNone = true
	assert.False(t, order.CheckAllOrNone())

	order.FilledAmountSell = big.NewInt(1000)
	assert.True(t, order.CheckAllOrNone())
}

func TestOrder_ComputeHash(t *testing.T) {
	t.Run("hash ignores signatures and fill state", func(t *testing.T) {
		order := testOrder()
		first := order.ComputeHash()

		order.Signature = Signature{
			Algorithm: AlgorithmEd25519,
			PublicKey: []byte{1, 2, 3},
			Bytes:     []byte{4, 5, 6},
		}
		order.FilledAmountSell = big.NewInt(999)
		order.Valid = false
		order.InvalidCode = "order_expired"

		assert.Equal(t, first, order.ComputeHash())
	})

	t.Run("hash covers the trade terms", func(t *testing.T) {
		mutations := []struct {
			name   string
			mutate func(*Order)
		}{
			{"owner", func(o *Order) { o.Owner = testAddr(0x02) }},
			{"amountSell", func(o *Order) { o.AmountSell = big.NewInt(1001) }},
			{"validUntil", func(o *Order) { o.ValidUntil = 1800000000 }},
			{"feeAmount", func(o *Order) { o.FeeAmount = big.NewInt(1) }},
			{"waiveFeePercentage", func(o *Order) { o.WaiveFeePercentage = -330 }},
			{"allOrNone", func(o *Order) { o.AllOrNone = true }},
		}

		base := testOrder().ComputeHash()
		for _, m := range mutations {
			t.Run(m.name, func(t *testing.T) {
				order := testOrder()
				m.mutate(order)
				assert.NotEqual(t, base, order.ComputeHash())
			})
		}
	})

	t.Run("nil amounts hash like zero", func(t *testing.T) {
		order := testOrder()
		order.FeeAmount = nil
		withNil := order.ComputeHash()

		order.FeeAmount = new(big.Int)
		assert.Equal(t, withNil, order.ComputeHash())
	})
}
