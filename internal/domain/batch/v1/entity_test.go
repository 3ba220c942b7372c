package batchv1

import (
	"testing"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddr(last byte) orderv1.Address {
	var a orderv1.Address
	a[19] = last
	return a
}

func TestSettlementRequest_Bytes(t *testing.T) {
	t.Run("round trip keeps the mining context", func(t *testing.T) {
		request := &SettlementRequest{
			BatchID:      "batch-1",
			Timestamp:    1700000000,
			TxOrigin:     testAddr(0x01),
			FeeRecipient: testAddr(0x02),
			Miner:        testAddr(0x03),
			MinerSignature: orderv1.Signature{
				Algorithm: orderv1.AlgorithmEd25519,
				PublicKey: []byte{1, 2, 3},
				Bytes:     []byte{4, 5, 6},
			},
			Data: []byte{0x01, 0x00, 0x02},
		}

		decoded := FromBytes(ToBytes(request))
		require.NotNil(t, decoded)
		assert.Equal(t, request, decoded)
	})

	t.Run("malformed payload yields nil", func(t *testing.T) {
		assert.Nil(t, FromBytes([]byte("{")))
	})
}
