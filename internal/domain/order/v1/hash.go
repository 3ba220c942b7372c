package orderv1

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the keccak-256 digest of the concatenated inputs.
func Keccak256(data ...[]byte) Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var h Hash
	d.Sum(h[:0])
	return h
}

// ComputeHash computes the canonical digest of the order's static fields
// and stores it on the order. Signatures and fill state are excluded so the
// hash is stable across the order's lifetime.
func (o *Order) ComputeHash() Hash {
	buf := make([]byte, 0, 256)

	buf = appendUint16(buf, o.Version)
	buf = append(buf, o.Owner[:]...)
	buf = append(buf, o.TokenSell[:]...)
	buf = append(buf, o.TokenBuy[:]...)
	buf = append(buf, bigToBytes32(o.AmountSell)...)
	buf = append(buf, bigToBytes32(o.AmountBuy)...)
	buf = appendUint64(buf, o.ValidSince)
	buf = appendUint64(buf, o.ValidUntil)
	buf = append(buf, o.FeeToken[:]...)
	buf = append(buf, bigToBytes32(o.FeeAmount)...)
	buf = appendUint16(buf, uint16(o.WaiveFeePercentage))
	buf = appendUint16(buf, o.TokenSellFeePercentage)
	buf = appendUint16(buf, o.TokenBuyFeePercentage)
	buf = append(buf, o.WalletAddress[:]...)
	buf = appendUint16(buf, o.WalletSplitPercentage)
	buf = append(buf, o.TokenRecipient[:]...)
	buf = append(buf, o.Broker[:]...)
	buf = append(buf, o.DualAuthAddress[:]...)
	if o.AllOrNone {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	o.Hash = Keccak256(buf)
	return o.Hash
}

func appendUint16(buf []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(buf, v)
}

func appendUint64(buf []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(buf, v)
}

func bigToBytes32(v *big.Int) []byte {
	var out [32]byte
	if v != nil {
		v.FillBytes(out[:])
	}
	return out[:]
}
