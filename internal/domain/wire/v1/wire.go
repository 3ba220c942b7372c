// Package wirev1 implements the compact batch encoding: a fixed header,
// one 16-bit offset table per order, a ring table, and a trailing data
// blob the offsets point into. Offset zero means the field is absent and
// resolves to its protocol default, which is why the blob always starts
// with a reserved zero byte.
package wirev1

import (
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// FormatVersion is the only wire format version this decoder accepts.
const FormatVersion = 1

const (
	headerSize    = 7
	fieldCount    = 21
	ringEntrySize = 9
	maxRingOrders = 8
)

// Order field slots in the per-order offset table.
const (
	fieldVersion = iota
	fieldOwner
	fieldTokenSell
	fieldTokenBuy
	fieldAmountSell
	fieldAmountBuy
	fieldValidSince
	fieldValidUntil
	fieldAllOrNone
	fieldFeeToken
	fieldFeeAmount
	fieldWaiveFeePercentage
	fieldTokenSellFeePercentage
	fieldTokenBuyFeePercentage
	fieldWalletAddress
	fieldWalletSplitPercentage
	fieldTokenRecipient
	fieldBroker
	fieldDualAuthAddress
	fieldSignature
	fieldDualAuthSignature
)

// Batch is the decoded form of one compact batch submission.
type Batch struct {
	Orders []*orderv1.Order

	// Rings lists order indices in chain position order.
	Rings [][]int

	// SpendableSlots is carried from the header for forward compatibility;
	// the current decoder derives spendables from the orders themselves.
	SpendableSlots int
}
