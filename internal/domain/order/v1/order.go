package orderv1

import (
	"math/big"
)

// Order represents a participant's intent to trade within a settlement batch.
//
// The trade terms are immutable once the hash is computed; FilledAmountSell
// is the only field that survives across batches and is supplied by the
// caller from ledger history, never invented by the simulator.
type Order struct {
	Version uint16  `json:"version"`
	Owner   Address `json:"owner"`
	Broker  Address `json:"broker,omitempty"` // delegate allowed to act for owner, defaults to owner

	TokenSell  Address  `json:"tokenSell"`
	TokenBuy   Address  `json:"tokenBuy"`
	AmountSell *big.Int `json:"amountSell"`
	AmountBuy  *big.Int `json:"amountBuy"`
	ValidSince uint64   `json:"validSince"`
	ValidUntil uint64   `json:"validUntil,omitempty"` // 0 = unbounded
	AllOrNone  bool     `json:"allOrNone,omitempty"`

	FeeToken               Address  `json:"feeToken,omitempty"`
	FeeAmount              *big.Int `json:"feeAmount,omitempty"`
	WaiveFeePercentage     int16    `json:"waiveFeePercentage,omitempty"`
	TokenSellFeePercentage uint16   `json:"tokenSellFeePercentage,omitempty"`
	TokenBuyFeePercentage  uint16   `json:"tokenBuyFeePercentage,omitempty"`
	WalletAddress          Address  `json:"walletAddress,omitempty"`
	WalletSplitPercentage  uint16   `json:"walletSplitPercentage,omitempty"`

	TokenRecipient    Address   `json:"tokenRecipient,omitempty"` // defaults to owner
	DualAuthAddress   Address   `json:"dualAuthAddress,omitempty"`
	Signature         Signature `json:"signature,omitempty"`
	DualAuthSignature Signature `json:"dualAuthSignature,omitempty"`

	// Derived and batch-scoped state.
	Hash             Hash     `json:"-"`
	Valid            bool     `json:"-"`
	InvalidCode      string   `json:"-"` // first failed validation check, empty when valid
	FilledAmountSell *big.Int `json:"-"`
}

// ResolveDefaults resolves every optional field to its protocol default.
// It is called once at construction time so the matching logic never has
// to re-check for absent fields.
func (o *Order) ResolveDefaults(protocolFeeToken Address) {
	if o.Broker.IsZero() {
		o.Broker = o.Owner
	}
	if o.TokenRecipient.IsZero() {
		o.TokenRecipient = o.Owner
	}
	if o.FeeToken.IsZero() {
		o.FeeToken = protocolFeeToken
	}
	if o.FeeAmount == nil {
		o.FeeAmount = new(big.Int)
	}
	if o.FilledAmountSell == nil {
		o.FilledAmountSell = new(big.Int)
	}
	o.Valid = true
}

// IsPeerToPeer reports whether the order pays fees as a percentage of each
// traded side instead of a flat amount in a separate fee token.
func (o *Order) IsPeerToPeer() bool {
	return o.TokenSellFeePercentage > 0 || o.TokenBuyFeePercentage > 0
}

// IsBrokered reports whether the order is routed through a delegate broker
// with its own allowance.
func (o *Order) IsBrokered() bool {
	return !o.Broker.IsZero() && o.Broker != o.Owner
}

// RemainingSell returns amountSell - filledAmountSell, never negative.
func (o *Order) RemainingSell() *big.Int {
	remaining := new(big.Int).Sub(o.AmountSell, o.FilledAmountSell)
	if remaining.Sign() < 0 {
		return new(big.Int)
	}
	return remaining
}

// IsFullyFilled reports whether the order's lifetime fill equals its sell amount.
func (o *Order) IsFullyFilled() bool {
	return o.FilledAmountSell != nil && o.FilledAmountSell.Cmp(o.AmountSell) == 0
}

// CheckAllOrNone re-validates the complete-fill invariant for allOrNone
// orders. Invoked once per normal flow and again after ring fee
// computation, which may have shrunk the effective fill.
func (o *Order) CheckAllOrNone() bool {
	if !o.AllOrNone {
		return true
	}
	return o.IsFullyFilled()
}
