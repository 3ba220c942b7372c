package ledgerv1

import (
	"context"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// BurnRates holds the per-token fee burn rates, expressed against
// orderv1.FeePercentageBase. Intermediary-matched and peer-to-peer fees
// burn at different rates.
type BurnRates struct {
	Matched    uint16 `json:"matched"`
	PeerToPeer uint16 `json:"peerToPeer"`
}

// Reader queries balances, allowances and burn rates against the external
// ledger. Implementations may perform network I/O; the simulator resolves
// every read it needs before fill computation begins.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=ledgerv1_mock
type Reader interface {
	// BalanceOf returns the owner's balance of token.
	BalanceOf(ctx context.Context, token, owner orderv1.Address) (*big.Int, error)
	// Allowance returns the amount of token the owner has granted spender.
	Allowance(ctx context.Context, token, owner, spender orderv1.Address) (*big.Int, error)
	// BurnRate returns the fee burn rates for token.
	BurnRate(ctx context.Context, token orderv1.Address) (BurnRates, error)
}

// OrderRegistry answers whether an order hash has been pre-registered or
// cancelled on the external ledger.
type OrderRegistry interface {
	// IsRegistered reports whether the order hash was pre-registered or
	// pre-submitted on-chain, allowing it to omit a signature.
	IsRegistered(ctx context.Context, hash orderv1.Hash) (bool, error)
	// IsCancelled reports whether the order hash has been cancelled.
	IsCancelled(ctx context.Context, hash orderv1.Hash) (bool, error)
}
