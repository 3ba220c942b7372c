// Package fillv1 defines the cross-batch fill state: the cumulative
// filledAmountSell per order hash, owned by the caller and threaded through
// every batch.
package fillv1

import (
	"context"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// State maps order hashes to cumulative filled sell amounts.
type State map[orderv1.Hash]*big.Int

// FillStore defines the interface for persisting fill state between
// batches.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=fillv1_mock
type FillStore interface {
	// Load returns the fill state for the given order hashes. Unknown
	// hashes resolve to zero.
	Load(ctx context.Context, hashes []orderv1.Hash) (State, error)

	// Save persists the fill state after a batch settles.
	Save(ctx context.Context, state State) error
}
