// Package spendable tracks how much of each (token, owner) pair can still
// be spent during a simulation batch. Balances and allowances are read
// lazily from the ledger and memoized; reservations are kept in memory so
// orders competing for the same funds see a shrinking budget.
package spendable

import (
	"context"
	"math/big"
	"sync"

	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

type pairKey struct {
	token orderv1.Address
	owner orderv1.Address
}

type pairState struct {
	initial  *big.Int
	reserved *big.Int
}

// Tracker memoizes min(balance, allowance) per (token, owner) pair for a
// single spender and accounts reservations against it. One Tracker is
// created per spender address; brokered orders use a second instance.
type Tracker struct {
	ledger  ledgerv1.Reader
	spender orderv1.Address

	mu    sync.Mutex
	pairs map[pairKey]*pairState
}

// NewTracker creates a tracker charging reservations against the given
// spender's allowances.
func NewTracker(ledger ledgerv1.Reader, spender orderv1.Address) *Tracker {
	return &Tracker{
		ledger:  ledger,
		spender: spender,
		pairs:   make(map[pairKey]*pairState),
	}
}

func (t *Tracker) load(ctx context.Context, token, owner orderv1.Address) (*pairState, error) {
	key := pairKey{token: token, owner: owner}
	if st, ok := t.pairs[key]; ok {
		return st, nil
	}

	balance, err := t.ledger.BalanceOf(ctx, token, owner)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	allowance, err := t.ledger.Allowance(ctx, token, owner, t.spender)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	initial := new(big.Int).Set(balance)
	if allowance.Cmp(initial) < 0 {
		initial.Set(allowance)
	}
	if initial.Sign() < 0 {
		initial.SetInt64(0)
	}

	st := &pairState{initial: initial, reserved: new(big.Int)}
	t.pairs[key] = st
	return st, nil
}

// GetSpendable returns the remaining spendable amount for the pair:
// min(balance, allowance) minus everything already reserved. The result
// is a fresh big.Int the caller may mutate.
func (t *Tracker) GetSpendable(ctx context.Context, token, owner orderv1.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx, token, owner)
	if err != nil {
		return nil, err
	}

	remaining := new(big.Int).Sub(st.initial, st.reserved)
	if remaining.Sign() < 0 {
		remaining.SetInt64(0)
	}
	return remaining, nil
}

// Reserve earmarks amount against the pair. Reserving more than the
// remaining spendable fails without changing state.
func (t *Tracker) Reserve(ctx context.Context, token, owner orderv1.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st, err := t.load(ctx, token, owner)
	if err != nil {
		return err
	}

	remaining := new(big.Int).Sub(st.initial, st.reserved)
	if amount.Cmp(remaining) > 0 {
		return errors.NewErrorDetailsWithObject(
			"reservation exceeds spendable",
			string(errors.SpendableViolation),
			"amount",
			amount.String(),
		)
	}

	st.reserved.Add(st.reserved, amount)
	return nil
}

// Release returns a previously reserved amount to the pair's budget, e.g.
// when a ring is rolled back. Releasing more than reserved clamps to zero.
func (t *Tracker) Release(token, owner orderv1.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.pairs[pairKey{token: token, owner: owner}]
	if !ok {
		return
	}
	st.reserved.Sub(st.reserved, amount)
	if st.reserved.Sign() < 0 {
		st.reserved.SetInt64(0)
	}
}

// Reset drops the memoized state for one pair so the next read hits the
// ledger again.
func (t *Tracker) Reset(token, owner orderv1.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pairs, pairKey{token: token, owner: owner})
}

// ResetAll drops all memoized state. Used between batches.
func (t *Tracker) ResetAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pairs = make(map[pairKey]*pairState)
}
