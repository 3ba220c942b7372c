// Package ringv1 implements cyclic order rings: structural validation,
// fill matching, fee computation and the resulting net transfers.
//
// Orders chain so that orders[i].tokenSell == orders[i-1].tokenBuy, which
// makes participant i the supplier of participant i-1. Position 0 is the
// taker: it absorbs all rounding surplus as margin, while every other
// position is matched exactly.
package ringv1

import (
	"context"
	"math/big"

	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

// MinRingSize and MaxRingSize bound how many orders a ring may chain.
const (
	MinRingSize = 2
	MaxRingSize = 8
)

// State is the ring's position in its settlement lifecycle.
type State int

const (
	// Constructed means the ring exists but nothing has been checked.
	Constructed State = iota
	// Validated means structure and per-order validity passed.
	Validated
	// FillsComputed means every participant's fill amounts are fixed.
	FillsComputed
	// FeesComputed means fees are split and fills re-derived around them.
	FeesComputed
	// Settled means fills were committed and transfers can be emitted.
	Settled
	// Rejected means the ring is invalid and contributes nothing.
	Rejected
)

func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Validated:
		return "validated"
	case FillsComputed:
		return "fills_computed"
	case FeesComputed:
		return "fees_computed"
	case Settled:
		return "settled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// SpendableProvider hands out and accounts per-(token, owner) spendable
// budgets for the duration of one batch.
type SpendableProvider interface {
	GetSpendable(ctx context.Context, token, owner orderv1.Address) (*big.Int, error)
	Reserve(ctx context.Context, token, owner orderv1.Address, amount *big.Int) error
	Release(token, owner orderv1.Address, amount *big.Int)
}

// Env is the batch-scoped environment a ring computes against: spendable
// trackers, burn rates resolved per token, and the protocol sink accounts.
// It is built once per batch and shared by every ring in it.
type Env struct {
	Spendable       SpendableProvider
	BrokerSpendable SpendableProvider

	// BurnRates is a snapshot resolved before any computation starts.
	// Tokens missing from the map burn nothing.
	BurnRates map[orderv1.Address]ledgerv1.BurnRates

	FeeRecipient orderv1.Address
	BurnAddress  orderv1.Address
}

func (e *Env) burnRates(token orderv1.Address) ledgerv1.BurnRates {
	return e.BurnRates[token]
}

type reservation struct {
	provider SpendableProvider
	token    orderv1.Address
	owner    orderv1.Address
	amount   *big.Int
}

// Ring is a cycle of 2..8 orders settled atomically.
type Ring struct {
	Participations []*Participation
	Hash           orderv1.Hash
	State          State
	Valid          bool
	InvalidCode    string

	reservations []reservation
	filledBefore []*big.Int
	poolPayouts  []*poolPayout
}

// NewRing builds a ring over the given orders in chain position order and
// computes its hash from the order hashes.
func NewRing(orders []*orderv1.Order) *Ring {
	participations := make([]*Participation, 0, len(orders))
	hashInput := make([][]byte, 0, len(orders))
	for _, order := range orders {
		participations = append(participations, newParticipation(order))
		h := order.Hash
		hashInput = append(hashInput, h[:])
	}

	return &Ring{
		Participations: participations,
		Hash:           orderv1.Keccak256(hashInput...),
		State:          Constructed,
		Valid:          true,
	}
}

// Size returns the number of participants.
func (r *Ring) Size() int {
	return len(r.Participations)
}

// Orders returns the participant orders in chain position order.
func (r *Ring) Orders() []*orderv1.Order {
	orders := make([]*orderv1.Order, 0, len(r.Participations))
	for _, p := range r.Participations {
		orders = append(orders, p.Order)
	}
	return orders
}

func (r *Ring) invalidate(code errors.ErrorCode) {
	r.Valid = false
	r.State = Rejected
	if r.InvalidCode == "" {
		r.InvalidCode = string(code)
	}
}

// ValidateStructure checks ring size, token chaining, sub-ring freedom and
// per-order validity. On success the ring moves to Validated.
func (r *Ring) ValidateStructure() bool {
	if r.State != Constructed {
		return r.Valid
	}

	n := len(r.Participations)
	if n < MinRingSize || n > MaxRingSize {
		r.invalidate(errors.RingInvalid)
		return false
	}

	seenSellTokens := make(map[orderv1.Address]struct{}, n)
	for i, p := range r.Participations {
		order := p.Order
		if !order.Valid {
			r.invalidate(errors.OrderInvalid)
			return false
		}

		prev := r.Participations[(i+n-1)%n].Order
		if order.TokenSell != prev.TokenBuy {
			r.invalidate(errors.RingInvalid)
			return false
		}

		// Two orders selling the same token would form a ring within the
		// ring and break the single-cycle settlement.
		if _, ok := seenSellTokens[order.TokenSell]; ok {
			r.invalidate(errors.RingSubRing)
			return false
		}
		seenSellTokens[order.TokenSell] = struct{}{}
	}

	r.State = Validated
	return true
}

// Commit reserves every participant's consumption against the spendable
// trackers and advances the orders' filled amounts. The combined draw per
// budget is checked first: a ring whose participants together overdraw a
// shared balance is rejected, it never reaches the trackers. A reservation
// that still fails after that check is a matching-logic invariant break and
// surfaces as a fatal error.
//
// Commit must run before the next ring's fills are computed so that rings
// later in the batch see the shrunken budgets.
func (r *Ring) Commit(ctx context.Context, env *Env) error {
	if r.State != FeesComputed {
		return nil
	}

	coverable, err := r.budgetsCover(ctx, env)
	if err != nil {
		return err
	}
	if !coverable {
		r.invalidate(errors.RingInvalid)
		return nil
	}

	r.filledBefore = make([]*big.Int, len(r.Participations))
	for i, p := range r.Participations {
		order := p.Order
		r.filledBefore[i] = new(big.Int).Set(order.FilledAmountSell)

		if err := r.reserve(ctx, env, order, order.TokenSell, p.ConsumedSell); err != nil {
			return err
		}
		if p.FeeFlat.Sign() > 0 {
			if err := r.reserve(ctx, env, order, order.FeeToken, p.FeeFlat); err != nil {
				return err
			}
		}

		order.FilledAmountSell.Add(order.FilledAmountSell, p.ConsumedSell)
	}

	r.State = Settled
	return nil
}

// budgetsCover aggregates the exact amounts Commit is about to reserve,
// grouped per budget, and checks each against what the trackers still hold.
// Fill clamping keeps this covered in the usual paths, but a flat fee that
// falls back from the bought stream to the fee-token balance is only priced
// here.
func (r *Ring) budgetsCover(ctx context.Context, env *Env) (bool, error) {
	ownerDraws := make(map[budgetKey]*big.Int)
	brokerDraws := make(map[budgetKey]*big.Int)

	draw := func(order *orderv1.Order, token orderv1.Address, amount *big.Int) {
		if amount.Sign() <= 0 {
			return
		}
		claimFrom(ownerDraws, token, order.Owner, amount)
		if order.IsBrokered() && env.BrokerSpendable != nil {
			claimFrom(brokerDraws, token, order.Broker, amount)
		}
	}
	for _, p := range r.Participations {
		draw(p.Order, p.Order.TokenSell, p.ConsumedSell)
		draw(p.Order, p.Order.FeeToken, p.FeeFlat)
	}

	check := func(provider SpendableProvider, draws map[budgetKey]*big.Int) (bool, error) {
		for key, amount := range draws {
			available, err := provider.GetSpendable(ctx, key.token, key.account)
			if err != nil {
				return false, err
			}
			if available.Cmp(amount) < 0 {
				return false, nil
			}
		}
		return true, nil
	}

	ok, err := check(env.Spendable, ownerDraws)
	if err != nil || !ok {
		return ok, err
	}
	return check(env.BrokerSpendable, brokerDraws)
}

func (r *Ring) reserve(ctx context.Context, env *Env, order *orderv1.Order, token orderv1.Address, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return nil
	}

	if err := env.Spendable.Reserve(ctx, token, order.Owner, amount); err != nil {
		return err
	}
	r.reservations = append(r.reservations, reservation{
		provider: env.Spendable,
		token:    token,
		owner:    order.Owner,
		amount:   new(big.Int).Set(amount),
	})

	if order.IsBrokered() && env.BrokerSpendable != nil {
		if err := env.BrokerSpendable.Reserve(ctx, token, order.Broker, amount); err != nil {
			return err
		}
		r.reservations = append(r.reservations, reservation{
			provider: env.BrokerSpendable,
			token:    token,
			owner:    order.Broker,
			amount:   new(big.Int).Set(amount),
		})
	}

	return nil
}

// Rollback undoes a Commit: releases every reservation and restores the
// orders' filled amounts, then rejects the ring. Safe to call on rings that
// never committed.
func (r *Ring) Rollback() {
	for _, res := range r.reservations {
		res.provider.Release(res.token, res.owner, res.amount)
	}
	r.reservations = nil

	for i, before := range r.filledBefore {
		if before != nil {
			r.Participations[i].Order.FilledAmountSell.Set(before)
		}
	}
	r.filledBefore = nil

	r.invalidate(errors.RingInvalid)
}

// ContainsOrder reports whether the ring includes the order with the given
// hash.
func (r *Ring) ContainsOrder(hash orderv1.Hash) bool {
	for _, p := range r.Participations {
		if p.Order.Hash == hash {
			return true
		}
	}
	return false
}
