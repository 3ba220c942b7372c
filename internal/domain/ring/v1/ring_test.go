package ringv1

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tokenX  = addr(0x01)
	tokenY  = addr(0x02)
	tokenZ  = addr(0x03)
	tokenF  = addr(0x0f)
	ownerA  = addr(0xa1)
	ownerB  = addr(0xa2)
	ownerC  = addr(0xa3)
	minerFR = addr(0xe1)
	burnSink = addr(0xe2)
)

func addr(last byte) orderv1.Address {
	var a orderv1.Address
	a[19] = last
	return a
}

func wei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}

// fakeSpendable is a map-backed SpendableProvider. Pairs without an explicit
// amount fall back to the configured default.
type fakeSpendable struct {
	fallback *big.Int
	amounts  map[string]*big.Int
	reserved map[string]*big.Int
}

func newFakeSpendable(fallback *big.Int) *fakeSpendable {
	return &fakeSpendable{
		fallback: fallback,
		amounts:  make(map[string]*big.Int),
		reserved: make(map[string]*big.Int),
	}
}

func pairOf(token, owner orderv1.Address) string {
	return token.Hex() + "/" + owner.Hex()
}

func (f *fakeSpendable) set(token, owner orderv1.Address, amount *big.Int) {
	f.amounts[pairOf(token, owner)] = new(big.Int).Set(amount)
}

func (f *fakeSpendable) available(key string) *big.Int {
	amount, ok := f.amounts[key]
	if !ok {
		amount = f.fallback
	}
	out := new(big.Int).Set(amount)
	if reserved, ok := f.reserved[key]; ok {
		out.Sub(out, reserved)
	}
	return out
}

func (f *fakeSpendable) GetSpendable(_ context.Context, token, owner orderv1.Address) (*big.Int, error) {
	return f.available(pairOf(token, owner)), nil
}

func (f *fakeSpendable) Reserve(_ context.Context, token, owner orderv1.Address, amount *big.Int) error {
	key := pairOf(token, owner)
	if amount.Cmp(f.available(key)) > 0 {
		return fmt.Errorf("over-reserved %s", key)
	}
	if _, ok := f.reserved[key]; !ok {
		f.reserved[key] = new(big.Int)
	}
	f.reserved[key].Add(f.reserved[key], amount)
	return nil
}

func (f *fakeSpendable) Release(token, owner orderv1.Address, amount *big.Int) {
	key := pairOf(token, owner)
	if reserved, ok := f.reserved[key]; ok {
		reserved.Sub(reserved, amount)
	}
}

func testEnv(spendable *fakeSpendable) *Env {
	return &Env{
		Spendable:    spendable,
		BurnRates:    make(map[orderv1.Address]ledgerv1.BurnRates),
		FeeRecipient: minerFR,
		BurnAddress:  burnSink,
	}
}

func createTestOrder(owner, tokenSell, tokenBuy orderv1.Address, amountSell, amountBuy *big.Int) *orderv1.Order {
	order := &orderv1.Order{
		Version:    orderv1.SupportedVersion,
		Owner:      owner,
		TokenSell:  tokenSell,
		TokenBuy:   tokenBuy,
		AmountSell: amountSell,
		AmountBuy:  amountBuy,
	}
	order.ResolveDefaults(tokenF)
	order.Hash = order.ComputeHash()
	return order
}

func TestRing_ValidateStructure(t *testing.T) {
	t.Run("valid 2-ring", func(t *testing.T) {
		ring := NewRing([]*orderv1.Order{
			createTestOrder(ownerA, tokenX, tokenY, wei(3), wei(1)),
			createTestOrder(ownerB, tokenY, tokenX, wei(1), wei(3)),
		})

		assert.True(t, ring.ValidateStructure())
		assert.Equal(t, Validated, ring.State)
	})

	t.Run("ring of one is too small", func(t *testing.T) {
		ring := NewRing([]*orderv1.Order{
			createTestOrder(ownerA, tokenX, tokenX, wei(1), wei(1)),
		})

		assert.False(t, ring.ValidateStructure())
		assert.Equal(t, Rejected, ring.State)
		assert.Equal(t, string(errors.RingInvalid), ring.InvalidCode)
	})

	t.Run("broken token chain", func(t *testing.T) {
		ring := NewRing([]*orderv1.Order{
			createTestOrder(ownerA, tokenX, tokenY, wei(1), wei(1)),
			createTestOrder(ownerB, tokenZ, tokenX, wei(1), wei(1)),
		})

		assert.False(t, ring.ValidateStructure())
		assert.Equal(t, string(errors.RingInvalid), ring.InvalidCode)
	})

	t.Run("duplicate sell token rejected as sub-ring", func(t *testing.T) {
		ring := NewRing([]*orderv1.Order{
			createTestOrder(ownerA, tokenX, tokenY, wei(1), wei(1)),
			createTestOrder(ownerB, tokenY, tokenX, wei(1), wei(1)),
			createTestOrder(ownerC, tokenX, tokenY, wei(1), wei(1)),
			createTestOrder(ownerA, tokenY, tokenX, wei(1), wei(1)),
		})

		assert.False(t, ring.ValidateStructure())
		assert.Equal(t, string(errors.RingSubRing), ring.InvalidCode)
	})

	t.Run("invalid participant order rejects the ring", func(t *testing.T) {
		bad := createTestOrder(ownerA, tokenX, tokenY, wei(1), wei(1))
		bad.Valid = false
		ring := NewRing([]*orderv1.Order{
			bad,
			createTestOrder(ownerB, tokenY, tokenX, wei(1), wei(1)),
		})

		assert.False(t, ring.ValidateStructure())
		assert.Equal(t, string(errors.OrderInvalid), ring.InvalidCode)
	})
}

func TestRing_CommitAndRollback(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Ring, *fakeSpendable, *Env) {
		spendable := newFakeSpendable(wei(1000))
		env := testEnv(spendable)
		ring := NewRing([]*orderv1.Order{
			createTestOrder(ownerA, tokenX, tokenY, wei(3), wei(1)),
			createTestOrder(ownerB, tokenY, tokenX, wei(1), wei(3)),
		})
		require.True(t, ring.ValidateStructure())
		require.NoError(t, ring.ComputeFills(ctx, env))
		require.NoError(t, ring.ComputeFees(ctx, env))
		require.True(t, ring.Valid)
		return ring, spendable, env
	}

	t.Run("commit reserves and advances filled amounts", func(t *testing.T) {
		ring, spendable, env := setup(t)

		require.NoError(t, ring.Commit(ctx, env))
		assert.Equal(t, Settled, ring.State)

		assert.Equal(t, wei(3), ring.Participations[0].Order.FilledAmountSell)
		assert.Equal(t, wei(1), ring.Participations[1].Order.FilledAmountSell)

		left, err := spendable.GetSpendable(ctx, tokenX, ownerA)
		require.NoError(t, err)
		assert.Equal(t, wei(997), left)
	})

	t.Run("rollback restores filled amounts and budgets", func(t *testing.T) {
		ring, spendable, env := setup(t)
		require.NoError(t, ring.Commit(ctx, env))

		ring.Rollback()

		assert.False(t, ring.Valid)
		assert.Equal(t, Rejected, ring.State)
		assert.True(t, ring.Participations[0].Order.FilledAmountSell.Sign() == 0)

		left, err := spendable.GetSpendable(ctx, tokenX, ownerA)
		require.NoError(t, err)
		assert.Equal(t, wei(1000), left)
	})

	t.Run("contains order", func(t *testing.T) {
		ring, _, _ := setup(t)

		assert.True(t, ring.ContainsOrder(ring.Participations[0].Order.Hash))
		assert.False(t, ring.ContainsOrder(orderv1.Hash{}))
	})
}

func TestRing_CommitBudgetCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("flat fee falling back to the buy token balance rejects the ring", func(t *testing.T) {
		spendable := newFakeSpendable(wei(1000))
		spendable.set(tokenY, ownerA, big.NewInt(0))
		env := testEnv(spendable)

		// The fee is payable in the buy token but the bought amount does
		// not cover it, so it falls back to a balance the owner does not
		// have. That shortfall is only priced at commit time and must
		// reject the ring, never break the trackers.
		order := createTestOrder(ownerA, tokenX, tokenY, big.NewInt(1000), big.NewInt(10))
		order.FeeToken = tokenY
		order.FeeAmount = big.NewInt(5000)

		ring := NewRing([]*orderv1.Order{
			order,
			createTestOrder(ownerB, tokenY, tokenX, big.NewInt(10), big.NewInt(1000)),
		})
		require.True(t, ring.ValidateStructure())
		require.NoError(t, ring.ComputeFills(ctx, env))
		require.NoError(t, ring.ComputeFees(ctx, env))
		require.True(t, ring.Valid)

		require.NoError(t, ring.Commit(ctx, env))

		assert.False(t, ring.Valid)
		assert.Equal(t, string(errors.RingInvalid), ring.InvalidCode)
		assert.Equal(t, Rejected, ring.State)

		left, err := spendable.GetSpendable(ctx, tokenX, ownerA)
		require.NoError(t, err)
		assert.Equal(t, wei(1000), left)
		assert.Equal(t, 0, ring.Participations[0].Order.FilledAmountSell.Sign())
	})
}
