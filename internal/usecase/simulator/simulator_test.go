package simulator

import (
	"context"
	"math/big"
	"testing"

	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	ledgerv1_mock "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1/mock"
	miningv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/mining/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	ringv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ring/v1"
	fillv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/fill/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	tokenX   = addr(0x01)
	tokenY   = addr(0x02)
	tokenZ   = addr(0x03)
	tokenF   = addr(0x0f)
	ownerA   = addr(0xa1)
	ownerB   = addr(0xa2)
	ownerC   = addr(0xa3)
	txOrigin = addr(0xd1)
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

type testFixture struct {
	ctrl     *gomock.Controller
	ledger   *ledgerv1_mock.MockReader
	registry *ledgerv1_mock.MockOrderRegistry
	sim      *Simulator

	// balances and allowances keyed token/owner; pairs without an entry
	// fall back to a large default.
	balances map[string]*big.Int
}

func pairOf(token, owner orderv1.Address) string {
	return token.Hex() + "/" + owner.Hex()
}

func setupTestFixture(t *testing.T) (*testFixture, func()) {
	ctrl := gomock.NewController(t)
	fixture := &testFixture{
		ctrl:     ctrl,
		ledger:   ledgerv1_mock.NewMockReader(ctrl),
		registry: ledgerv1_mock.NewMockOrderRegistry(ctrl),
		balances: make(map[string]*big.Int),
	}

	lookup := func(token, owner orderv1.Address) *big.Int {
		if amount, ok := fixture.balances[pairOf(token, owner)]; ok {
			return new(big.Int).Set(amount)
		}
		return wei(1_000_000)
	}

	fixture.ledger.EXPECT().
		BalanceOf(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token, owner orderv1.Address) (*big.Int, error) {
			return lookup(token, owner), nil
		}).
		AnyTimes()
	fixture.ledger.EXPECT().
		Allowance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token, owner, _ orderv1.Address) (*big.Int, error) {
			return lookup(token, owner), nil
		}).
		AnyTimes()
	fixture.ledger.EXPECT().
		BurnRate(gomock.Any(), gomock.Any()).
		Return(ledgerv1.BurnRates{}, nil).
		AnyTimes()

	fixture.registry.EXPECT().IsCancelled(gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()
	fixture.registry.EXPECT().IsRegistered(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()

	log, err := logger.NewLogger()
	require.NoError(t, err)

	fixture.sim = NewSimulator(
		Config{FeeTokenAddress: tokenF, BurnAddress: burnSink},
		fixture.ledger,
		fixture.registry,
		ledgerv1.NewEd25519Verifier(),
		log,
	)
	return fixture, ctrl.Finish
}

func (f *testFixture) setBalance(token, owner orderv1.Address, amount *big.Int) {
	f.balances[pairOf(token, owner)] = new(big.Int).Set(amount)
}

func testOrder(owner, tokenSell, tokenBuy orderv1.Address, amountSell, amountBuy *big.Int) *orderv1.Order {
	return &orderv1.Order{
		Version:    orderv1.SupportedVersion,
		Owner:      owner,
		TokenSell:  tokenSell,
		TokenBuy:   tokenBuy,
		AmountSell: amountSell,
		AmountBuy:  amountBuy,
	}
}

func testBatch(orders []*orderv1.Order, rings [][]int) *Batch {
	return &Batch{
		BatchID:   "batch-1",
		Timestamp: 1000,
		TxOrigin:  txOrigin,
		Orders:    orders,
		Rings:     rings,
		Mining:    &miningv1.Mining{},
		Fills:     fillv1.State{},
	}
}

func TestSimulator_SimpleRing(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	batch := testBatch([]*orderv1.Order{
		testOrder(ownerA, tokenX, tokenY, wei(3), wei(1)),
		testOrder(ownerB, tokenY, tokenX, wei(1), wei(3)),
	}, [][]int{{0, 1}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, report.RingMinedEvents, 1)
	assert.Empty(t, report.InvalidRingEvents)

	require.Len(t, report.Transfers, 2)
	assert.Equal(t, ringv1.TransferItem{Token: tokenX, From: ownerA, To: ownerB, Amount: wei(3)}, report.Transfers[0])
	assert.Equal(t, ringv1.TransferItem{Token: tokenY, From: ownerB, To: ownerA, Amount: wei(1)}, report.Transfers[1])

	// Both orders fill completely.
	for _, order := range batch.Orders {
		assert.Equal(t, order.AmountSell, report.FilledAmountsAfter[order.Hash])
		assert.Equal(t, 0, report.FilledAmountsBefore[order.Hash].Sign())
	}

	// Balance projection is transfer-consistent.
	assert.Equal(t, wei(1_000_000-3), report.BalancesAfter.Get(tokenX, ownerA))
	assert.Equal(t, wei(1_000_000+3), report.BalancesAfter.Get(tokenX, ownerB))
}

func TestSimulator_AllowanceClampedRing(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	fixture.setBalance(tokenX, ownerB, wei(1))
	batch := testBatch([]*orderv1.Order{
		testOrder(ownerA, tokenY, tokenX, wei(1), wei(3)),
		testOrder(ownerB, tokenX, tokenY, wei(3), wei(1)),
	}, [][]int{{0, 1}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, report.RingMinedEvents, 1)
	fills := report.RingMinedEvents[0].Fills
	require.Len(t, fills, 2)
	assert.Equal(t, big.NewInt(333333333333333333), fills[0].FillSell)
	assert.Equal(t, wei(1), fills[1].FillSell)
}

func TestSimulator_AllOrNone(t *testing.T) {
	t.Run("undersupplied allOrNone order rejects its ring entirely", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		strict := testOrder(ownerA, tokenX, tokenY, wei(2), wei(2))
		strict.AllOrNone = true
		batch := testBatch([]*orderv1.Order{
			strict,
			testOrder(ownerB, tokenY, tokenX, big.NewInt(15e17), big.NewInt(15e17)),
		}, [][]int{{0, 1}})

		report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
		require.NoError(t, err)

		assert.Empty(t, report.RingMinedEvents)
		require.Len(t, report.InvalidRingEvents, 1)
		assert.Empty(t, report.Transfers)
		assert.Equal(t, 0, report.FilledAmountsAfter[strict.Hash].Sign())
	})

	t.Run("fully supplied allOrNone order settles", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		strict := testOrder(ownerA, tokenX, tokenY, wei(2), wei(2))
		strict.AllOrNone = true
		batch := testBatch([]*orderv1.Order{
			strict,
			testOrder(ownerB, tokenY, tokenX, wei(2), wei(2)),
		}, [][]int{{0, 1}})

		report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
		require.NoError(t, err)

		require.Len(t, report.RingMinedEvents, 1)
		assert.Equal(t, wei(2), report.FilledAmountsAfter[strict.Hash])
	})

	t.Run("rollback cascades to dependent rings", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		// First ring half-fills the strict order, second ring would
		// complete it but is rejected on its own; the first ring must be
		// rolled back too.
		strict := testOrder(ownerA, tokenX, tokenY, wei(2), wei(2))
		strict.AllOrNone = true
		expired := testOrder(ownerC, tokenY, tokenX, wei(1), wei(1))
		expired.ValidUntil = 1

		batch := testBatch([]*orderv1.Order{
			strict,
			testOrder(ownerB, tokenY, tokenX, wei(1), wei(1)),
			expired,
		}, [][]int{{0, 1}, {0, 2}})

		report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
		require.NoError(t, err)

		assert.Empty(t, report.RingMinedEvents)
		assert.Len(t, report.InvalidRingEvents, 2)
		assert.Equal(t, 0, report.FilledAmountsAfter[strict.Hash].Sign())
	})
}

func TestSimulator_DuplicateOrderHash(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	batch := testBatch([]*orderv1.Order{
		testOrder(ownerA, tokenX, tokenY, wei(1), wei(1)),
		testOrder(ownerA, tokenX, tokenY, wei(1), wei(1)),
	}, [][]int{{0, 1}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.DuplicateOrderHash)))
}

func TestSimulator_MinerSignature(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	batch := testBatch([]*orderv1.Order{
		testOrder(ownerA, tokenX, tokenY, wei(1), wei(1)),
		testOrder(ownerB, tokenY, tokenX, wei(1), wei(1)),
	}, [][]int{{0, 1}})
	batch.Mining.Miner = addr(0xdd)

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.MinerSignatureInvalid)))
}

func TestSimulator_CrossRingBudget(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	shared := testOrder(ownerA, tokenX, tokenY, big.NewInt(100), big.NewInt(100))
	batch := testBatch([]*orderv1.Order{
		shared,
		testOrder(ownerB, tokenY, tokenX, big.NewInt(60), big.NewInt(60)),
		testOrder(ownerC, tokenY, tokenX, big.NewInt(60), big.NewInt(60)),
	}, [][]int{{0, 1}, {0, 2}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)

	// Ring one takes 60, ring two gets the remaining 40; the order never
	// oversells.
	require.Len(t, report.RingMinedEvents, 2)
	assert.Equal(t, big.NewInt(100), report.FilledAmountsAfter[shared.Hash])
	assert.Equal(t, big.NewInt(60), report.RingMinedEvents[0].Fills[0].FillSell)
	assert.Equal(t, big.NewInt(40), report.RingMinedEvents[1].Fills[0].FillSell)
}

func TestSimulator_SharedFeeBudget(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	// Owner A can cover only one of its two flat fees. The overdrawn ring
	// must fail on its own; the unrelated ring settles.
	fixture.setBalance(tokenF, ownerA, big.NewInt(100))

	first := testOrder(ownerA, tokenX, tokenY, big.NewInt(1000), big.NewInt(1000))
	first.FeeAmount = big.NewInt(100)
	second := testOrder(ownerA, tokenY, tokenX, big.NewInt(1000), big.NewInt(1000))
	second.FeeAmount = big.NewInt(100)

	batch := testBatch([]*orderv1.Order{
		first,
		second,
		testOrder(ownerB, tokenX, tokenZ, big.NewInt(500), big.NewInt(500)),
		testOrder(ownerC, tokenZ, tokenX, big.NewInt(500), big.NewInt(500)),
	}, [][]int{{0, 1}, {2, 3}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)
	require.NotNil(t, report)

	require.Len(t, report.RingMinedEvents, 1)
	require.Len(t, report.InvalidRingEvents, 1)
	assert.Equal(t, string(errors.RingFillInfeasible), report.InvalidRingEvents[0].Code)

	assert.Equal(t, 0, report.FilledAmountsAfter[first.Hash].Sign())
	assert.Equal(t, 0, report.FilledAmountsAfter[second.Hash].Sign())
	assert.Equal(t, big.NewInt(500), report.RingMinedEvents[0].Fills[0].FillSell)
}

func TestSimulator_FeeRedirection(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	redirecting := testOrder(ownerA, tokenX, tokenY, big.NewInt(1000), big.NewInt(1000))
	redirecting.FeeAmount = big.NewInt(100)
	redirecting.WaiveFeePercentage = -330

	discounted := testOrder(ownerB, tokenY, tokenZ, big.NewInt(1000), big.NewInt(1000))
	discounted.FeeAmount = big.NewInt(200)
	discounted.WaiveFeePercentage = 250

	batch := testBatch([]*orderv1.Order{
		redirecting,
		discounted,
		testOrder(ownerC, tokenZ, tokenX, big.NewInt(1000), big.NewInt(1000)),
	}, [][]int{{0, 1, 2}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, report.RingMinedEvents, 1)

	// The discounted order pays 75% of its fee to the miner; the rebated
	// quarter never leaves its owner. The redirecting order keeps 33% of
	// its own pooled fee and the miner collects the remaining 67%.
	var minerIncome []*big.Int
	for _, item := range report.Transfers {
		if item.Token == tokenF && item.To == txOrigin {
			minerIncome = append(minerIncome, item.Amount)
		}
	}
	require.Len(t, minerIncome, 2)
	assert.Equal(t, big.NewInt(150), minerIncome[0])
	assert.Equal(t, big.NewInt(67), minerIncome[1])
}

func TestSimulator_Idempotence(t *testing.T) {
	build := func() *Batch {
		return testBatch([]*orderv1.Order{
			testOrder(ownerA, tokenX, tokenY, wei(3), wei(1)),
			testOrder(ownerB, tokenY, tokenX, wei(1), wei(2)),
		}, [][]int{{0, 1}})
	}

	fixture, teardown := setupTestFixture(t)
	defer teardown()

	first, err := fixture.sim.SimulateAndReport(context.Background(), build())
	require.NoError(t, err)
	second, err := fixture.sim.SimulateAndReport(context.Background(), build())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulator_FilledAmountsAreMonotone(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	partial := testOrder(ownerA, tokenX, tokenY, big.NewInt(100), big.NewInt(100))
	counterpart := testOrder(ownerB, tokenY, tokenX, big.NewInt(100), big.NewInt(100))
	batch := testBatch([]*orderv1.Order{partial, counterpart}, [][]int{{0, 1}})

	// Thread in 60 units of prior fill; only the remaining 40 can settle.
	keyed := testOrder(ownerA, tokenX, tokenY, big.NewInt(100), big.NewInt(100))
	keyed.ResolveDefaults(tokenF)
	batch.Fills[keyed.ComputeHash()] = big.NewInt(60)

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)

	after := report.FilledAmountsAfter[partial.Hash]
	assert.Equal(t, big.NewInt(100), after)
	assert.Equal(t, big.NewInt(60), report.FilledAmountsBefore[partial.Hash])
	require.Len(t, report.RingMinedEvents, 1)
	assert.Equal(t, big.NewInt(40), report.RingMinedEvents[0].Fills[0].FillSell)
}

func TestSimulator_InvalidOrderExcludesOnlyItsRing(t *testing.T) {
	fixture, teardown := setupTestFixture(t)
	defer teardown()

	expired := testOrder(ownerA, tokenX, tokenY, wei(1), wei(1))
	expired.ValidUntil = 1

	batch := testBatch([]*orderv1.Order{
		expired,
		testOrder(ownerB, tokenY, tokenX, wei(1), wei(1)),
		testOrder(ownerC, tokenX, tokenY, wei(1), wei(1)),
	}, [][]int{{0, 1}, {2, 1}})

	report, err := fixture.sim.SimulateAndReport(context.Background(), batch)
	require.NoError(t, err)

	require.Len(t, report.RingMinedEvents, 1)
	require.Len(t, report.InvalidRingEvents, 1)
	assert.Equal(t, string(errors.OrderInvalid), report.InvalidRingEvents[0].Code)
}
