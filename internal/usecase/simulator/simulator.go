// Package simulator orchestrates the settlement of one batch: order
// validation, ring matching and fees, the all-or-none fixed point, and the
// final report assembly.
package simulator

import (
	"context"
	"math/big"

	fillv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/fill/v1"
	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	miningv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/mining/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	reportv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/report/v1"
	ringv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ring/v1"
	"github.com/muhammadchandra19/ring-settlement/internal/usecase/spendable"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
)

// Config carries the protocol constants a simulation runs under.
type Config struct {
	// FeeTokenAddress is the default fee token for orders that omit one.
	FeeTokenAddress orderv1.Address
	// BurnAddress is the sink account all burns route to.
	BurnAddress orderv1.Address
}

// Batch is one settlement submission ready to simulate: decoded orders,
// ring compositions as order indices, the mining context, and the starting
// fill state threaded in by the caller.
type Batch struct {
	BatchID   string
	Timestamp uint64
	TxOrigin  orderv1.Address

	Orders []*orderv1.Order
	Rings  [][]int
	Mining *miningv1.Mining

	// Fills is the cumulative filledAmountSell per order hash before this
	// batch. The simulator never mutates it; updated values appear in the
	// report.
	Fills fillv1.State
}

// Simulator runs batches against an external ledger snapshot. It is
// stateless across batches: every call starts with fresh reservations.
type Simulator struct {
	ledger   ledgerv1.Reader
	registry ledgerv1.OrderRegistry
	verifier orderv1.SignatureVerifier
	log      logger.Interface
	cfg      Config
}

// NewSimulator creates a simulator over the given collaborators.
func NewSimulator(cfg Config, ledger ledgerv1.Reader, registry ledgerv1.OrderRegistry, verifier orderv1.SignatureVerifier, log logger.Interface) *Simulator {
	return &Simulator{
		ledger:   ledger,
		registry: registry,
		verifier: verifier,
		log:      log,
		cfg:      cfg,
	}
}

// SimulateAndReport settles one batch and returns its report. Individual
// invalid orders and rings are excluded and reported; only a duplicate
// order hash, an unverifiable miner signature, a redirected-fee overflow or
// a spendable invariant break abort the whole batch.
func (s *Simulator) SimulateAndReport(ctx context.Context, batch *Batch) (*reportv1.Report, error) {
	if err := s.prepareOrders(ctx, batch); err != nil {
		return nil, err
	}

	env, err := s.buildEnv(ctx, batch)
	if err != nil {
		return nil, err
	}

	rings, err := s.processRings(ctx, batch, env)
	if err != nil {
		return nil, err
	}

	if err := s.checkMining(batch, rings); err != nil {
		return nil, err
	}

	s.enforceAllOrNone(batch, rings)

	return s.buildReport(ctx, batch, env, rings)
}

// prepareOrders resolves defaults, computes hashes, threads in fill state
// and validates every order. A duplicate hash is fatal for the batch.
func (s *Simulator) prepareOrders(ctx context.Context, batch *Batch) error {
	seen := make(map[orderv1.Hash]struct{}, len(batch.Orders))
	vctx := &orderv1.ValidationContext{Timestamp: batch.Timestamp}

	for _, order := range batch.Orders {
		order.ResolveDefaults(s.cfg.FeeTokenAddress)
		order.Hash = order.ComputeHash()

		if _, ok := seen[order.Hash]; ok {
			return errors.NewErrorDetailsWithObject(
				"two orders in one batch share a hash",
				string(errors.DuplicateOrderHash),
				"orders",
				order.Hash.Hex(),
			)
		}
		seen[order.Hash] = struct{}{}

		order.FilledAmountSell = new(big.Int)
		if filled, ok := batch.Fills[order.Hash]; ok {
			order.FilledAmountSell.Set(filled)
		}

		order.Validate(vctx)

		cancelled, err := s.registry.IsCancelled(ctx, order.Hash)
		if err != nil {
			return errors.TracerFromError(err)
		}
		if cancelled {
			order.Valid = false
			if order.InvalidCode == "" {
				order.InvalidCode = "order_cancelled"
			}
		}

		registered, err := s.registry.IsRegistered(ctx, order.Hash)
		if err != nil {
			return errors.TracerFromError(err)
		}
		order.CheckSignature(s.verifier, registered)

		if !order.Valid {
			s.log.DebugContext(ctx, "order rejected",
				logger.Field{Key: "order_hash", Value: order.Hash.Hex()},
				logger.Field{Key: "code", Value: order.InvalidCode},
			)
		}
	}

	return nil
}

// buildEnv assembles the batch-scoped environment: spendable trackers and
// a burn rate snapshot covering every token the batch touches.
func (s *Simulator) buildEnv(ctx context.Context, batch *Batch) (*ringv1.Env, error) {
	burnRates := make(map[orderv1.Address]ledgerv1.BurnRates)
	for _, order := range batch.Orders {
		for _, token := range []orderv1.Address{order.TokenSell, order.TokenBuy, order.FeeToken} {
			if token.IsZero() {
				continue
			}
			if _, ok := burnRates[token]; ok {
				continue
			}
			rates, err := s.ledger.BurnRate(ctx, token)
			if err != nil {
				return nil, errors.TracerFromError(err)
			}
			burnRates[token] = rates
		}
	}

	batch.Mining.ResolveDefaults(batch.TxOrigin)

	return &ringv1.Env{
		Spendable:       spendable.NewTracker(s.ledger, batch.TxOrigin),
		BrokerSpendable: spendable.NewTracker(s.ledger, batch.TxOrigin),
		BurnRates:       burnRates,
		FeeRecipient:    batch.Mining.FeeRecipient,
		BurnAddress:     s.cfg.BurnAddress,
	}, nil
}

// processRings runs every ring through validation, fills, fees and commit,
// strictly in submission order so that rounding and budget consumption are
// deterministic.
func (s *Simulator) processRings(ctx context.Context, batch *Batch, env *ringv1.Env) ([]*ringv1.Ring, error) {
	rings := make([]*ringv1.Ring, 0, len(batch.Rings))

	for _, indices := range batch.Rings {
		orders := make([]*orderv1.Order, 0, len(indices))
		valid := true
		for _, index := range indices {
			if index < 0 || index >= len(batch.Orders) {
				valid = false
				break
			}
			orders = append(orders, batch.Orders[index])
		}
		if !valid || len(orders) == 0 {
			s.log.WarnContext(ctx, "ring references an unknown order, skipping")
			continue
		}

		ring := ringv1.NewRing(orders)
		rings = append(rings, ring)

		if !ring.ValidateStructure() {
			continue
		}
		if err := ring.ComputeFills(ctx, env); err != nil {
			return nil, err
		}
		if !ring.Valid {
			continue
		}
		if err := ring.ComputeFees(ctx, env); err != nil {
			// Covers both infrastructure failures and the fatal
			// redirected-fee overflow.
			return nil, err
		}
		if !ring.Valid {
			continue
		}
		if err := ring.Commit(ctx, env); err != nil {
			return nil, errors.NewErrorDetailsWithObject(
				"reservation failed after feasibility clamping",
				string(errors.SpendableViolation),
				"rings",
				err.Error(),
			)
		}
	}

	return rings, nil
}

// checkMining binds the mining hash to the rings and verifies the batch
// authorization. Failure aborts the batch: no partial settlement is offered
// when the authorizing entity cannot be verified.
func (s *Simulator) checkMining(batch *Batch, rings []*ringv1.Ring) error {
	hashes := make([]orderv1.Hash, 0, len(rings))
	for _, ring := range rings {
		hashes = append(hashes, ring.Hash)
	}
	batch.Mining.UpdateHash(hashes)

	if !batch.Mining.CheckMinerSignature(s.verifier, batch.TxOrigin) {
		return errors.NewErrorDetails(
			"miner signature does not verify",
			string(errors.MinerSignatureInvalid),
			"mining",
		)
	}
	return nil
}

// enforceAllOrNone iterates to a fixed point: any allOrNone order left
// partially filled rolls back every settled ring containing it, which can
// in turn strand other allOrNone orders. A single pass under-rejects.
func (s *Simulator) enforceAllOrNone(batch *Batch, rings []*ringv1.Ring) {
	for {
		changed := false
		for _, order := range batch.Orders {
			if !order.AllOrNone {
				continue
			}
			if order.FilledAmountSell.Sign() == 0 || order.IsFullyFilled() {
				continue
			}
			for _, ring := range rings {
				if ring.State == ringv1.Settled && ring.ContainsOrder(order.Hash) {
					ring.Rollback()
					changed = true
				}
			}
		}
		if !changed {
			return
		}
	}
}
