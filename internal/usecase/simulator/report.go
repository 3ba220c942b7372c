package simulator

import (
	"context"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	reportv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/report/v1"
	ringv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ring/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

// buildReport assembles the settlement outcome: ring events, the merged
// transfer list, and before/after snapshots of fills and balances.
func (s *Simulator) buildReport(ctx context.Context, batch *Batch, env *ringv1.Env, rings []*ringv1.Ring) (*reportv1.Report, error) {
	report := &reportv1.Report{
		BatchID:             batch.BatchID,
		RingMinedEvents:     []reportv1.RingMinedEvent{},
		InvalidRingEvents:   []reportv1.InvalidRingEvent{},
		FilledAmountsBefore: make(map[orderv1.Hash]*big.Int),
		FilledAmountsAfter:  make(map[orderv1.Hash]*big.Int),
	}

	transfers := make([]ringv1.TransferItem, 0)
	for _, ring := range rings {
		if ring.State == ringv1.Settled {
			report.RingMinedEvents = append(report.RingMinedEvents, minedEvent(ring))
			transfers = append(transfers, ring.Transfers(env)...)
			continue
		}

		event := reportv1.InvalidRingEvent{
			RingHash: ring.Hash,
			Code:     ring.InvalidCode,
		}
		if event.Code == "" {
			event.Code = string(errors.RingInvalid)
		}
		for _, order := range ring.Orders() {
			event.OrderHashes = append(event.OrderHashes, order.Hash)
		}
		report.InvalidRingEvents = append(report.InvalidRingEvents, event)
	}
	report.Transfers = ringv1.MergeTransfers(transfers)

	for _, order := range batch.Orders {
		before := new(big.Int)
		if filled, ok := batch.Fills[order.Hash]; ok {
			before.Set(filled)
		}
		report.FilledAmountsBefore[order.Hash] = before
		report.FilledAmountsAfter[order.Hash] = new(big.Int).Set(order.FilledAmountSell)
	}

	balancesBefore, err := s.balancesBefore(ctx, report.Transfers)
	if err != nil {
		return nil, err
	}
	report.BalancesBefore = balancesBefore
	report.BalancesAfter = applyTransfers(balancesBefore, report.Transfers, nil)

	feeAccounts := feeAccountSet(env, rings)
	feeBefore := make(reportv1.BalanceMap)
	for token, accounts := range balancesBefore {
		for account, amount := range accounts {
			if feeAccounts[account] {
				feeBefore.Set(token, account, amount)
			}
		}
	}
	report.FeeBalancesBefore = feeBefore
	report.FeeBalancesAfter = applyTransfers(feeBefore, report.Transfers, feeAccounts)

	return report, nil
}

func minedEvent(ring *ringv1.Ring) reportv1.RingMinedEvent {
	event := reportv1.RingMinedEvent{RingHash: ring.Hash}
	for _, p := range ring.Participations {
		event.Fills = append(event.Fills, reportv1.Fill{
			OrderHash: p.Order.Hash,
			FillSell:  new(big.Int).Set(p.FillSell),
			FillBuy:   new(big.Int).Set(p.FillBuy),
			FeeSell:   new(big.Int).Set(p.FeeSell),
			FeeBuy:    new(big.Int).Set(p.FeeBuy),
			FeeFlat:   new(big.Int).Set(p.FeeFlat),
			Margin:    new(big.Int).Set(p.Margin),
		})
	}
	return event
}

// balancesBefore reads the ledger balance of every (token, account) pair
// the transfer list touches.
func (s *Simulator) balancesBefore(ctx context.Context, transfers []ringv1.TransferItem) (reportv1.BalanceMap, error) {
	balances := make(reportv1.BalanceMap)
	for _, item := range transfers {
		for _, account := range []orderv1.Address{item.From, item.To} {
			if balances.Has(item.Token, account) {
				continue
			}
			amount, err := s.ledger.BalanceOf(ctx, item.Token, account)
			if err != nil {
				return nil, errors.TracerFromError(err)
			}
			balances.Set(item.Token, account, amount)
		}
	}
	return balances, nil
}

// applyTransfers projects the transfer list onto a copy of the balances.
// When restrict is non-nil only the listed accounts are touched.
func applyTransfers(balances reportv1.BalanceMap, transfers []ringv1.TransferItem, restrict map[orderv1.Address]bool) reportv1.BalanceMap {
	out := balances.Copy()
	for _, item := range transfers {
		if restrict == nil || restrict[item.From] {
			out.Sub(item.Token, item.From, item.Amount)
		}
		if restrict == nil || restrict[item.To] {
			out.Add(item.Token, item.To, item.Amount)
		}
	}
	return out
}

// feeAccountSet collects the fee sinks of the batch: the fee recipient, the
// burn address, and every wallet a settled ring paid.
func feeAccountSet(env *ringv1.Env, rings []*ringv1.Ring) map[orderv1.Address]bool {
	accounts := map[orderv1.Address]bool{
		env.FeeRecipient: true,
		env.BurnAddress:  true,
	}
	for _, ring := range rings {
		if ring.State != ringv1.Settled {
			continue
		}
		for _, p := range ring.Participations {
			for _, dist := range p.Distributions {
				if !dist.Wallet.IsZero() {
					accounts[dist.Wallet] = true
				}
			}
		}
	}
	return accounts
}
