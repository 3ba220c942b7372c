package ringv1

import (
	"context"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

// FeeComponent identifies which stream a fee was taken from.
type FeeComponent int

const (
	// ComponentSellFee is a percentage fee on the sell side of a trade.
	ComponentSellFee FeeComponent = iota
	// ComponentBuyFee is a fee deducted from the bought stream, either a
	// percentage fee or a flat fee payable in the buy token.
	ComponentBuyFee
	// ComponentFlatFee is a flat fee paid from the fee-token balance.
	ComponentFlatFee
)

type poolEntry struct {
	payer  orderv1.Address
	amount *big.Int
}

type poolPayout struct {
	token  orderv1.Address
	from   orderv1.Address
	to     orderv1.Address
	amount *big.Int
}

// waivePools collects the pre-burn miner shares of fee-redirecting orders,
// grouped by fee token. Token order is preserved so redistribution is
// deterministic.
type waivePools struct {
	order   []orderv1.Address
	entries map[orderv1.Address][]*poolEntry
	totals  map[orderv1.Address]*big.Int
}

func newWaivePools() *waivePools {
	return &waivePools{
		entries: make(map[orderv1.Address][]*poolEntry),
		totals:  make(map[orderv1.Address]*big.Int),
	}
}

func (w *waivePools) add(token, payer orderv1.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	if _, ok := w.totals[token]; !ok {
		w.order = append(w.order, token)
		w.totals[token] = new(big.Int)
	}
	w.entries[token] = append(w.entries[token], &poolEntry{
		payer:  payer,
		amount: new(big.Int).Set(amount),
	})
	w.totals[token].Add(w.totals[token], amount)
}

// ComputeFees splits every participant's fees and re-derives the final sell
// fills so that each participant delivers its consumer's buy amount net of
// fees, exactly. Fee-redirecting orders are settled afterwards from the
// collected waive pools.
//
// A redirected-percentage overflow is a batch-level failure and is returned
// as an error; everything else rejects only this ring.
func (r *Ring) ComputeFees(ctx context.Context, env *Env) error {
	if r.State != FillsComputed {
		return nil
	}

	redirected := 0
	for _, p := range r.Participations {
		if p.Order.WaiveFeePercentage < 0 {
			redirected += int(-p.Order.WaiveFeePercentage)
		}
	}
	if redirected > orderv1.FeePercentageBase {
		return errors.NewErrorDetailsWithObject(
			"redirected fee percentages exceed the fee base",
			string(errors.WaivePercentageOverflow),
			"waiveFeePercentage",
			redirected,
		)
	}

	n := len(r.Participations)
	engine := NewFeeEngine()
	pools := newWaivePools()

	for i, p := range r.Participations {
		consumer := r.Participations[(i+n-1)%n]
		if !r.computeParticipantFees(p, consumer.FillBuy, i == 0) {
			return nil
		}
	}

	for i, p := range r.Participations {
		supplier := r.Participations[(i+1)%n]
		r.distributeParticipantFees(engine, pools, env, p, supplier)
	}

	r.redistributeWaivePools(pools, env)

	r.State = FeesComputed
	return nil
}

// computeParticipantFees fixes the participant's final sell fill, fee
// amounts and consumption. target is the amount the participant must
// deliver net of its sell-side fee.
func (r *Ring) computeParticipantFees(p *Participation, target *big.Int, isTaker bool) bool {
	order := p.Order

	if order.IsPeerToPeer() {
		finalFill := solveNetSell(target, order.TokenSellFeePercentage)
		if finalFill == nil {
			r.invalidate(errors.RingFillInfeasible)
			return false
		}
		p.FillSell = finalFill
		p.FeeSell = new(big.Int).Sub(finalFill, target)

		p.FeeBuy = new(big.Int).Mul(p.FillBuy, big.NewInt(int64(order.TokenBuyFeePercentage)))
		p.FeeBuy.Div(p.FeeBuy, big.NewInt(orderv1.FeePercentageBase))
	} else {
		p.FillSell = new(big.Int).Set(target)
		p.FeeSell = new(big.Int)
	}

	if isTaker {
		// The taker absorbs all surplus: it consumes its gross fill but
		// only the final fill leaves the owner.
		if p.FillSell.Cmp(p.GrossFillSell) > 0 {
			r.invalidate(errors.RingFillInfeasible)
			return false
		}
		p.ConsumedSell = new(big.Int).Set(p.GrossFillSell)
		p.Margin = new(big.Int).Sub(p.GrossFillSell, p.FillSell)
	} else {
		if p.FillSell.Cmp(p.MaxFillSell) > 0 {
			r.invalidate(errors.RingFillInfeasible)
			return false
		}
		p.ConsumedSell = new(big.Int).Set(p.FillSell)
	}

	if !order.IsPeerToPeer() && order.FeeAmount.Sign() > 0 {
		gross := new(big.Int).Mul(order.FeeAmount, p.ConsumedSell)
		gross.Div(gross, order.AmountSell)

		// Prefer taking the flat fee out of the bought stream when the fee
		// token is the buy token and the bought amount covers it.
		if order.FeeToken == order.TokenBuy && p.FillBuy.Cmp(gross) >= 0 {
			p.FeeBuy = gross
		} else {
			p.FeeFlat = gross
		}
	}

	return true
}

// distributeParticipantFees runs every non-zero fee component through the
// engine. supplier is the participant whose sell stream physically carries
// this participant's buy-side fee.
func (r *Ring) distributeParticipantFees(engine *FeeEngine, pools *waivePools, env *Env, p *Participation, supplier *Participation) {
	order := p.Order

	walletSplit := order.WalletSplitPercentage
	if order.WalletAddress.IsZero() {
		walletSplit = 0
	}

	add := func(component FeeComponent, token, payer orderv1.Address, total *big.Int, burnRate uint16) {
		if total.Sign() <= 0 {
			return
		}
		dist := engine.Distribute(total, walletSplit, order.WaiveFeePercentage, burnRate)
		p.Distributions = append(p.Distributions, &FeeDistribution{
			Component:    component,
			Token:        token,
			Payer:        payer,
			Wallet:       order.WalletAddress,
			RebateTo:     order.Owner,
			Total:        new(big.Int).Set(total),
			Distribution: dist,
		})
		pools.add(token, payer, dist.WaivedPool)
	}

	buyRate := env.burnRates(order.TokenBuy).Matched
	if order.IsPeerToPeer() {
		buyRate = env.burnRates(order.TokenBuy).PeerToPeer
	}

	add(ComponentSellFee, order.TokenSell, order.Owner, p.FeeSell, env.burnRates(order.TokenSell).PeerToPeer)
	add(ComponentBuyFee, order.TokenBuy, supplier.Order.Owner, p.FeeBuy, buyRate)
	add(ComponentFlatFee, order.FeeToken, order.Owner, p.FeeFlat, env.burnRates(order.FeeToken).Matched)
}

// redistributeWaivePools pays each fee-redirecting order its share of the
// pooled miner income and drains whatever remains to the fee recipient.
func (r *Ring) redistributeWaivePools(pools *waivePools, env *Env) {
	for _, token := range pools.order {
		total := pools.totals[token]
		if total.Sign() <= 0 {
			continue
		}

		entries := pools.entries[token]
		entryIdx := 0
		take := func(amount *big.Int, to orderv1.Address) {
			remaining := new(big.Int).Set(amount)
			for remaining.Sign() > 0 && entryIdx < len(entries) {
				entry := entries[entryIdx]
				slice := entry.amount
				if slice.Cmp(remaining) > 0 {
					slice = new(big.Int).Set(remaining)
				}
				r.poolPayouts = append(r.poolPayouts, &poolPayout{
					token:  token,
					from:   entry.payer,
					to:     to,
					amount: new(big.Int).Set(slice),
				})
				entry.amount.Sub(entry.amount, slice)
				remaining.Sub(remaining, slice)
				if entry.amount.Sign() == 0 {
					entryIdx++
				}
			}
		}

		for _, p := range r.Participations {
			waive := p.Order.WaiveFeePercentage
			if waive >= 0 {
				continue
			}
			award := new(big.Int).Mul(total, big.NewInt(int64(-waive)))
			award.Div(award, big.NewInt(orderv1.FeePercentageBase))
			take(award, p.Order.Owner)
		}

		// Unconsumed remainder goes to the miner.
		remainder := new(big.Int)
		for _, entry := range entries[entryIdx:] {
			remainder.Add(remainder, entry.amount)
		}
		take(remainder, env.FeeRecipient)
	}
}

// solveNetSell finds the smallest gross sell amount whose value net of the
// per-mille percentage fee equals target exactly. The net function is
// nondecreasing in unit steps, so a solution always exists for percentages
// below the fee base.
func solveNetSell(target *big.Int, percentage uint16) *big.Int {
	if percentage == 0 {
		return new(big.Int).Set(target)
	}
	if percentage >= orderv1.FeePercentageBase {
		return nil
	}

	feeBase := big.NewInt(orderv1.FeePercentageBase)
	pct := big.NewInt(int64(percentage))
	one := big.NewInt(1)

	net := func(x *big.Int) *big.Int {
		fee := new(big.Int).Mul(x, pct)
		fee.Div(fee, feeBase)
		return fee.Sub(x, fee)
	}

	x := new(big.Int).Mul(target, feeBase)
	x.Div(x, new(big.Int).Sub(feeBase, pct))

	for net(x).Cmp(target) > 0 {
		x.Sub(x, one)
	}
	for net(x).Cmp(target) < 0 {
		x.Add(x, one)
	}
	return x
}
