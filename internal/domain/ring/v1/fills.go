package ringv1

import (
	"context"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

type budgetKey struct {
	token   orderv1.Address
	account orderv1.Address
}

// ringBudget accumulates what earlier participants of the same ring have
// already claimed from the shared spendable budgets, so later participants
// clamp against what is genuinely left. Two same-owner orders paying their
// flat fee from one balance must split it, not each assume the whole.
type ringBudget struct {
	owner  map[budgetKey]*big.Int
	broker map[budgetKey]*big.Int
}

func newRingBudget() *ringBudget {
	return &ringBudget{
		owner:  make(map[budgetKey]*big.Int),
		broker: make(map[budgetKey]*big.Int),
	}
}

func remainingOf(claims map[budgetKey]*big.Int, token, account orderv1.Address, available *big.Int) *big.Int {
	claimed, ok := claims[budgetKey{token: token, account: account}]
	if !ok {
		return available
	}
	remaining := new(big.Int).Sub(available, claimed)
	if remaining.Sign() < 0 {
		return new(big.Int)
	}
	return remaining
}

func claimFrom(claims map[budgetKey]*big.Int, token, account orderv1.Address, amount *big.Int) {
	key := budgetKey{token: token, account: account}
	if claims[key] == nil {
		claims[key] = new(big.Int)
	}
	claims[key].Add(claims[key], amount)
}

// claim records a participant's worst-case draw on a budget, against the
// owner tracker and, for brokered orders, the broker tracker too.
func (b *ringBudget) claim(order *orderv1.Order, token orderv1.Address, amount *big.Int) {
	if amount.Sign() <= 0 {
		return
	}
	claimFrom(b.owner, token, order.Owner, amount)
	if order.IsBrokered() {
		claimFrom(b.broker, token, order.Broker, amount)
	}
}

// ComputeFills fixes every participant's fill amounts. The taker pair
// (positions 0 and 1) is matched by the two-order min rule; every other
// position is forced to supply the preceding participant's buy amount
// exactly. Infeasible rings are rejected, not clamped.
//
// A returned error is an infrastructure failure (ledger read), never a
// rejection: rejections surface through ring.Valid.
func (r *Ring) ComputeFills(ctx context.Context, env *Env) error {
	if r.State != Validated {
		return nil
	}

	budget := newRingBudget()
	for _, p := range r.Participations {
		maxFill, err := r.maxFillable(ctx, env, p, budget)
		if err != nil {
			return err
		}
		if maxFill.Sign() <= 0 {
			r.invalidate(errors.RingFillInfeasible)
			return nil
		}
		p.MaxFillSell = maxFill
		p.FillSell = new(big.Int).Set(maxFill)
		p.FillBuy = p.sellToBuy(p.FillSell)
	}

	n := len(r.Participations)
	buyer, seller := r.Participations[0], r.Participations[1]

	// Taker pair: the smaller side is kept exact, the larger side is
	// recomputed from it at its own rate.
	if buyer.FillBuy.Cmp(seller.FillSell) <= 0 {
		seller.FillSell = new(big.Int).Set(buyer.FillBuy)
		seller.FillBuy = seller.sellToBuy(seller.FillSell)
	} else {
		buyer.FillBuy = new(big.Int).Set(seller.FillSell)
		buyer.FillSell = buyer.buyToSell(buyer.FillBuy)
	}

	// Walk the remaining chain: participant i supplies participant i-1 and
	// must match it exactly, no margin at non-taker positions.
	for i := 2; i < n; i++ {
		p := r.Participations[i]
		required := r.Participations[i-1].FillBuy
		if required.Cmp(p.FillSell) > 0 {
			r.invalidate(errors.RingFillInfeasible)
			return nil
		}
		p.FillSell = new(big.Int).Set(required)
		p.FillBuy = p.sellToBuy(p.FillSell)
	}

	// Closing the cycle: the taker supplies the last participant. Whatever
	// it sells beyond the last participant's buy amount is its margin.
	taker := r.Participations[0]
	margin := new(big.Int).Sub(taker.FillSell, r.Participations[n-1].FillBuy)
	if margin.Sign() < 0 {
		r.invalidate(errors.RingFillInfeasible)
		return nil
	}
	taker.Margin = margin

	for _, p := range r.Participations {
		if p.FillSell.Sign() <= 0 || p.FillBuy.Sign() <= 0 {
			r.invalidate(errors.RingFillInfeasible)
			return nil
		}
		p.GrossFillSell = new(big.Int).Set(p.FillSell)
	}

	r.State = FillsComputed
	return nil
}

// maxFillable computes min(spendable, remaining) for the participant's sell
// token, then clamps further so the order's flat fee stays payable. Fees
// deducted from the bought stream need no clamp. The worst-case principal
// and fee draws are claimed in the ring budget so the next participant sees
// the shrunken balances.
func (r *Ring) maxFillable(ctx context.Context, env *Env, p *Participation, budget *ringBudget) (*big.Int, error) {
	order := p.Order

	spendableSell, err := r.spendable(ctx, env, order, order.TokenSell, budget)
	if err != nil {
		return nil, err
	}

	maxFill := order.RemainingSell()
	if spendableSell.Cmp(maxFill) < 0 {
		maxFill = new(big.Int).Set(spendableSell)
	}

	feeFor := func(fill *big.Int) *big.Int {
		fee := new(big.Int).Mul(order.FeeAmount, fill)
		return fee.Div(fee, order.AmountSell)
	}

	if order.IsPeerToPeer() || order.FeeAmount.Sign() == 0 || order.FeeToken == order.TokenBuy {
		budget.claim(order, order.TokenSell, maxFill)
		return maxFill, nil
	}

	if order.FeeToken == order.TokenSell {
		// Principal and fee compete for the same balance: split it
		// proportionally instead of starving one of them.
		combined := new(big.Int).Add(maxFill, feeFor(maxFill))
		if combined.Cmp(spendableSell) > 0 {
			maxFill = new(big.Int).Mul(spendableSell, order.AmountSell)
			maxFill.Div(maxFill, new(big.Int).Add(order.AmountSell, order.FeeAmount))
		}
		budget.claim(order, order.TokenSell, new(big.Int).Add(maxFill, feeFor(maxFill)))
		return maxFill, nil
	}

	spendableFee, err := r.spendable(ctx, env, order, order.FeeToken, budget)
	if err != nil {
		return nil, err
	}
	if feeFor(maxFill).Cmp(spendableFee) > 0 {
		clamped := new(big.Int).Mul(spendableFee, order.AmountSell)
		clamped.Div(clamped, order.FeeAmount)
		if clamped.Cmp(maxFill) < 0 {
			maxFill = clamped
		}
	}

	budget.claim(order, order.TokenSell, maxFill)
	budget.claim(order, order.FeeToken, feeFor(maxFill))
	return maxFill, nil
}

// spendable resolves the participant's budget for a token, net of what the
// ring has already claimed from it. Brokered orders are bounded by both the
// owner's and the broker's budgets.
func (r *Ring) spendable(ctx context.Context, env *Env, order *orderv1.Order, token orderv1.Address, budget *ringBudget) (*big.Int, error) {
	amount, err := env.Spendable.GetSpendable(ctx, token, order.Owner)
	if err != nil {
		return nil, err
	}
	amount = remainingOf(budget.owner, token, order.Owner, amount)

	if order.IsBrokered() && env.BrokerSpendable != nil {
		brokerAmount, err := env.BrokerSpendable.GetSpendable(ctx, token, order.Broker)
		if err != nil {
			return nil, err
		}
		brokerAmount = remainingOf(budget.broker, token, order.Broker, brokerAmount)
		if brokerAmount.Cmp(amount) < 0 {
			amount = brokerAmount
		}
	}

	return amount, nil
}
