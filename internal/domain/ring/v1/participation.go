package ringv1

import (
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// Participation is one order's position inside a ring together with all
// per-ring computed amounts. The order itself carries the immutable terms;
// everything here is scoped to a single ring of a single batch.
type Participation struct {
	Order *orderv1.Order

	// MaxFillSell is the largest sell amount this participant can supply:
	// min(spendable, amountSell - filledAmountSell), further clamped so the
	// order's fee stays payable.
	MaxFillSell *big.Int

	// GrossFillSell is the fill computed during matching, before fee
	// re-derivation. For the taker it may exceed the amount the ring
	// actually needs; the surplus becomes Margin.
	GrossFillSell *big.Int

	// FillSell is the final sell-side outflow including any sell-side fee.
	// For every participant FillSell - FeeSell equals the preceding
	// participant's FillBuy exactly.
	FillSell *big.Int

	// FillBuy is the amount of tokenBuy credited before any buy-side fee.
	FillBuy *big.Int

	// FeeSell and FeeBuy are the percentage fees taken from the traded
	// sides (peer-to-peer orders). FeeFlat is the proportional share of the
	// order's flat fee, paid in the fee token.
	FeeSell *big.Int
	FeeBuy  *big.Int
	FeeFlat *big.Int

	// Margin is the taker's surplus in tokenSell. It counts toward the
	// order's filled amount but never leaves the owner.
	Margin *big.Int

	// ConsumedSell is what gets charged against filledAmountSell and the
	// spendable reservation: FillSell plus Margin.
	ConsumedSell *big.Int

	// Distributions holds one entry per fee component after splitting into
	// wallet, miner, burn, rebate and waive-pool shares.
	Distributions []*FeeDistribution
}

func newParticipation(order *orderv1.Order) *Participation {
	return &Participation{
		Order:         order,
		MaxFillSell:   new(big.Int),
		GrossFillSell: new(big.Int),
		FillSell:      new(big.Int),
		FillBuy:       new(big.Int),
		FeeSell:       new(big.Int),
		FeeBuy:        new(big.Int),
		FeeFlat:       new(big.Int),
		Margin:        new(big.Int),
		ConsumedSell:  new(big.Int),
	}
}

// sellToBuy converts a sell amount into the buy amount at the order's own
// rate, integer floor division.
func (p *Participation) sellToBuy(sell *big.Int) *big.Int {
	out := new(big.Int).Mul(sell, p.Order.AmountBuy)
	return out.Div(out, p.Order.AmountSell)
}

// buyToSell converts a buy amount into the sell amount at the order's own
// rate, integer floor division.
func (p *Participation) buyToSell(buy *big.Int) *big.Int {
	out := new(big.Int).Mul(buy, p.Order.AmountSell)
	return out.Div(out, p.Order.AmountBuy)
}
