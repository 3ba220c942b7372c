package ringv1

import (
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// TransferItem is one net token movement produced by settlement.
type TransferItem struct {
	Token  orderv1.Address `json:"token"`
	From   orderv1.Address `json:"from"`
	To     orderv1.Address `json:"to"`
	Amount *big.Int        `json:"amount"`
}

// Transfers emits the ring's token movements: principal deliveries net of
// buy-side fees, every fee component's wallet, miner, burn and rebate
// shares, and the waive-pool payouts. Zero amounts and self-transfers are
// dropped. Items are not merged here; the orchestrator merges across rings.
func (r *Ring) Transfers(env *Env) []TransferItem {
	if r.State != Settled {
		return nil
	}

	n := len(r.Participations)
	items := make([]TransferItem, 0, 4*n)

	add := func(token, from, to orderv1.Address, amount *big.Int) {
		if amount.Sign() <= 0 || from == to {
			return
		}
		items = append(items, TransferItem{
			Token:  token,
			From:   from,
			To:     to,
			Amount: new(big.Int).Set(amount),
		})
	}

	// Principal: each supplier delivers its consumer's buy amount minus the
	// fee taken out of that stream.
	for i, supplier := range r.Participations {
		consumer := r.Participations[(i+n-1)%n]
		net := new(big.Int).Sub(consumer.FillBuy, consumer.FeeBuy)
		add(supplier.Order.TokenSell, supplier.Order.Owner, consumer.Order.TokenRecipient, net)
	}

	for _, p := range r.Participations {
		for _, dist := range p.Distributions {
			add(dist.Token, dist.Payer, dist.Wallet, dist.ToWallet)
			add(dist.Token, dist.Payer, env.FeeRecipient, dist.ToMiner)
			add(dist.Token, dist.Payer, env.BurnAddress, dist.Burned)
			add(dist.Token, dist.Payer, dist.RebateTo, dist.Rebate)
		}
	}

	for _, payout := range r.poolPayouts {
		add(payout.token, payout.from, payout.to, payout.amount)
	}

	return items
}

// MergeTransfers sums amounts over identical (token, from, to) triples,
// preserving first-seen order. Used by the orchestrator to merge across
// rings.
func MergeTransfers(items []TransferItem) []TransferItem {
	type key struct {
		token orderv1.Address
		from  orderv1.Address
		to    orderv1.Address
	}

	merged := make([]TransferItem, 0, len(items))
	index := make(map[key]int, len(items))

	for _, item := range items {
		k := key{token: item.Token, from: item.From, to: item.To}
		if i, ok := index[k]; ok {
			merged[i].Amount.Add(merged[i].Amount, item.Amount)
			continue
		}
		index[k] = len(merged)
		merged = append(merged, TransferItem{
			Token:  item.Token,
			From:   item.From,
			To:     item.To,
			Amount: new(big.Int).Set(item.Amount),
		})
	}

	return merged
}
