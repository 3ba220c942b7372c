// Package reportv1 defines the settlement report emitted for every batch:
// mined and invalid rings, the merged transfer list, and before/after
// snapshots of the state the batch touched.
package reportv1

import (
	"encoding/json"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	ringv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ring/v1"
)

// Fill is one participant's settled amounts inside a mined ring.
type Fill struct {
	OrderHash orderv1.Hash `json:"orderHash"`
	FillSell  *big.Int     `json:"fillSell"`
	FillBuy   *big.Int     `json:"fillBuy"`
	FeeSell   *big.Int     `json:"feeSell,omitempty"`
	FeeBuy    *big.Int     `json:"feeBuy,omitempty"`
	FeeFlat   *big.Int     `json:"feeFlat,omitempty"`
	Margin    *big.Int     `json:"margin,omitempty"`
}

// RingMinedEvent records a settled ring.
type RingMinedEvent struct {
	RingHash orderv1.Hash `json:"ringHash"`
	Fills    []Fill       `json:"fills"`
}

// InvalidRingEvent records a rejected ring and why it was rejected.
type InvalidRingEvent struct {
	RingHash    orderv1.Hash   `json:"ringHash"`
	Code        string         `json:"code"`
	OrderHashes []orderv1.Hash `json:"orderHashes"`
}

// BalanceMap holds token balances keyed token, then account.
type BalanceMap map[orderv1.Address]map[orderv1.Address]*big.Int

// Get returns the tracked balance, zero when untracked.
func (m BalanceMap) Get(token, account orderv1.Address) *big.Int {
	if accounts, ok := m[token]; ok {
		if amount, ok := accounts[account]; ok {
			return amount
		}
	}
	return new(big.Int)
}

// Set stores a balance, creating the token bucket on demand.
func (m BalanceMap) Set(token, account orderv1.Address, amount *big.Int) {
	if _, ok := m[token]; !ok {
		m[token] = make(map[orderv1.Address]*big.Int)
	}
	m[token][account] = new(big.Int).Set(amount)
}

// Has reports whether the pair is tracked.
func (m BalanceMap) Has(token, account orderv1.Address) bool {
	accounts, ok := m[token]
	if !ok {
		return false
	}
	_, ok = accounts[account]
	return ok
}

// Add adds delta to the tracked balance, creating it at zero first.
func (m BalanceMap) Add(token, account orderv1.Address, delta *big.Int) {
	if _, ok := m[token]; !ok {
		m[token] = make(map[orderv1.Address]*big.Int)
	}
	if _, ok := m[token][account]; !ok {
		m[token][account] = new(big.Int)
	}
	m[token][account].Add(m[token][account], delta)
}

// Sub subtracts delta from the tracked balance.
func (m BalanceMap) Sub(token, account orderv1.Address, delta *big.Int) {
	m.Add(token, account, new(big.Int).Neg(delta))
}

// Copy returns a deep copy.
func (m BalanceMap) Copy() BalanceMap {
	out := make(BalanceMap, len(m))
	for token, accounts := range m {
		for account, amount := range accounts {
			out.Set(token, account, amount)
		}
	}
	return out
}

// Report is the complete outcome of simulating one batch.
type Report struct {
	BatchID string `json:"batchId"`

	RingMinedEvents   []RingMinedEvent   `json:"ringMinedEvents"`
	InvalidRingEvents []InvalidRingEvent `json:"invalidRingEvents"`

	// Transfers is the batch-wide list, merged over identical
	// (token, from, to) triples.
	Transfers []ringv1.TransferItem `json:"transfers"`

	FilledAmountsBefore map[orderv1.Hash]*big.Int `json:"filledAmountsBefore"`
	FilledAmountsAfter  map[orderv1.Hash]*big.Int `json:"filledAmountsAfter"`

	BalancesBefore BalanceMap `json:"balancesBefore"`
	BalancesAfter  BalanceMap `json:"balancesAfter"`

	// Fee balances track only the fee sinks: recipient, wallets and the
	// burn address.
	FeeBalancesBefore BalanceMap `json:"feeBalancesBefore"`
	FeeBalancesAfter  BalanceMap `json:"feeBalancesAfter"`
}

// ToBytes converts the report to its JSON wire representation.
func ToBytes(report *Report) []byte {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil
	}
	return payload
}

// FromBytes parses a JSON wire representation into a report.
func FromBytes(data []byte) *Report {
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}
	return &report
}
