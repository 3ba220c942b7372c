package ringv1

import (
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// Distribution is the split of one fee amount. Every unit of the input is
// accounted for: ToWallet + ToMiner + Burned + Rebate + WaivedPool always
// equals the total fed into Distribute.
type Distribution struct {
	ToWallet *big.Int
	ToMiner  *big.Int
	Burned   *big.Int
	Rebate   *big.Int

	// WaivedPool is the pre-burn miner share of a fee-redirecting order
	// (negative waive percentage). The ring layer redistributes it to the
	// redirect recipients after every participant has been processed.
	WaivedPool *big.Int
}

// FeeDistribution ties a Distribution to the accounts it settles between.
// Payer is the account whose token stream physically carries the fee, which
// for buy-side fees is the supplying participant rather than the fee owner.
type FeeDistribution struct {
	Component FeeComponent
	Token     orderv1.Address
	Payer     orderv1.Address
	Wallet    orderv1.Address
	RebateTo  orderv1.Address
	Total     *big.Int

	Distribution
}

// FeeEngine splits fee amounts between wallet, miner, burn sink and payer
// rebate. All divisions are integer floor division and must be performed in
// the exact order written here: rounding differences of one unit are
// observable downstream.
type FeeEngine struct{}

// NewFeeEngine creates a FeeEngine.
func NewFeeEngine() *FeeEngine {
	return &FeeEngine{}
}

// Distribute splits totalFee. walletSplitPercentage is out of 100,
// waiveFeePercentage and burnRate are out of the fee base of 1000.
//
// A positive waive discounts the miner share; the discount flows back to
// the payer as rebate. A negative waive zeroes the miner share and moves
// the whole pre-waive miner share into the waive pool instead.
func (e *FeeEngine) Distribute(totalFee *big.Int, walletSplitPercentage uint16, waiveFeePercentage int16, burnRate uint16) Distribution {
	feeBase := big.NewInt(orderv1.FeePercentageBase)

	walletShare := new(big.Int).Mul(totalFee, big.NewInt(int64(walletSplitPercentage)))
	walletShare.Div(walletShare, big.NewInt(orderv1.WalletSplitPercentageBase))

	minerShare := new(big.Int).Sub(totalFee, walletShare)
	waivedPool := new(big.Int)

	switch {
	case waiveFeePercentage > 0:
		minerShare.Mul(minerShare, big.NewInt(int64(orderv1.FeePercentageBase-int(waiveFeePercentage))))
		minerShare.Div(minerShare, feeBase)
	case waiveFeePercentage < 0:
		waivedPool.Set(minerShare)
		minerShare.SetInt64(0)
	}

	rate := big.NewInt(int64(burnRate))
	minerBurn := new(big.Int).Mul(minerShare, rate)
	minerBurn.Div(minerBurn, feeBase)
	walletBurn := new(big.Int).Mul(walletShare, rate)
	walletBurn.Div(walletBurn, feeBase)

	toWallet := new(big.Int).Sub(walletShare, walletBurn)
	toMiner := new(big.Int).Sub(minerShare, minerBurn)
	burned := new(big.Int).Add(minerBurn, walletBurn)

	// Whatever was waived or discounted flows back to the fee payer,
	// never vanishing silently.
	rebate := new(big.Int).Sub(totalFee, toWallet)
	rebate.Sub(rebate, toMiner)
	rebate.Sub(rebate, burned)
	rebate.Sub(rebate, waivedPool)

	return Distribution{
		ToWallet:   toWallet,
		ToMiner:    toMiner,
		Burned:     burned,
		Rebate:     rebate,
		WaivedPool: waivedPool,
	}
}
