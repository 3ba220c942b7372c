package orderv1

// ValidationContext carries the batch-level facts an order is validated
// against.
type ValidationContext struct {
	// Timestamp is the batch timestamp orders are validated at.
	Timestamp uint64
}

// SignatureVerifier verifies an opaque signature against a signer address.
// Verification is an external capability; the simulator never inspects
// signature bytes itself.
type SignatureVerifier interface {
	Verify(signer Address, message []byte, sig Signature) bool
}

// Validate checks the order's static fields in a fixed sequence and
// short-circuits on the first failure while recording which check failed
// in InvalidCode. The result is accumulated into Valid, never overwriting
// an earlier failure.
func (o *Order) Validate(vctx *ValidationContext) bool {
	result := o.validateStatic(vctx)
	o.Valid = o.Valid && result
	return result
}

func (o *Order) validateStatic(vctx *ValidationContext) bool {
	if o.Version != SupportedVersion {
		return o.fail("unsupported_version")
	}
	if o.Owner.IsZero() {
		return o.fail("missing_owner")
	}
	if o.TokenSell.IsZero() {
		return o.fail("missing_token_sell")
	}
	if o.TokenBuy.IsZero() {
		return o.fail("missing_token_buy")
	}
	if o.AmountSell == nil || o.AmountSell.Sign() == 0 {
		return o.fail("zero_amount_sell")
	}
	if o.AmountBuy == nil || o.AmountBuy.Sign() == 0 {
		return o.fail("zero_amount_buy")
	}
	waive := int32(o.WaiveFeePercentage)
	if waive < 0 {
		waive = -waive
	}
	if waive > FeePercentageBase {
		return o.fail("waive_fee_percentage_out_of_bounds")
	}
	if o.TokenSellFeePercentage >= FeePercentageBase {
		return o.fail("token_sell_fee_percentage_out_of_bounds")
	}
	if o.TokenBuyFeePercentage >= FeePercentageBase {
		return o.fail("token_buy_fee_percentage_out_of_bounds")
	}
	if o.WalletSplitPercentage > WalletSplitPercentageBase {
		return o.fail("wallet_split_percentage_out_of_bounds")
	}
	if !o.DualAuthAddress.IsZero() && o.DualAuthSignature.IsZero() {
		return o.fail("missing_dual_auth_signature")
	}
	if vctx.Timestamp < o.ValidSince {
		return o.fail("order_not_yet_valid")
	}
	if o.ValidUntil != 0 && vctx.Timestamp >= o.ValidUntil {
		return o.fail("order_expired")
	}
	return true
}

// CheckSignature verifies the order's authorization. Orders carrying the
// no-signature sentinel are only acceptable when pre-registered, which the
// caller establishes through the order registry before calling this.
// Delegated orders are verified against the broker instead of the owner.
func (o *Order) CheckSignature(verifier SignatureVerifier, preRegistered bool) bool {
	result := o.checkSignature(verifier, preRegistered)
	o.Valid = o.Valid && result
	return result
}

func (o *Order) checkSignature(verifier SignatureVerifier, preRegistered bool) bool {
	if o.Signature.IsZero() {
		if !preRegistered {
			return o.fail("unsigned_order_not_registered")
		}
	} else {
		signer := o.Owner
		if o.IsBrokered() {
			signer = o.Broker
		}
		if !verifier.Verify(signer, o.Hash[:], o.Signature) {
			return o.fail("invalid_signature")
		}
	}

	if !o.DualAuthAddress.IsZero() {
		if !verifier.Verify(o.DualAuthAddress, o.Hash[:], o.DualAuthSignature) {
			return o.fail("invalid_dual_auth_signature")
		}
	}
	return true
}

func (o *Order) fail(code string) bool {
	if o.InvalidCode == "" {
		o.InvalidCode = code
	}
	return false
}
