// Package miningv1 models the batch-level mining context: who receives
// fees, who authorized the batch, and the hash binding both to the rings.
package miningv1

import (
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// Mining describes the miner side of a settlement batch.
type Mining struct {
	// FeeRecipient collects all miner fee income. Defaults to the
	// transaction origin.
	FeeRecipient orderv1.Address `json:"feeRecipient,omitempty"`

	// Miner is the address that authorized the batch. When zero the
	// transaction origin acts as miner and no signature is required.
	Miner     orderv1.Address   `json:"miner,omitempty"`
	Signature orderv1.Signature `json:"signature,omitempty"`

	Hash orderv1.Hash `json:"-"`
}

// ResolveDefaults resolves the fee recipient to the transaction origin when
// unset.
func (m *Mining) ResolveDefaults(txOrigin orderv1.Address) {
	if m.FeeRecipient.IsZero() {
		m.FeeRecipient = txOrigin
	}
}

// UpdateHash recomputes the mining hash: the XOR fold of every ring hash,
// bound to the fee recipient and the explicit miner. The fold makes the
// hash invariant under ring reordering while still covering every ring.
func (m *Mining) UpdateHash(ringHashes []orderv1.Hash) {
	var folded orderv1.Hash
	for _, h := range ringHashes {
		folded = folded.XOR(h)
	}

	miner := m.Miner
	m.Hash = orderv1.Keccak256(m.FeeRecipient[:], miner[:], folded[:])
}

// CheckMinerSignature reports whether the batch authorization is valid: the
// miner is the transaction origin itself, or the stored signature verifies
// against the miner address over the mining hash.
func (m *Mining) CheckMinerSignature(verifier orderv1.SignatureVerifier, txOrigin orderv1.Address) bool {
	if m.Miner.IsZero() || m.Miner == txOrigin {
		return true
	}
	return verifier.Verify(m.Miner, m.Hash[:], m.Signature)
}
