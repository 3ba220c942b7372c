package ledgerv1

import (
	"crypto/ed25519"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// typedMessagePrefix namespaces typed signatures so a signature over a ring
// settlement hash can never be replayed as a signature over other data.
var typedMessagePrefix = []byte("\x19Ring Settlement:\n32")

// Ed25519Verifier verifies ed25519 signatures whose account address is
// derived from the public key. It implements orderv1.SignatureVerifier.
type Ed25519Verifier struct{}

// NewEd25519Verifier returns the default signature verifier.
func NewEd25519Verifier() *Ed25519Verifier {
	return &Ed25519Verifier{}
}

// Verify checks the signature against the signer address. The public key
// travels inside the signature value and must hash to the signer address.
func (v *Ed25519Verifier) Verify(signer orderv1.Address, message []byte, sig orderv1.Signature) bool {
	if len(sig.PublicKey) != ed25519.PublicKeySize || len(sig.Bytes) != ed25519.SignatureSize {
		return false
	}
	if AddressFromPublicKey(sig.PublicKey) != signer {
		return false
	}

	switch sig.Algorithm {
	case orderv1.AlgorithmEd25519:
		return ed25519.Verify(ed25519.PublicKey(sig.PublicKey), message, sig.Bytes)
	case orderv1.AlgorithmEd25519Typed:
		typed := make([]byte, 0, len(typedMessagePrefix)+len(message))
		typed = append(typed, typedMessagePrefix...)
		typed = append(typed, message...)
		return ed25519.Verify(ed25519.PublicKey(sig.PublicKey), typed, sig.Bytes)
	default:
		return false
	}
}

// AddressFromPublicKey derives an account address as the first 20 bytes of
// the keccak-256 digest of the public key.
func AddressFromPublicKey(pub []byte) orderv1.Address {
	digest := orderv1.Keccak256(pub)
	var a orderv1.Address
	copy(a[:], digest[:20])
	return a
}

// Signer produces signatures accepted by Ed25519Verifier. Used by tests
// and by tooling that submits batches.
type Signer struct {
	key ed25519.PrivateKey
}

// NewSigner wraps an ed25519 private key.
func NewSigner(key ed25519.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Address returns the account address of the signer.
func (s *Signer) Address() orderv1.Address {
	return AddressFromPublicKey(s.key.Public().(ed25519.PublicKey))
}

// Sign signs the message with the requested algorithm.
func (s *Signer) Sign(message []byte, algorithm orderv1.SignatureAlgorithm) orderv1.Signature {
	payload := message
	if algorithm == orderv1.AlgorithmEd25519Typed {
		payload = make([]byte, 0, len(typedMessagePrefix)+len(message))
		payload = append(payload, typedMessagePrefix...)
		payload = append(payload, message...)
	}

	return orderv1.Signature{
		Algorithm: algorithm,
		PublicKey: append([]byte(nil), s.key.Public().(ed25519.PublicKey)...),
		Bytes:     ed25519.Sign(s.key, payload),
	}
}
