package orderv1

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// FeePercentageBase is the base for per-mille fee percentages.
	FeePercentageBase = 1000

	// WalletSplitPercentageBase is the base for the wallet split percentage.
	WalletSplitPercentageBase = 100

	// SupportedVersion is the only order format version this simulator accepts.
	SupportedVersion = 2
)

// Address identifies a ledger account or token contract.
type Address [20]byte

// ZeroAddress is the all-zero address, used as the absent-field sentinel.
var ZeroAddress Address

// IsZero reports whether the address is the zero sentinel.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// Hex returns the 0x-prefixed lowercase hex encoding of the address.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// MarshalText implements encoding.TextMarshaler so addresses can be used
// as JSON map keys.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a 0x-prefixed or bare 40-character hex string.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != len(a) {
		return a, fmt.Errorf("invalid address length %d", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// MustParseAddress parses an address and panics on failure. For tests and
// static configuration only.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Hash is a 32-byte keccak-256 digest.
type Hash [32]byte

// ZeroHash is the all-zero hash.
var ZeroHash Hash

// IsZero reports whether the hash is all zeroes.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Hex returns the 0x-prefixed lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(text []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(text)), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hash %q: %w", s, err)
	}
	if len(raw) != len(h) {
		return fmt.Errorf("invalid hash length %d", len(raw))
	}
	copy(h[:], raw)
	return nil
}

// XOR returns the bitwise xor of two hashes.
func (h Hash) XOR(other Hash) Hash {
	var out Hash
	for i := range h {
		out[i] = h[i] ^ other[i]
	}
	return out
}

// SignatureAlgorithm identifies how a signature was produced.
type SignatureAlgorithm uint8

const (
	// AlgorithmNone is the explicit no-signature sentinel. Orders carrying
	// it are only valid when pre-registered on the ledger.
	AlgorithmNone SignatureAlgorithm = iota
	// AlgorithmEd25519 signs the plain message hash.
	AlgorithmEd25519
	// AlgorithmEd25519Typed signs the message hash wrapped in a typed prefix.
	AlgorithmEd25519Typed
)

// Signature is an opaque signature value verified by the signature
// collaborator. The simulator never inspects the bytes itself.
type Signature struct {
	Algorithm SignatureAlgorithm `json:"algorithm"`
	PublicKey []byte             `json:"publicKey,omitempty"`
	Bytes     []byte             `json:"bytes,omitempty"`
}

// IsZero reports whether the signature is the no-signature sentinel.
func (s Signature) IsZero() bool {
	return s.Algorithm == AlgorithmNone && len(s.Bytes) == 0
}
