package batchv1

import (
	"encoding/json"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
)

// SettlementRequest is one batch submission as carried on the wire: the
// compact order/ring blob plus the batch-level context needed to simulate
// it.
type SettlementRequest struct {
	BatchID   string          `json:"batchId"`
	Timestamp uint64          `json:"timestamp"`
	TxOrigin  orderv1.Address `json:"txOrigin"`

	// Mining context. FeeRecipient defaults to the transaction origin; a
	// Miner distinct from the origin must prove itself with MinerSignature
	// over the mining hash.
	FeeRecipient   orderv1.Address   `json:"feeRecipient,omitempty"`
	Miner          orderv1.Address   `json:"miner,omitempty"`
	MinerSignature orderv1.Signature `json:"minerSignature,omitempty"`

	// Data is the compact batch encoding: header, order field offset
	// tables, ring table and data blob.
	Data []byte `json:"data"`
}

// ToBytes converts the request to its JSON wire representation.
func ToBytes(request *SettlementRequest) []byte {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil
	}
	return payload
}

// FromBytes parses a JSON wire representation into a request.
func FromBytes(data []byte) *SettlementRequest {
	var request SettlementRequest
	if err := json.Unmarshal(data, &request); err != nil {
		return nil
	}
	return &request
}
