package errors

import (
	"bytes"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"

	// OrderInvalid represents an order that failed static validation.
	OrderInvalid ErrorCode = "order_invalid"
	// OrderExpired represents an order outside its validity window.
	OrderExpired ErrorCode = "order_expired"
	// OrderSignatureInvalid represents an order whose signature does not verify.
	OrderSignatureInvalid ErrorCode = "order_signature_invalid"
	// DuplicateOrderHash represents two orders in one batch sharing a hash.
	DuplicateOrderHash ErrorCode = "duplicate_order_hash"

	// RingInvalid represents a ring that failed structural or fill validation.
	RingInvalid ErrorCode = "ring_invalid"
	// RingSubRing represents a ring where two orders share a sell token.
	RingSubRing ErrorCode = "ring_sub_ring"
	// RingFillInfeasible represents a ring whose fills or fees cannot be satisfied.
	RingFillInfeasible ErrorCode = "ring_fill_infeasible"
	// WaivePercentageOverflow represents redirected fee percentages summing above the base.
	WaivePercentageOverflow ErrorCode = "waive_percentage_overflow"

	// SpendableViolation represents a reservation exceeding the available spendable.
	// This is a matching-logic invariant failure and aborts the batch.
	SpendableViolation ErrorCode = "spendable_violation"
	// MinerSignatureInvalid represents a batch whose miner signature does not verify.
	MinerSignatureInvalid ErrorCode = "miner_signature_invalid"

	// WireFormatInvalid represents a batch blob that cannot be decoded.
	WireFormatInvalid ErrorCode = "wire_format_invalid"

	// FillStoreError represents a failure loading or storing fill state.
	FillStoreError ErrorCode = "fill_store_error"
	// LedgerStoreError represents a failure reading ledger state.
	LedgerStoreError ErrorCode = "ledger_store_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisHGetError represents an error when getting a field from a hash in Redis.
	RedisHGetError ErrorCode = "redis_hget_error"
	// RedisHSetError represents an error when setting fields in a hash in Redis.
	RedisHSetError ErrorCode = "redis_hset_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// This error provides basic functions for performing transformations
// on a list of ErrorDetails.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// IsAnyCodeEqual check if any ErrorDetails code is equal with given code
func (b *BaseError) IsAnyCodeEqual(code string) bool {
	for _, d := range b.GetDetails() {
		if d.Code == code {
			return true
		}
	}
	return false
}
