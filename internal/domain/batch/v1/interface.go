package batchv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// BatchReader defines the interface for reading settlement requests from a
// source.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=batchv1_mock
type BatchReader interface {
	// ReadMessage reads a message and returns the offset and parsed request
	ReadMessage(ctx context.Context) (kafka.Message, SettlementRequest, error)
	// SetOffset sets the offset for the reader
	SetOffset(offset int64) error
	// Close closes the reader
	Close() error

	// CommitMessages commits the messages to Kafka after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}
