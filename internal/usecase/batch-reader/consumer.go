package batchreader

import (
	"context"
	"encoding/json"

	batchv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/batch/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/config"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader represents a Kafka Reader for consuming settlement requests from
// the batch topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface
}

// NewReader creates a new Kafka reader for consuming settlement requests.
// It returns an implementation of the BatchReader interface.
func NewReader(config config.KafkaConfig, log logger.Interface) Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.GroupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})

	return Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// logError is a helper method to log errors consistently
func (r Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "error", Value: err.Error()},
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the Kafka reader.
func (r Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads a message from the Kafka topic and parses it as a
// SettlementRequest.
func (r Reader) ReadMessage(ctx context.Context) (kafka.Message, batchv1.SettlementRequest, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{Offset: 0}, batchv1.SettlementRequest{}, err
	}

	var request batchv1.SettlementRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalSettlementRequest")
		return kafka.Message{Offset: 0}, batchv1.SettlementRequest{}, err
	}

	r.logger.Info("ReadMessage",
		logger.Field{
			Key:   "batchId",
			Value: request.BatchID,
		},
		logger.Field{
			Key:   "txOrigin",
			Value: request.TxOrigin.Hex(),
		},
		logger.Field{
			Key:   "dataBytes",
			Value: len(request.Data),
		},
		logger.Field{
			Key:   "offset",
			Value: msg.Offset,
		},
	)

	return msg, request, nil
}

// Close properly closes the Kafka reader.
func (r Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}

// CommitMessages commits the messages to Kafka after processing.
func (r Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		r.logError(err, "CommitMessages")
		return err
	}
	return nil
}
