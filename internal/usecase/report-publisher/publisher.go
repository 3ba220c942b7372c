package reportpublisher

import (
	"context"

	reportv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/report/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/config"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher represents a Kafka Publisher for publishing settlement reports.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      logger.Interface
}

// NewPublisher creates a new Kafka publisher for publishing settlement reports.
func NewPublisher(config config.ReportPublisherConfig, log logger.Interface) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: config.Brokers,
		Topic:   config.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishReport publishes a settlement report to the Kafka topic. The batch
// id keys the message so re-simulated batches land on the same partition.
func (p *Publisher) PublishReport(ctx context.Context, report *reportv1.Report) error {
	msg := kafka.Message{
		Key:   []byte(report.BatchID),
		Value: reportv1.ToBytes(report),
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "error", Value: err.Error()},
			logger.Field{Key: "batchId", Value: report.BatchID},
		)
		return errors.NewTracer("failed to publish settlement report")
	}
	return nil
}

// Close properly closes the Kafka writer.
func (p *Publisher) Close() error {
	if err := p.kafkaWriter.Close(); err != nil {
		p.logger.Error(err,
			logger.Field{Key: "operation", Value: "Close"},
		)
		return err
	}
	return nil
}
