package reportv1

import (
	"context"
)

// ReportPublisher defines the interface for publishing settlement reports.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=reportv1_mock
type ReportPublisher interface {
	// PublishReport publishes a settlement report to the Kafka topic.
	PublishReport(ctx context.Context, report *Report) error
}
