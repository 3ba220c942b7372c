package engine

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap/zapcore"

	batchv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/batch/v1"
	fillv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/fill/v1"
	miningv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/mining/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	reportv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/report/v1"
	wirev1 "github.com/muhammadchandra19/ring-settlement/internal/domain/wire/v1"
	"github.com/muhammadchandra19/ring-settlement/internal/usecase/simulator"
	"github.com/muhammadchandra19/ring-settlement/pkg/config"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/muhammadchandra19/ring-settlement/pkg/util"
)

// Engine is the main loop: it consumes settlement requests, simulates them
// and publishes the resulting reports.
type Engine struct {
	// Core components
	simulator       *simulator.Simulator
	batchReader     batchv1.BatchReader
	fillStore       fillv1.FillStore
	reportPublisher reportv1.ReportPublisher
	logger          *logger.Logger
	config          *config.Config

	feeToken orderv1.Address
	txOrigin orderv1.Address

	// Simple state management with mutex instead of atomics
	mu          sync.RWMutex
	batchOffset int64

	// Simple shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Configuration
	readBackoff time.Duration

	// Batch statistics
	totalSettled  int64
	totalRejected int64
	statsMutex    sync.RWMutex
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	sim *simulator.Simulator,
	batchReader batchv1.BatchReader,
	fillStore fillv1.FillStore,
	reportPublisher reportv1.ReportPublisher,
	logger *logger.Logger,
	config *config.Config,
) *Engine {
	return NewEngineWithOptions(sim, batchReader, fillStore, reportPublisher, logger, config, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	sim *simulator.Simulator,
	batchReader batchv1.BatchReader,
	fillStore fillv1.FillStore,
	reportPublisher reportv1.ReportPublisher,
	logger *logger.Logger,
	config *config.Config,
	options *Options,
) *Engine {
	e := &Engine{
		simulator:       sim,
		batchReader:     batchReader,
		fillStore:       fillStore,
		reportPublisher: reportPublisher,
		logger:          logger,
		config:          config,

		readBackoff: options.ReadBackoff,
		batchOffset: -1,
	}

	feeToken, err := orderv1.ParseAddress(config.ProtocolConfig.FeeTokenAddress)
	if err != nil {
		e.logger.GetZap().Fatal("Invalid fee token address", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}
	e.feeToken = feeToken

	txOrigin, err := orderv1.ParseAddress(config.ProtocolConfig.TxOrigin)
	if err != nil {
		e.logger.GetZap().Fatal("Invalid tx origin address", zapcore.Field{
			Key:       "error",
			Interface: err,
		})
	}
	e.txOrigin = txOrigin

	return e
}

// Start initializes the engine and starts the processing routine.
func (e *Engine) Start(ctx context.Context) error {
	// Create cancellable context
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(1)
	go e.runBatchProcessor()

	e.logger.Info("Settlement engine started", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Settlement engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runBatchProcessor combines request reading and settlement in a single
// goroutine. Batches must be simulated in arrival order: each one observes
// the fill state its predecessors left behind.
func (e *Engine) runBatchProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting batch processor", logger.Field{
		Key:   "pair",
		Value: e.config.Pair,
	})

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Batch processor shutting down")
			e.batchReader.Close()
			return
		default:
			msg, request, err := e.batchReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_batch_message",
				})
				// Simple backoff
				time.Sleep(e.readBackoff)
				continue
			}

			ctx := util.WithBatchID(util.WithRequestID(e.ctx, ""), request.BatchID)

			report, err := e.simulateRequest(ctx, &request)
			if err != nil {
				// The request itself is bad: undecodable or violating a
				// batch-level invariant. Re-reading it cannot help, so drop
				// it and move on.
				e.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "simulate_batch",
				}, logger.Field{
					Key:   "batchId",
					Value: request.BatchID,
				})
				e.commitMessage(msg)
				continue
			}

			if err := e.persistAndPublish(ctx, report); err != nil {
				// Storage or transport trouble. Leave the message
				// uncommitted so it is redelivered.
				e.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "persist_and_publish",
				}, logger.Field{
					Key:   "batchId",
					Value: report.BatchID,
				})
				time.Sleep(e.readBackoff)
				continue
			}

			e.commitMessage(msg)
			e.setBatchOffset(msg.Offset)
			e.recordBatch(report)
		}
	}
}

// simulateRequest decodes the request, loads prior fill state and runs the
// simulation.
func (e *Engine) simulateRequest(ctx context.Context, request *batchv1.SettlementRequest) (*reportv1.Report, error) {
	decoded, err := wirev1.Decode(request.Data, e.feeToken)
	if err != nil {
		return nil, err
	}

	hashes := make([]orderv1.Hash, 0, len(decoded.Orders))
	for _, order := range decoded.Orders {
		hashes = append(hashes, order.ComputeHash())
	}

	fills, err := e.fillStore.Load(ctx, hashes)
	if err != nil {
		return nil, err
	}

	timestamp := request.Timestamp
	if timestamp == 0 {
		timestamp = uint64(time.Now().Unix())
	}

	txOrigin := request.TxOrigin
	if txOrigin.IsZero() {
		txOrigin = e.txOrigin
	}

	batch := &simulator.Batch{
		BatchID:   e.batchID(request),
		Timestamp: timestamp,
		TxOrigin:  txOrigin,
		Orders:    decoded.Orders,
		Rings:     decoded.Rings,
		Mining: &miningv1.Mining{
			FeeRecipient: request.FeeRecipient,
			Miner:        request.Miner,
			Signature:    request.MinerSignature,
		},
		Fills: fills,
	}

	return e.simulator.SimulateAndReport(ctx, batch)
}

// persistAndPublish stores the updated fill state and emits the report.
// Fills are saved first: a report must never reference state that was lost.
func (e *Engine) persistAndPublish(ctx context.Context, report *reportv1.Report) error {
	if err := e.fillStore.Save(ctx, fillv1.State(report.FilledAmountsAfter)); err != nil {
		return err
	}
	return e.reportPublisher.PublishReport(ctx, report)
}

func (e *Engine) commitMessage(msg kafka.Message) {
	if err := e.batchReader.CommitMessages(e.ctx, msg); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "commit_batch_message",
		})
	}
}

// batchID falls back to a fresh ULID when the producer did not assign one.
func (e *Engine) batchID(request *batchv1.SettlementRequest) string {
	if request.BatchID != "" {
		return request.BatchID
	}
	return ulid.Make().String()
}

// recordBatch logs the batch outcome and updates statistics
func (e *Engine) recordBatch(report *reportv1.Report) {
	e.statsMutex.Lock()
	e.totalSettled += int64(len(report.RingMinedEvents))
	e.totalRejected += int64(len(report.InvalidRingEvents))
	settled := e.totalSettled
	rejected := e.totalRejected
	e.statsMutex.Unlock()

	e.logger.Info("Batch settled",
		logger.Field{Key: "batchId", Value: report.BatchID},
		logger.Field{Key: "ringsMined", Value: len(report.RingMinedEvents)},
		logger.Field{Key: "ringsRejected", Value: len(report.InvalidRingEvents)},
		logger.Field{Key: "transfers", Value: len(report.Transfers)},
		logger.Field{Key: "totalSettled", Value: settled},
		logger.Field{Key: "totalRejected", Value: rejected},
	)
}

// Thread-safe getters and setters
func (e *Engine) getBatchOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.batchOffset
}

func (e *Engine) setBatchOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batchOffset = offset
}

// GetBatchOffset returns the offset of the last fully processed batch.
func (e *Engine) GetBatchOffset() int64 {
	return e.getBatchOffset()
}

// GetTotalSettled returns the number of rings settled since startup.
func (e *Engine) GetTotalSettled() int64 {
	e.statsMutex.RLock()
	defer e.statsMutex.RUnlock()
	return e.totalSettled
}

// GetTotalRejected returns the number of rings rejected since startup.
func (e *Engine) GetTotalRejected() int64 {
	e.statsMutex.RLock()
	defer e.statsMutex.RUnlock()
	return e.totalRejected
}
