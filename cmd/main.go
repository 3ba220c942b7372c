package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	app "github.com/muhammadchandra19/ring-settlement/internal/app/engine"
	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	batchreader "github.com/muhammadchandra19/ring-settlement/internal/usecase/batch-reader"
	fillstore "github.com/muhammadchandra19/ring-settlement/internal/usecase/fill-store"
	ledgerstore "github.com/muhammadchandra19/ring-settlement/internal/usecase/ledger-store"
	reportpublisher "github.com/muhammadchandra19/ring-settlement/internal/usecase/report-publisher"
	"github.com/muhammadchandra19/ring-settlement/internal/usecase/simulator"
	"github.com/muhammadchandra19/ring-settlement/pkg/config"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/muhammadchandra19/ring-settlement/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg = &config.Config{}
	err = config.Load(cfg)
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = logger
}

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	redisConfig := redis.DefaultConfig()
	redisConfig.Addrs = strings.Split(cfg.RedisConfig.Addrs, ",")
	redisConfig.Password = cfg.RedisConfig.Password
	redisConfig.Username = cfg.RedisConfig.Username
	redisConfig.DB = cfg.RedisConfig.DB
	// Initialize Redis client
	rclient := redis.NewClient(log, redisConfig)

	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	feeToken, err := orderv1.ParseAddress(cfg.ProtocolConfig.FeeTokenAddress)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "parse_fee_token",
		})
		return
	}
	burnAddress, err := orderv1.ParseAddress(cfg.ProtocolConfig.BurnAddress)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "parse_burn_address",
		})
		return
	}

	// Initialize components
	ledgerStore := ledgerstore.NewStore(rclient, cfg.Pair, log)
	fillStore := fillstore.NewStore(rclient, cfg.Pair, log)
	bReader := batchreader.NewReader(cfg.KafkaConfig, log)
	rPublisher := reportpublisher.NewPublisher(cfg.ReportPublisherConfig, log)
	sim := simulator.NewSimulator(
		simulator.Config{FeeTokenAddress: feeToken, BurnAddress: burnAddress},
		ledgerStore,
		ledgerStore,
		ledgerv1.NewEd25519Verifier(),
		log,
	)
	engine := app.NewEngine(
		sim,
		bReader,
		fillStore,
		rPublisher,
		log,
		cfg,
	)

	// Start the engine
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Ring settlement service started successfully", logger.Field{
		Key:   "pair",
		Value: cfg.Pair,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	// Cancel the main context to signal shutdown
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the engine gracefully
	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := rPublisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_report_publisher",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Ring settlement service shut down")
}
