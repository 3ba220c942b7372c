package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MustLoad loads the configuration from environment variables and .env file.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load() // Load environment variables from .env file

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and .env file.
func Load[T any](cfg T) error {
	_ = godotenv.Load() // .env file is optional

	if err := env.Parse(cfg); err != nil {
		return err // Return error if environment variable parsing fails
	}

	return nil
}

// Config holds the configuration for the application
type Config struct {
	Pair                  string                  `env:"PAIR,required"` // Settlement stream identifier, e.g. mainnet-rings
	KafkaConfig           `envPrefix:"KAFKA_"`    // Batch request consumer configuration
	ReportPublisherConfig `envPrefix:"REPORT_"`   // Report publisher configuration
	RedisConfig           `envPrefix:"REDIS_"`    // Redis configuration
	ProtocolConfig        `envPrefix:"PROTOCOL_"` // Protocol constants
}

// KafkaConfig holds the configuration for the batch request consumer.
type KafkaConfig struct {
	Topic   string   `env:"TOPIC,required"`
	GroupID string   `env:"GROUP_ID" envDefault:"default_group"`
	Brokers []string `env:"BROKER,required"`
}

// ReportPublisherConfig holds the configuration for the settlement report publisher.
type ReportPublisherConfig struct {
	Topic   string   `env:"TOPIC,required"`
	Brokers []string `env:"BROKER,required"`
}

// RedisConfig holds the configuration for Redis client.
type RedisConfig struct {
	Addrs    string `env:"ADDRESS,required"` // Comma-separated list of Redis addresses
	Password string `env:"PASSWORD" envDefault:""`
	Username string `env:"USERNAME" envDefault:""`
	DB       int    `env:"DB" envDefault:"0"`
}

// ProtocolConfig holds protocol-level constants resolved once at startup.
type ProtocolConfig struct {
	// FeeTokenAddress is the default fee token applied when an order omits one.
	FeeTokenAddress string `env:"FEE_TOKEN" envDefault:"0x0000000000000000000000000000000000000101"`
	// BurnAddress is the fixed sink account burned fees are routed to.
	BurnAddress string `env:"BURN_ADDRESS" envDefault:"0x00000000000000000000000000000000000000fd"`
	// TxOrigin is the ledger account this service settles batches from.
	TxOrigin string `env:"TX_ORIGIN,required"`
}
