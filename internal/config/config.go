package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "LOYALTY_CONFIG_PATH"

type LoyaltyConfig struct {
	Env          string `yaml:"env" env:"LOYALTY_ENV" env-default:"local"`
	HTTPServer   `yaml:"http_server"`
	GRPCServer   `yaml:"grpc_server"`
	LoyaltyDB    `yaml:"loyalty_db"`
	Auth         `yaml:"auth"`
	Chain        `yaml:"chain"`
	Ledger       `yaml:"ledger"`
	KafkaService `yaml:"kafka-service"`
}

type HTTPServer struct {
	Host           string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port           string        `yaml:"port" env:"HTTP_PORT" env-default:"5000"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"HTTP_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
}

type GRPCServer struct {
	Host string `yaml:"host" env:"GRPC_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"GRPC_PORT" env-default:"5001"`
}

type LoyaltyDB struct {
	Dsn            string `yaml:"dsn" env:"DATABASE_URL" env-required:"true"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

type Auth struct {
	JWTSecret     string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"JWT_TTL" env-default:"1h"`
	LoginAttempts int           `yaml:"login_attempts" env:"LOGIN_ATTEMPTS_PER_MINUTE" env-default:"5"`
}

// Chain is optional as a whole. Without it the service runs with point
// movements disabled.
type Chain struct {
	RPCURL          string        `yaml:"rpc_url" env:"CHAIN_RPC_URL"`
	ChainID         int64         `yaml:"chain_id" env:"CHAIN_ID"`
	PrivateKey      string        `yaml:"private_key" env:"CHAIN_PRIVATE_KEY"`
	ContractAddress string        `yaml:"contract_address" env:"CONTRACT_ADDRESS"`
	TokenDecimals   uint8         `yaml:"token_decimals" env:"TOKEN_DECIMALS" env-default:"18"`
	Timeout         time.Duration `yaml:"timeout" env:"CHAIN_TIMEOUT" env-default:"30s"`
}

func (c Chain) Enabled() bool {
	return c.RPCURL != "" || c.PrivateKey != "" || c.ContractAddress != ""
}

type Ledger struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval" env:"LEDGER_RECONCILE_INTERVAL" env-default:"1m"`
	StaleAfter        time.Duration `yaml:"stale_after" env:"LEDGER_STALE_AFTER" env-default:"5m"`
	DropAfter         time.Duration `yaml:"drop_after" env:"LEDGER_DROP_AFTER" env-default:"1h"`
	ReconcileBatch    int           `yaml:"reconcile_batch" env:"LEDGER_RECONCILE_BATCH" env-default:"100"`
}

type KafkaService struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" env:"KAFKA_LEDGER_TOPIC" env-default:"ledger-events"`
}

// Load reads the YAML file named by LOYALTY_CONFIG_PATH when it is set.
// Environment variables always override file values.
func Load() (*LoyaltyConfig, error) {
	var cfg LoyaltyConfig

	if configPath := os.Getenv(configPathEnv); configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to find config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *LoyaltyConfig {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v\n", err)
	}
	return cfg
}

func (c *LoyaltyConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.LoyaltyDB.Dsn) == "" {
		errs = append(errs, errors.New("database dsn is required"))
	}
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("jwt secret must be at least 16 characters"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("jwt ttl must be positive"))
	}
	if c.Ledger.ReconcileInterval <= 0 || c.Ledger.StaleAfter <= 0 {
		errs = append(errs, errors.New("ledger intervals must be positive"))
	}
	if c.Chain.Enabled() {
		if c.Chain.RPCURL == "" || c.Chain.PrivateKey == "" || c.Chain.ContractAddress == "" {
			errs = append(errs, errors.New("chain rpc_url, private_key and contract_address must be set together"))
		}
		if c.Chain.ChainID <= 0 {
			errs = append(errs, errors.New("chain id must be positive"))
		}
		if c.Chain.Timeout <= 0 {
			errs = append(errs, errors.New("chain timeout must be positive"))
		}
		if c.Ledger.StaleAfter <= c.Chain.Timeout {
			errs = append(errs, errors.New("ledger stale_after must exceed the chain timeout"))
		}
	}

	return errors.Join(errs...)
}

func (c *LoyaltyConfig) HTTPAddr() string {
	return fmt.Sprintf("%s:%s", c.HTTPServer.Host, c.HTTPServer.Port)
}

func (c *LoyaltyConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%s", c.GRPCServer.Host, c.GRPCServer.Port)
}
