package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/hashperks/loyalty-service/internal/config"
	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/auth"
	"github.com/hashperks/loyalty-service/internal/infrastructure/chain"
	publisher "github.com/hashperks/loyalty-service/internal/infrastructure/kafka"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
	"github.com/hashperks/loyalty-service/internal/infrastructure/migrate"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/repository"
)

type Dependencies struct {
	Config          *config.LoyaltyConfig
	DB              *gorm.DB
	Registry        *prometheus.Registry
	Tokens          *auth.TokenService
	Audit           logger.AuditLogger
	Chain           domain.ChainGateway
	Kafka           *publisher.DefaultKafkaPublisher
	LedgerPublisher *publisher.LedgerEventPublisher
	Repositories    *Repositories
}

type Repositories struct {
	UserRepo       domain.UserRepository
	StoreRepo      domain.StoreRepository
	ProgramRepo    domain.ProgramRepository
	MembershipRepo domain.MembershipRepository
	PerkRepo       domain.PerkRepository
	LedgerRepo     domain.LedgerRepository
}

func InitializeDependencies(cfg *config.LoyaltyConfig) (*Dependencies, error) {
	db, err := postgres.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := migrate.RunMigrations(db, cfg.LoyaltyDB.MigrationsPath); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gateway, err := initChainGateway(cfg)
	if err != nil {
		return nil, fmt.Errorf("chain gateway: %w", err)
	}

	deps := &Dependencies{
		Config:   cfg,
		DB:       db,
		Registry: registry,
		Tokens:   auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Audit:    logger.NewPGAuditLogger(db),
		Chain:    gateway,
		Repositories: &Repositories{
			UserRepo:       repository.NewDefaultUserRepository(db),
			StoreRepo:      repository.NewDefaultStoreRepository(db),
			ProgramRepo:    repository.NewDefaultProgramRepository(db),
			MembershipRepo: repository.NewDefaultMembershipRepository(db),
			PerkRepo:       repository.NewDefaultPerkRepository(db),
			LedgerRepo:     repository.NewDefaultLedgerRepository(db),
		},
	}

	if len(cfg.KafkaService.Brokers) > 0 {
		deps.Kafka = publisher.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers)
		deps.LedgerPublisher = publisher.NewLedgerEventPublisher(deps.Kafka, cfg.KafkaService.Topic)
	} else {
		slog.Info("kafka brokers not configured, ledger events are not published")
	}

	return deps, nil
}

// initChainGateway returns a nil gateway when the chain section is empty.
func initChainGateway(cfg *config.LoyaltyConfig) (domain.ChainGateway, error) {
	if !cfg.Chain.Enabled() {
		slog.Warn("chain gateway not configured, point movements are disabled")
		return nil, nil
	}
	gateway, err := chain.DialEthereumGateway(cfg.Chain.RPCURL, chain.Config{
		ChainID:       cfg.Chain.ChainID,
		PrivateKey:    cfg.Chain.PrivateKey,
		TokenDecimals: cfg.Chain.TokenDecimals,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("chain gateway ready", "chain_id", cfg.Chain.ChainID, "platform_contract", cfg.Chain.ContractAddress)
	return gateway, nil
}

func (d *Dependencies) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.Kafka != nil {
		errs = append(errs, d.Kafka.Close())
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
