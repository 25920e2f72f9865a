package ledger

import (
	"context"
	"time"

	nanoid "github.com/jaevor/go-nanoid"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
	"github.com/hashperks/loyalty-service/internal/infrastructure/metrics"
	"github.com/hashperks/loyalty-service/internal/usecase"
	ledgerdto "github.com/hashperks/loyalty-service/internal/usecase/dto/ledger"
)

type LedgerUsecase interface {
	Record(ctx context.Context, p domain.Principal, input *ledgerdto.RecordInput) (*domain.Transaction, error)
	ListForStore(ctx context.Context, p domain.Principal, storeID string) ([]*domain.TransactionView, error)
	ListForMember(ctx context.Context, p domain.Principal, programID string) ([]*domain.TransactionView, error)
	TokenBalance(ctx context.Context, p domain.Principal, userID string) (*domain.TokenBalance, error)
	Reconcile(ctx context.Context) (*ledgerdto.ReconcileOutput, error)
}

// EventPublisher receives every recorded transaction after it is committed.
type EventPublisher interface {
	PublishTransaction(tx *domain.Transaction) error
}

type Config struct {
	ChainTimeout     time.Duration
	PlatformContract string
	StaleAfter       time.Duration
	DropAfter        time.Duration
	ReconcileBatch   int
}

type DefaultLedgerUsecase struct {
	LedgerRepo     domain.LedgerRepository
	StoreRepo      domain.StoreRepository
	ProgramRepo    domain.ProgramRepository
	PerkRepo       domain.PerkRepository
	UserRepo       domain.UserRepository
	MembershipRepo domain.MembershipRepository
	Chain          domain.ChainGateway
	Guard          usecase.Guard

	Publisher EventPublisher
	Metrics   *metrics.LedgerMetrics
	Audit     logger.AuditLogger

	cfg   Config
	newID func() string
	now   func() time.Time
}

// NewDefaultLedgerUsecase accepts a nil chain gateway; point movements then fail
// with ErrChainGatewayDisabled.
func NewDefaultLedgerUsecase(
	ledgerRepo domain.LedgerRepository,
	storeRepo domain.StoreRepository,
	programRepo domain.ProgramRepository,
	perkRepo domain.PerkRepository,
	userRepo domain.UserRepository,
	membershipRepo domain.MembershipRepository,
	chain domain.ChainGateway,
	guard usecase.Guard,
	cfg Config,
) (*DefaultLedgerUsecase, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}
	if cfg.ChainTimeout <= 0 {
		cfg.ChainTimeout = 30 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Minute
	}
	if cfg.DropAfter <= 0 {
		cfg.DropAfter = time.Hour
	}
	if cfg.ReconcileBatch <= 0 {
		cfg.ReconcileBatch = 100
	}
	return &DefaultLedgerUsecase{
		LedgerRepo:     ledgerRepo,
		StoreRepo:      storeRepo,
		ProgramRepo:    programRepo,
		PerkRepo:       perkRepo,
		UserRepo:       userRepo,
		MembershipRepo: membershipRepo,
		Chain:          chain,
		Guard:          guard,
		cfg:            cfg,
		newID:          idGenerator,
		now:            func() time.Time { return time.Now().UTC() },
	}, nil
}
