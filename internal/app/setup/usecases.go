package setup

import (
	"fmt"

	"github.com/hashperks/loyalty-service/internal/infrastructure/metrics"
	"github.com/hashperks/loyalty-service/internal/usecase"
	"github.com/hashperks/loyalty-service/internal/usecase/ledger"
)

type UseCases struct {
	Guard             usecase.Guard
	AccountUsecase    *usecase.DefaultAccountUsecase
	StoreUsecase      usecase.StoreUsecase
	ProgramUsecase    usecase.ProgramUsecase
	MembershipUsecase usecase.MembershipUsecase
	PerkUsecase       usecase.PerkUsecase
	LedgerUsecase     *ledger.DefaultLedgerUsecase
	HTTPMetrics       *metrics.HTTPMetrics
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	repos := deps.Repositories
	cfg := deps.Config
	guard := usecase.NewDefaultGuard(deps.Tokens)

	ledgerUsecase, err := ledger.NewDefaultLedgerUsecase(
		repos.LedgerRepo,
		repos.StoreRepo,
		repos.ProgramRepo,
		repos.PerkRepo,
		repos.UserRepo,
		repos.MembershipRepo,
		deps.Chain,
		guard,
		ledger.Config{
			ChainTimeout:     cfg.Chain.Timeout,
			PlatformContract: cfg.Chain.ContractAddress,
			StaleAfter:       cfg.Ledger.StaleAfter,
			DropAfter:        cfg.Ledger.DropAfter,
			ReconcileBatch:   cfg.Ledger.ReconcileBatch,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("ledger usecase: %w", err)
	}
	ledgerUsecase.Metrics = metrics.NewLedgerMetrics(deps.Registry)
	ledgerUsecase.Audit = deps.Audit
	if deps.LedgerPublisher != nil {
		ledgerUsecase.Publisher = deps.LedgerPublisher
	}

	return &UseCases{
		Guard:             guard,
		AccountUsecase:    usecase.NewDefaultAccountUsecase(repos.UserRepo, deps.Tokens, deps.Audit, cfg.Auth.LoginAttempts),
		StoreUsecase:      usecase.NewDefaultStoreUsecase(repos.StoreRepo, guard),
		ProgramUsecase:    usecase.NewDefaultProgramUsecase(repos.ProgramRepo, repos.StoreRepo, guard),
		MembershipUsecase: usecase.NewDefaultMembershipUsecase(repos.MembershipRepo, repos.ProgramRepo, repos.StoreRepo),
		PerkUsecase:       usecase.NewDefaultPerkUsecase(repos.PerkRepo, repos.ProgramRepo, repos.StoreRepo, guard),
		LedgerUsecase:     ledgerUsecase,
		HTTPMetrics:       metrics.NewHTTPMetrics(deps.Registry),
	}, nil
}
