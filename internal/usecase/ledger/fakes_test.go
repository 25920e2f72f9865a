package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
	"github.com/hashperks/loyalty-service/internal/infrastructure/metrics"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/repository"
	"github.com/hashperks/loyalty-service/internal/testutil"
	"github.com/hashperks/loyalty-service/internal/usecase"
)

type chainMode int

const (
	chainOK chainMode = iota
	chainRevert
	chainReject
	chainTimeout
	// broadcast and mined, but the gateway lost track of the receipt
	chainLostReceipt
)

type chainCall struct {
	method   string
	contract string
	holder   string
	amount   int64
}

type fakeChain struct {
	mu       sync.Mutex
	mode     chainMode
	seq      int
	calls    []chainCall
	statuses map[string]domain.ChainTxStatus
	balance  int64
}

func newFakeChain() *fakeChain {
	return &fakeChain{statuses: map[string]domain.ChainTxStatus{}}
}

func (f *fakeChain) setMode(m chainMode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = m
}

func (f *fakeChain) setStatus(hash string, s domain.ChainTxStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[hash] = s
}

func (f *fakeChain) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeChain) SubmitIssue(ctx context.Context, contract, holder string, amount int64) (string, error) {
	return f.submit(ctx, "issue", contract, holder, amount)
}

func (f *fakeChain) SubmitRedeem(ctx context.Context, contract, holder string, amount int64) (string, error) {
	return f.submit(ctx, "redeem", contract, holder, amount)
}

func (f *fakeChain) submit(ctx context.Context, method, contract, holder string, amount int64) (string, error) {
	f.mu.Lock()
	f.seq++
	hash := fmt.Sprintf("0x%064x", f.seq)
	f.calls = append(f.calls, chainCall{method: method, contract: contract, holder: holder, amount: amount})
	mode := f.mode
	if mode == chainOK || mode == chainLostReceipt {
		f.statuses[hash] = domain.ChainTxSucceeded
	}
	f.mu.Unlock()

	switch mode {
	case chainRevert:
		return hash, fmt.Errorf("%w: execution reverted", domain.ErrChainReverted)
	case chainLostReceipt:
		return hash, errors.New("fetch receipt: connection reset by peer")
	case chainReject:
		return "", errors.New("insufficient funds for gas")
	case chainTimeout:
		<-ctx.Done()
		return hash, fmt.Errorf("%w: %v", domain.ErrChainTimeout, ctx.Err())
	}
	return hash, nil
}

func (f *fakeChain) BalanceOf(context.Context, string, string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance, nil
}

func (f *fakeChain) TxStatus(_ context.Context, hash string) (domain.ChainTxStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.statuses[hash]; ok {
		return s, nil
	}
	return domain.ChainTxNotFound, nil
}

type recordingPublisher struct {
	events chan *domain.Transaction
}

func (p *recordingPublisher) PublishTransaction(tx *domain.Transaction) error {
	p.events <- tx
	return nil
}

type ledgerEnv struct {
	db      *gorm.DB
	chain   *fakeChain
	uc      *DefaultLedgerUsecase
	metrics *metrics.LedgerMetrics

	owner   *models.UserModel
	member  *models.UserModel
	admin   *models.UserModel
	store   *models.StoreModel
	program *models.LoyaltyProgramModel
}

const platformContract = "0x5FbDB2315678afecb367f032d93F642f64180aa3"

func newLedgerEnv(t *testing.T) *ledgerEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	chain := newFakeChain()

	uc, err := NewDefaultLedgerUsecase(
		repository.NewDefaultLedgerRepository(db),
		repository.NewDefaultStoreRepository(db),
		repository.NewDefaultProgramRepository(db),
		repository.NewDefaultPerkRepository(db),
		repository.NewDefaultUserRepository(db),
		repository.NewDefaultMembershipRepository(db),
		chain,
		usecase.NewDefaultGuard(nil),
		Config{
			ChainTimeout:     50 * time.Millisecond,
			PlatformContract: platformContract,
			StaleAfter:       5 * time.Minute,
			DropAfter:        time.Hour,
			ReconcileBatch:   50,
		},
	)
	if err != nil {
		t.Fatalf("new ledger usecase: %v", err)
	}
	m := metrics.NewLedgerMetrics(prometheus.NewRegistry())
	uc.Metrics = m
	uc.Audit = logger.NewPGAuditLogger(db)

	env := &ledgerEnv{db: db, chain: chain, uc: uc, metrics: m}
	env.owner = testutil.SeedUser(t, db, "store_owner")
	env.member = testutil.SeedUser(t, db, "member")
	env.admin = testutil.SeedUser(t, db, "admin")
	env.store = testutil.SeedStore(t, db, env.owner.ID, "Beans")
	env.program = testutil.SeedProgram(t, db, env.store.ID, "Bean Points", true)
	return env
}

func principalOf(u *models.UserModel) domain.Principal {
	return domain.Principal{UserID: u.ID, Role: domain.Role(u.Role)}
}

// advance moves the usecase clock forward.
func (e *ledgerEnv) advance(d time.Duration) {
	base := time.Now().UTC().Add(d)
	e.uc.now = func() time.Time { return base }
}

func (e *ledgerEnv) operations(t *testing.T) []models.ChainOperationModel {
	t.Helper()
	var ops []models.ChainOperationModel
	if err := e.db.Order("created_at ASC").Find(&ops).Error; err != nil {
		t.Fatalf("load operations: %v", err)
	}
	return ops
}
