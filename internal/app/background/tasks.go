package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashperks/loyalty-service/internal/delivery/grpcapi"
	ledgerdto "github.com/hashperks/loyalty-service/internal/usecase/dto/ledger"
)

type Reconciler interface {
	Reconcile(ctx context.Context) (*ledgerdto.ReconcileOutput, error)
}

// LoginPruner drops rate limit state for emails that stopped trying.
type LoginPruner interface {
	PruneLoginLimiters() int
}

type BackgroundTasks struct {
	Reconciler        Reconciler
	ReconcileInterval time.Duration
	Health            *grpcapi.HealthHandler
	Ping              func(ctx context.Context) error
	PingInterval      time.Duration
	Logins            LoginPruner
	PruneInterval     time.Duration
}

func NewBackgroundTasks(reconciler Reconciler, reconcileInterval time.Duration, health *grpcapi.HealthHandler, ping func(ctx context.Context) error) *BackgroundTasks {
	return &BackgroundTasks{
		Reconciler:        reconciler,
		ReconcileInterval: reconcileInterval,
		Health:            health,
		Ping:              ping,
		PingInterval:      15 * time.Second,
		PruneInterval:     time.Minute,
	}
}

// StartAll launches every task; they stop when ctx is cancelled.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startReconciler(ctx)
	if bt.Health != nil && bt.Ping != nil {
		go bt.startHealthProbe(ctx)
	}
	if bt.Logins != nil {
		go bt.startLoginPruner(ctx)
	}
}

func (bt *BackgroundTasks) startReconciler(ctx context.Context) {
	ticker := time.NewTicker(bt.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			bt.reconcileOnce(ctx)
		}
	}
}

func (bt *BackgroundTasks) reconcileOnce(ctx context.Context) {
	out, err := bt.Reconciler.Reconcile(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("ledger reconciliation failed", "error", err)
		}
		return
	}
	if out.Pending > 0 {
		slog.Warn("chain operations still unsettled", "pending", out.Pending)
	}
}

func (bt *BackgroundTasks) startHealthProbe(ctx context.Context) {
	ticker := time.NewTicker(bt.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			bt.Health.Observe(probeCtx, bt.Ping)
			cancel()
		}
	}
}

func (bt *BackgroundTasks) startLoginPruner(ctx context.Context) {
	ticker := time.NewTicker(bt.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if tracked := bt.Logins.PruneLoginLimiters(); tracked > 0 {
				slog.Debug("login limiters pruned", "tracked", tracked)
			}
		}
	}
}
