package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashperks/loyalty-service/internal/domain"
	ledgerdto "github.com/hashperks/loyalty-service/internal/usecase/dto/ledger"
)

// Reconcile settles operations left unknown by a timed out chain call, and
// pending operations abandoned before their chain call finished.
func (uc *DefaultLedgerUsecase) Reconcile(ctx context.Context) (*ledgerdto.ReconcileOutput, error) {
	out := &ledgerdto.ReconcileOutput{}
	if uc.Chain == nil {
		return out, nil
	}

	now := uc.now()
	ops, err := uc.LedgerRepo.ListOperationsToReconcile(ctx, now.Add(-uc.cfg.StaleAfter), uc.cfg.ReconcileBatch)
	if err != nil {
		return nil, err
	}

	for _, op := range ops {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		out.Checked++
		outcome, err := uc.reconcileOne(ctx, op)
		if err != nil {
			slog.Error("failed to reconcile chain operation", "operation_id", op.ID, "error", err)
			continue
		}
		switch outcome {
		case domain.ChainOpConfirmed:
			out.Confirmed++
		case domain.ChainOpFailed:
			out.Failed++
		default:
			out.Pending++
		}
		uc.Metrics.RecordReconciled(string(outcome))
	}

	if out.Checked > 0 {
		slog.Info("reconciliation pass finished",
			"checked", out.Checked, "confirmed", out.Confirmed, "failed", out.Failed, "pending", out.Pending)
	}
	return out, nil
}

func (uc *DefaultLedgerUsecase) reconcileOne(ctx context.Context, op *domain.ChainOperation) (domain.ChainOpStatus, error) {
	now := uc.now()

	if op.TxHash == "" {
		// Nothing was broadcast for this operation.
		if now.Sub(op.UpdatedAt) < uc.cfg.StaleAfter {
			return op.Status, nil
		}
		if _, err := uc.fail(ctx, op.ID, "", "no chain transaction was broadcast"); err != nil {
			return "", err
		}
		return domain.ChainOpFailed, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.ChainTimeout)
	status, err := uc.Chain.TxStatus(callCtx, op.TxHash)
	cancel()
	if err != nil {
		return "", fmt.Errorf("query chain status: %w", err)
	}

	switch status {
	case domain.ChainTxSucceeded:
		if _, err := uc.confirm(ctx, op.ID, op.TxHash); err != nil {
			return "", err
		}
		return domain.ChainOpConfirmed, nil
	case domain.ChainTxFailed:
		if _, err := uc.fail(ctx, op.ID, op.TxHash, "chain transaction reverted"); err != nil {
			return "", err
		}
		return domain.ChainOpFailed, nil
	case domain.ChainTxNotFound:
		if now.Sub(op.CreatedAt) < uc.cfg.DropAfter {
			return op.Status, nil
		}
		if _, err := uc.fail(ctx, op.ID, op.TxHash, "chain transaction was dropped"); err != nil {
			return "", err
		}
		return domain.ChainOpFailed, nil
	}
	return op.Status, nil
}
