package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/logger"
)

// confirm settles an operation whose chain call succeeded. It is safe to call
// more than once for the same operation.
func (uc *DefaultLedgerUsecase) confirm(ctx context.Context, opID, hash string) (*domain.Transaction, error) {
	tx, already, err := uc.confirmInTx(ctx, opID, hash)
	switch {
	case errors.Is(err, domain.ErrDuplicateTransaction):
		return uc.adoptExisting(ctx, opID, hash)
	case err != nil:
		return nil, err
	case already != "":
		return uc.LedgerRepo.GetTransactionByID(ctx, already)
	}

	uc.Metrics.RecordOperationStatus(string(domain.ChainOpConfirmed))
	uc.recorded(ctx, tx)
	return tx, nil
}

// confirmInTx returns the id of the existing transaction when the operation
// was confirmed before.
func (uc *DefaultLedgerUsecase) confirmInTx(ctx context.Context, opID, hash string) (*domain.Transaction, string, error) {
	txRepo, err := uc.LedgerRepo.BeginTx(ctx)
	if err != nil {
		return nil, "", err
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := txRepo.Rollback(); rollbackErr != nil {
				slog.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	op, err := txRepo.LockOperation(opID)
	if err != nil {
		return nil, "", err
	}
	switch op.Status {
	case domain.ChainOpConfirmed:
		return nil, op.TransactionID, nil
	case domain.ChainOpFailed:
		slog.Error("chain confirmed an operation that was already failed",
			"operation_id", op.ID, "tx_hash", hash)
		return nil, "", domain.Conflictf("operation %s was already marked failed", op.ID)
	}

	if hash != "" {
		op.TxHash = hash
	}
	tx := op.Transaction(uuid.New().String(), uc.now())
	if err := txRepo.InsertTransaction(tx); err != nil {
		return nil, "", err
	}
	if op.PointsChanged > 0 && op.UserID != "" {
		if err := txRepo.ApplyBalanceDelta(op.UserID, op.LoyaltyProgramID, op.PointsChanged); err != nil {
			return nil, "", err
		}
	}
	op.Status = domain.ChainOpConfirmed
	op.TransactionID = tx.ID
	op.FailureReason = ""
	if err := txRepo.SaveOperation(op); err != nil {
		return nil, "", err
	}

	if err := txRepo.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return tx, "", nil
}

// adoptExisting links an operation to a ledger row that was imported under the
// same hash. The import already applied the balance change, so any
// reservation is returned.
func (uc *DefaultLedgerUsecase) adoptExisting(ctx context.Context, opID, hash string) (*domain.Transaction, error) {
	existing, err := uc.LedgerRepo.GetTransactionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	txRepo, err := uc.LedgerRepo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := txRepo.Rollback(); rollbackErr != nil {
				slog.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	op, err := txRepo.LockOperation(opID)
	if err != nil {
		return nil, err
	}
	if !op.Status.Settled() {
		if op.ReservedPoints > 0 {
			if err := txRepo.ApplyBalanceDelta(op.UserID, op.LoyaltyProgramID, op.ReservedPoints); err != nil {
				return nil, err
			}
			op.ReservedPoints = 0
		}
		op.Status = domain.ChainOpConfirmed
		op.TxHash = hash
		op.TransactionID = existing.ID
		if err := txRepo.SaveOperation(op); err != nil {
			return nil, err
		}
	}

	if err := txRepo.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return existing, nil
}

// fail marks the operation failed and returns any reserved points. It reports
// whether this call changed the operation.
func (uc *DefaultLedgerUsecase) fail(ctx context.Context, opID, hash, reason string) (bool, error) {
	txRepo, err := uc.LedgerRepo.BeginTx(ctx)
	if err != nil {
		return false, err
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := txRepo.Rollback(); rollbackErr != nil {
				slog.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	op, err := txRepo.LockOperation(opID)
	if err != nil {
		return false, err
	}
	if op.Status.Settled() {
		return false, nil
	}
	if op.ReservedPoints > 0 {
		if err := txRepo.ApplyBalanceDelta(op.UserID, op.LoyaltyProgramID, op.ReservedPoints); err != nil {
			return false, err
		}
		op.ReservedPoints = 0
	}
	op.Status = domain.ChainOpFailed
	op.FailureReason = reason
	if hash != "" {
		op.TxHash = hash
	}
	if err := txRepo.SaveOperation(op); err != nil {
		return false, err
	}

	if err := txRepo.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	uc.Metrics.RecordOperationStatus(string(domain.ChainOpFailed))
	uc.audit(ctx, logger.AuditEvent{
		Action:    logger.AuditOperationFailed,
		SubjectID: op.ID,
		Outcome:   string(domain.ChainOpFailed),
		Detail:    reason,
	})
	return true, nil
}

func (uc *DefaultLedgerUsecase) markUnknown(ctx context.Context, opID, hash string, cause error) error {
	txRepo, err := uc.LedgerRepo.BeginTx(ctx)
	if err != nil {
		return err
	}
	var committed bool
	defer func() {
		if !committed {
			if rollbackErr := txRepo.Rollback(); rollbackErr != nil {
				slog.Error("Failed to rollback transaction", "error", rollbackErr)
			}
		}
	}()

	op, err := txRepo.LockOperation(opID)
	if err != nil {
		return err
	}
	if op.Status.Settled() {
		return nil
	}
	op.Status = domain.ChainOpUnknown
	op.FailureReason = cause.Error()
	if hash != "" {
		op.TxHash = hash
	}
	if err := txRepo.SaveOperation(op); err != nil {
		return err
	}

	if err := txRepo.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	slog.Warn("chain outcome unknown, left for reconciliation", "operation_id", op.ID, "tx_hash", op.TxHash)
	uc.Metrics.RecordOperationStatus(string(domain.ChainOpUnknown))
	uc.audit(ctx, logger.AuditEvent{
		Action:    logger.AuditOperationUnknown,
		SubjectID: op.ID,
		Outcome:   string(domain.ChainOpUnknown),
		Detail:    op.FailureReason,
	})
	return nil
}

// recorded runs after a ledger row is committed.
func (uc *DefaultLedgerUsecase) recorded(ctx context.Context, tx *domain.Transaction) {
	uc.Metrics.RecordTransaction(string(tx.Type), tx.PointsChanged)

	if tx.Type == domain.TransactionAdminAdjustment {
		uc.audit(ctx, logger.AuditEvent{
			Action:    logger.AuditPointsAdjusted,
			SubjectID: tx.ID,
			Outcome:   "ok",
			Detail:    fmt.Sprintf("%+d points for %s", tx.PointsChanged, tx.MemberWalletAddress),
		})
	}

	if uc.Publisher != nil {
		go func() {
			if err := uc.Publisher.PublishTransaction(tx); err != nil {
				slog.Error("failed to publish ledger event", "transaction_id", tx.ID, "error", err)
			}
		}()
	}
}

func (uc *DefaultLedgerUsecase) audit(ctx context.Context, event logger.AuditEvent) {
	if uc.Audit == nil {
		return
	}
	if err := uc.Audit.LogEvent(ctx, event); err != nil {
		slog.Error("failed to write audit event", "action", event.Action, "error", err)
	}
}
