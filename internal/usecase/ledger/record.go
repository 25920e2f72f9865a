package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/hashperks/loyalty-service/internal/domain"
	ledgerdto "github.com/hashperks/loyalty-service/internal/usecase/dto/ledger"
)

const (
	maxNotesLength          = 1000
	maxIdempotencyKeyLength = 64
)

// Record moves points for one member. Chain-backed movements run in three
// phases: the operation is persisted (reserving points for debits), the
// chain call is made without any database transaction open, and the outcome
// is written back together with the ledger row.
func (uc *DefaultLedgerUsecase) Record(ctx context.Context, p domain.Principal, input *ledgerdto.RecordInput) (*domain.Transaction, error) {
	tx, err := uc.record(ctx, p, input)
	if err != nil {
		uc.Metrics.RecordError(string(domain.KindOf(err)))
		return nil, err
	}
	return tx, nil
}

func (uc *DefaultLedgerUsecase) record(ctx context.Context, p domain.Principal, input *ledgerdto.RecordInput) (*domain.Transaction, error) {
	op, err := uc.prepare(ctx, p, input)
	if err != nil {
		return nil, err
	}
	if uc.Chain == nil {
		return nil, domain.ErrChainGatewayDisabled
	}
	if hash := strings.TrimSpace(input.ExternalTxHash); hash != "" {
		op.TxHash = hash
		return uc.importTransaction(ctx, op)
	}
	return uc.submit(ctx, op, strings.TrimSpace(input.IdempotencyKey))
}

// prepare validates and authorizes the request and returns the operation it describes.
func (uc *DefaultLedgerUsecase) prepare(ctx context.Context, p domain.Principal, input *ledgerdto.RecordInput) (*domain.ChainOperation, error) {
	if strings.TrimSpace(input.StoreID) == "" || strings.TrimSpace(input.LoyaltyProgramID) == "" {
		return nil, domain.Validationf("store_id and loyalty_program_id are required")
	}
	txType, err := domain.ParseTransactionType(input.TransactionType)
	if err != nil {
		return nil, err
	}
	if err := txType.CheckPoints(input.PointsChanged); err != nil {
		return nil, err
	}
	wallet := strings.TrimSpace(input.MemberWalletAddress)
	if !common.IsHexAddress(wallet) {
		return nil, domain.Validationf("member wallet address must be a 0x-prefixed EVM address")
	}
	perkID := strings.TrimSpace(input.PerkID)
	switch {
	case txType == domain.TransactionRedeemPerk && perkID == "":
		return nil, domain.Validationf("perk_id is required for redeem_perk transactions")
	case txType != domain.TransactionRedeemPerk && perkID != "":
		return nil, domain.Validationf("perk_id is only allowed on redeem_perk transactions")
	}
	if hash := strings.TrimSpace(input.ExternalTxHash); hash != "" && !domain.IsTxHash(hash) {
		return nil, domain.Validationf("transaction hash must be 0x followed by 64 hex characters")
	}
	if len(strings.TrimSpace(input.IdempotencyKey)) > maxIdempotencyKeyLength {
		return nil, domain.Validationf("idempotency key must be at most %d characters", maxIdempotencyKeyLength)
	}
	if len(input.Notes) > maxNotesLength {
		return nil, domain.Validationf("notes must be at most %d characters", maxNotesLength)
	}
	userID := strings.TrimSpace(input.UserID)

	store, err := uc.StoreRepo.GetStoreByID(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	program, err := uc.ProgramRepo.GetProgramByID(ctx, input.LoyaltyProgramID)
	if err != nil {
		return nil, err
	}
	if program.StoreID != store.ID {
		return nil, domain.Validationf("loyalty program %s does not belong to store %s", program.ID, store.ID)
	}

	if err := uc.authorize(p, txType, store, userID); err != nil {
		return nil, err
	}

	if perkID != "" {
		perk, err := uc.PerkRepo.GetPerkByID(ctx, perkID)
		if err != nil {
			return nil, err
		}
		if perk.LoyaltyProgramID != program.ID {
			return nil, domain.Validationf("perk %s does not belong to this loyalty program", perk.ID)
		}
		if !perk.IsActive {
			return nil, domain.Validationf("perk %s is not active", perk.ID)
		}
		if input.PointsChanged != -perk.PointsRequired {
			return nil, domain.Validationf("redeeming %q costs %d points", perk.Name, perk.PointsRequired)
		}
	}

	if userID != "" {
		user, err := uc.UserRepo.GetUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user.WalletAddress != "" && !strings.EqualFold(user.WalletAddress, wallet) {
			return nil, domain.Validationf("wallet address does not match the member's account")
		}
		if _, err := uc.MembershipRepo.GetMembership(ctx, userID, program.ID); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	return &domain.ChainOperation{
		ID:                  uuid.New().String(),
		StoreID:             store.ID,
		LoyaltyProgramID:    program.ID,
		ContractAddress:     store.TokenContractAddress,
		MemberWalletAddress: common.HexToAddress(wallet).Hex(),
		UserID:              userID,
		PointsChanged:       input.PointsChanged,
		Type:                txType,
		PerkID:              perkID,
		Notes:               strings.TrimSpace(input.Notes),
		Status:              domain.ChainOpPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func (uc *DefaultLedgerUsecase) authorize(p domain.Principal, txType domain.TransactionType, store *domain.Store, userID string) error {
	switch {
	case txType == domain.TransactionEarn:
		return uc.Guard.RequireOwnership(p, store.OwnerID)
	case txType.IsRedemption():
		if p.Is(store.OwnerID) || (userID != "" && p.Is(userID)) {
			return nil
		}
		return domain.Forbiddenf("redemptions are made by the store owner or the member")
	case txType == domain.TransactionAdminAdjustment:
		return uc.Guard.RequireRole(p, domain.RoleAdmin)
	}
	return domain.Forbiddenf("transaction type %q is not permitted", txType)
}

func (uc *DefaultLedgerUsecase) submit(ctx context.Context, op *domain.ChainOperation, key string) (*domain.Transaction, error) {
	if key == "" {
		key = uc.newID()
	}
	op.IdempotencyKey = key

	existing, err := uc.LedgerRepo.GetOperationByIdempotencyKey(ctx, key)
	if err == nil {
		return uc.replay(ctx, existing, op)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := uc.begin(ctx, op); err != nil {
		return nil, err
	}

	start := time.Now()
	hash, chainErr := uc.callChain(ctx, op)
	outcome := "ok"
	switch {
	case chainErr == nil:
	case isTimeout(chainErr):
		outcome = "timeout"
	case outcomeOpen(hash, chainErr):
		outcome = "unknown"
	default:
		outcome = "error"
	}
	uc.Metrics.RecordChainCall(chainMethod(op), outcome, time.Since(start).Seconds())

	// A cancelled caller must not prevent the outcome from being stored.
	writeCtx := context.WithoutCancel(ctx)
	switch {
	case chainErr == nil:
		op.TxHash = hash
		tx, err := uc.confirm(writeCtx, op.ID, hash)
		if err != nil {
			slog.Error("chain call succeeded but confirming the operation failed",
				"operation_id", op.ID, "tx_hash", hash, "error", err)
			return nil, err
		}
		return tx, nil
	case isTimeout(chainErr), outcomeOpen(hash, chainErr):
		// The reservation stays until the reconciler learns what the chain did.
		if err := uc.markUnknown(writeCtx, op.ID, hash, chainErr); err != nil {
			slog.Error("failed to mark operation unknown", "operation_id", op.ID, "error", err)
		}
		return nil, domain.GatewayTimeout(chainErr)
	default:
		if _, err := uc.fail(writeCtx, op.ID, hash, chainErr.Error()); err != nil {
			slog.Error("failed to release reservation", "operation_id", op.ID, "error", err)
		}
		return nil, domain.GatewayFailure(chainErr)
	}
}

// begin persists the pending operation and, for debits of a known member,
// reserves the points.
func (uc *DefaultLedgerUsecase) begin(ctx context.Context, op *domain.ChainOperation) error {
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

	if op.PointsChanged < 0 && op.UserID != "" {
		if err := txRepo.ApplyBalanceDelta(op.UserID, op.LoyaltyProgramID, op.PointsChanged); err != nil {
			return err
		}
		op.ReservedPoints = -op.PointsChanged
	}
	if err := txRepo.CreateOperation(op); err != nil {
		return err
	}

	if err := txRepo.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	uc.Metrics.RecordOperationStatus(string(domain.ChainOpPending))
	return nil
}

func (uc *DefaultLedgerUsecase) callChain(ctx context.Context, op *domain.ChainOperation) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.ChainTimeout)
	defer cancel()

	var (
		hash string
		err  error
	)
	if op.PointsChanged > 0 {
		hash, err = uc.Chain.SubmitIssue(callCtx, op.ContractAddress, op.MemberWalletAddress, op.PointsChanged)
	} else {
		hash, err = uc.Chain.SubmitRedeem(callCtx, op.ContractAddress, op.MemberWalletAddress, -op.PointsChanged)
	}
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrChainTimeout) {
		err = fmt.Errorf("%w: %v", domain.ErrChainTimeout, err)
	}
	return hash, err
}

// replay answers a request whose idempotency key was seen before.
func (uc *DefaultLedgerUsecase) replay(ctx context.Context, existing, requested *domain.ChainOperation) (*domain.Transaction, error) {
	if existing.StoreID != requested.StoreID ||
		existing.LoyaltyProgramID != requested.LoyaltyProgramID ||
		existing.PointsChanged != requested.PointsChanged ||
		existing.Type != requested.Type ||
		existing.UserID != requested.UserID ||
		existing.PerkID != requested.PerkID ||
		existing.Notes != requested.Notes ||
		!strings.EqualFold(existing.MemberWalletAddress, requested.MemberWalletAddress) {
		return nil, domain.Conflictf("idempotency key %s was used for a different request", existing.IdempotencyKey)
	}

	switch existing.Status {
	case domain.ChainOpConfirmed:
		return uc.LedgerRepo.GetTransactionByID(ctx, existing.TransactionID)
	case domain.ChainOpFailed:
		return nil, domain.GatewayFailure(errors.New(existing.FailureReason))
	default:
		return nil, domain.ErrOperationInProgress
	}
}

// importTransaction records a chain transaction that was submitted elsewhere.
// The hash must already be confirmed on chain.
func (uc *DefaultLedgerUsecase) importTransaction(ctx context.Context, op *domain.ChainOperation) (*domain.Transaction, error) {
	if existing, err := uc.LedgerRepo.GetTransactionByHash(ctx, op.TxHash); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.ChainTimeout)
	status, err := uc.Chain.TxStatus(callCtx, op.TxHash)
	cancel()
	if err != nil {
		if isTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.GatewayTimeout(err)
		}
		return nil, domain.GatewayFailure(err)
	}
	if status != domain.ChainTxSucceeded {
		return nil, domain.GatewayFailure(fmt.Errorf("transaction %s is %s on chain", op.TxHash, status))
	}

	tx := op.Transaction(uuid.New().String(), uc.now())
	if err := uc.insertImported(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			return uc.LedgerRepo.GetTransactionByHash(ctx, op.TxHash)
		}
		return nil, err
	}

	uc.recorded(ctx, tx)
	return tx, nil
}

func (uc *DefaultLedgerUsecase) insertImported(ctx context.Context, tx *domain.Transaction) error {
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

	if err := txRepo.InsertTransaction(tx); err != nil {
		return err
	}
	if tx.UserID != "" {
		if err := txRepo.ApplyBalanceDelta(tx.UserID, tx.LoyaltyProgramID, tx.PointsChanged); err != nil {
			return err
		}
	}
	if err := txRepo.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

func chainMethod(op *domain.ChainOperation) string {
	if op.PointsChanged > 0 {
		return "issue"
	}
	return "redeem"
}

func isTimeout(err error) bool {
	return errors.Is(err, domain.ErrChainTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// outcomeOpen reports whether a failed submit may still land on chain: a
// transaction was signed and nothing proved it reverted.
func outcomeOpen(hash string, err error) bool {
	return hash != "" && !errors.Is(err, domain.ErrChainReverted)
}
