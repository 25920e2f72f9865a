package ledger

import (
	"context"
	"strings"

	"github.com/hashperks/loyalty-service/internal/domain"
)

func (uc *DefaultLedgerUsecase) ListForStore(ctx context.Context, p domain.Principal, storeID string) ([]*domain.TransactionView, error) {
	store, err := uc.StoreRepo.GetStoreByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if err := uc.Guard.RequireOwnership(p, store.OwnerID); err != nil {
		return nil, err
	}
	return uc.LedgerRepo.ListTransactionsByStore(ctx, store.ID)
}

// ListForMember returns the caller's own transactions in one program.
func (uc *DefaultLedgerUsecase) ListForMember(ctx context.Context, p domain.Principal, programID string) ([]*domain.TransactionView, error) {
	if p.UserID == "" {
		return nil, domain.ErrAuthMissing
	}
	if _, err := uc.ProgramRepo.GetProgramByID(ctx, programID); err != nil {
		return nil, err
	}
	return uc.LedgerRepo.ListTransactionsForMember(ctx, p.UserID, programID)
}

// TokenBalance reads the on-chain balance of a user's wallet on the platform contract.
func (uc *DefaultLedgerUsecase) TokenBalance(ctx context.Context, p domain.Principal, userID string) (*domain.TokenBalance, error) {
	if !p.Is(userID) && !p.IsAdmin() {
		return nil, domain.Forbiddenf("token balances are visible to their owner only")
	}
	if uc.Chain == nil || uc.cfg.PlatformContract == "" {
		return nil, domain.ErrChainGatewayDisabled
	}
	user, err := uc.UserRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(user.WalletAddress) == "" {
		return nil, domain.Validationf("user %s has no wallet address", user.ID)
	}

	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.ChainTimeout)
	defer cancel()
	balance, err := uc.Chain.BalanceOf(callCtx, uc.cfg.PlatformContract, user.WalletAddress)
	if err != nil {
		if isTimeout(err) {
			return nil, domain.GatewayTimeout(err)
		}
		return nil, domain.GatewayFailure(err)
	}
	return &domain.TokenBalance{
		UserID:          user.ID,
		WalletAddress:   user.WalletAddress,
		ContractAddress: uc.cfg.PlatformContract,
		Balance:         balance,
	}, nil
}
