package domain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type ChainTxStatus string

const (
	ChainTxPending   ChainTxStatus = "pending"
	ChainTxSucceeded ChainTxStatus = "succeeded"
	ChainTxFailed    ChainTxStatus = "failed"
	ChainTxNotFound  ChainTxStatus = "not_found"
)

// ChainGateway mirrors point movements as token mints and burns on an external ledger.
//
// Submit calls that were broadcast but not confirmed in time return the hash together
// with an error wrapping ErrChainTimeout. A mined transaction that reverted returns
// its hash with an error wrapping ErrChainReverted. Any other error that comes with a
// hash leaves the outcome open: the transaction may still be mined.
type ChainGateway interface {
	SubmitIssue(ctx context.Context, contract, holder string, amount int64) (string, error)
	SubmitRedeem(ctx context.Context, contract, holder string, amount int64) (string, error)
	BalanceOf(ctx context.Context, contract, holder string) (int64, error)
	TxStatus(ctx context.Context, txHash string) (ChainTxStatus, error)
}

// IsTxHash reports whether s is a 0x-prefixed 32-byte transaction hash.
func IsTxHash(s string) bool {
	b, err := hexutil.Decode(s)
	return err == nil && len(b) == common.HashLength
}
