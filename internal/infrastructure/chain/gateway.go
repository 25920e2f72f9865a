package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/hashperks/loyalty-service/internal/domain"
)

// EVMClient is the subset of the Ethereum RPC the gateway uses.
type EVMClient interface {
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type Config struct {
	ChainID       int64
	PrivateKey    string
	TokenDecimals uint8
	PollInterval  time.Duration
}

// EthereumGateway signs token mint and burn calls with one operator key.
type EthereumGateway struct {
	client       EVMClient
	abi          abi.ABI
	chainID      *big.Int
	key          *ecdsa.PrivateKey
	from         common.Address
	units        units
	pollInterval time.Duration

	// nonce assignment for the single signer
	mu        sync.Mutex
	nextNonce *uint64
}

func DialEthereumGateway(endpoint string, cfg Config) (*EthereumGateway, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, fmt.Errorf("evm endpoint required")
	}
	client, err := ethclient.Dial(trimmed)
	if err != nil {
		return nil, fmt.Errorf("dial evm endpoint: %w", err)
	}
	return NewEthereumGateway(client, cfg)
}

func NewEthereumGateway(client EVMClient, cfg Config) (*EthereumGateway, error) {
	if client == nil {
		return nil, fmt.Errorf("evm client required")
	}
	if cfg.ChainID <= 0 {
		return nil, fmt.Errorf("chain id must be positive")
	}
	key, err := gethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(cfg.PrivateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse operator key: %w", err)
	}
	parsed, err := parseTokenABI()
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	return &EthereumGateway{
		client:       client,
		abi:          parsed,
		chainID:      big.NewInt(cfg.ChainID),
		key:          key,
		from:         gethcrypto.PubkeyToAddress(key.PublicKey),
		units:        newUnits(cfg.TokenDecimals),
		pollInterval: poll,
	}, nil
}

func (g *EthereumGateway) SubmitIssue(ctx context.Context, contract, holder string, amount int64) (string, error) {
	return g.submit(ctx, "issuePoints", contract, holder, amount)
}

func (g *EthereumGateway) SubmitRedeem(ctx context.Context, contract, holder string, amount int64) (string, error) {
	return g.submit(ctx, "redeemPoints", contract, holder, amount)
}

func (g *EthereumGateway) BalanceOf(ctx context.Context, contract, holder string) (int64, error) {
	contractAddr, holderAddr, err := parseAddresses(contract, holder)
	if err != nil {
		return 0, err
	}
	data, err := g.abi.Pack("balanceOf", holderAddr)
	if err != nil {
		return 0, fmt.Errorf("pack balanceOf: %w", err)
	}
	out, err := g.client.CallContract(ctx, ethereum.CallMsg{To: &contractAddr, Data: data}, nil)
	if err != nil {
		return 0, fmt.Errorf("call balanceOf: %w", err)
	}
	values, err := g.abi.Unpack("balanceOf", out)
	if err != nil {
		return 0, fmt.Errorf("unpack balanceOf: %w", err)
	}
	if len(values) != 1 {
		return 0, fmt.Errorf("balanceOf returned %d values", len(values))
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("balanceOf returned %T", values[0])
	}
	return g.units.toPoints(balance), nil
}

func (g *EthereumGateway) TxStatus(ctx context.Context, txHash string) (domain.ChainTxStatus, error) {
	if !domain.IsTxHash(txHash) {
		return "", fmt.Errorf("invalid transaction hash %q", txHash)
	}
	receipt, err := g.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return domain.ChainTxNotFound, nil
		}
		return "", fmt.Errorf("fetch receipt: %w", err)
	}
	if receipt == nil {
		return domain.ChainTxPending, nil
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return domain.ChainTxFailed, nil
	}
	return domain.ChainTxSucceeded, nil
}

func (g *EthereumGateway) submit(ctx context.Context, method, contract, holder string, amount int64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("amount must be positive")
	}
	contractAddr, holderAddr, err := parseAddresses(contract, holder)
	if err != nil {
		return "", err
	}
	data, err := g.abi.Pack(method, holderAddr, g.units.toBase(amount))
	if err != nil {
		return "", fmt.Errorf("pack %s: %w", method, err)
	}

	signed, err := g.signAndSend(ctx, contractAddr, data)
	if err != nil {
		if signed == nil {
			return "", fmt.Errorf("send %s: %w", method, err)
		}
		// the node may have accepted the transaction before the error surfaced
		if isDeadline(ctx, err) {
			return signed.Hash().Hex(), fmt.Errorf("%w: send %s: %v", domain.ErrChainTimeout, method, err)
		}
		return signed.Hash().Hex(), fmt.Errorf("send %s: %w", method, err)
	}
	hash := signed.Hash().Hex()

	receipt, err := g.waitMined(ctx, signed.Hash())
	if err != nil {
		return hash, fmt.Errorf("%w: %s not mined: %v", domain.ErrChainTimeout, hash, err)
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		return hash, fmt.Errorf("%w: %s", domain.ErrChainReverted, hash)
	}
	return hash, nil
}

// signAndSend returns the signed transaction even when sending fails, so callers
// can still track a transaction that may have reached the network.
func (g *EthereumGateway) signAndSend(ctx context.Context, to common.Address, data []byte) (*gethtypes.Transaction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	nonce, err := g.nonce(ctx)
	if err != nil {
		return nil, err
	}
	tip, err := g.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas tip: %w", err)
	}
	head, err := g.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch head: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head != nil && head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}
	gas, err := g.client.EstimateGas(ctx, ethereum.CallMsg{From: g.from, To: &to, Data: data})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	tx := gethtypes.NewTx(&gethtypes.DynamicFeeTx{
		ChainID:   g.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas * 12 / 10,
		To:        &to,
		Data:      data,
	})
	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(g.chainID), g.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if err := g.client.SendTransaction(ctx, signed); err != nil {
		g.nextNonce = nil
		return signed, err
	}
	next := nonce + 1
	g.nextNonce = &next
	return signed, nil
}

func (g *EthereumGateway) nonce(ctx context.Context) (uint64, error) {
	if g.nextNonce != nil {
		return *g.nextNonce, nil
	}
	nonce, err := g.client.PendingNonceAt(ctx, g.from)
	if err != nil {
		return 0, fmt.Errorf("fetch nonce: %w", err)
	}
	return nonce, nil
}

// waitMined polls for the receipt until ctx ends. RPC errors are retried; the
// last one is reported with the context error.
func (g *EthereumGateway) waitMined(ctx context.Context, hash common.Hash) (*gethtypes.Receipt, error) {
	ticker := time.NewTicker(g.pollInterval)
	defer ticker.Stop()
	var lastErr error
	for {
		receipt, err := g.client.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && receipt != nil:
			return receipt, nil
		case err != nil && !errors.Is(err, ethereum.NotFound):
			lastErr = err
			slog.Warn("receipt fetch failed, retrying", "tx_hash", hash.Hex(), "error", err)
		}
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("%w (last receipt error: %v)", ctx.Err(), lastErr)
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func parseAddresses(contract, holder string) (common.Address, common.Address, error) {
	if !common.IsHexAddress(contract) {
		return common.Address{}, common.Address{}, fmt.Errorf("invalid contract address %q", contract)
	}
	if !common.IsHexAddress(holder) {
		return common.Address{}, common.Address{}, fmt.Errorf("invalid holder address %q", holder)
	}
	return common.HexToAddress(contract), common.HexToAddress(holder), nil
}

func isDeadline(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}
