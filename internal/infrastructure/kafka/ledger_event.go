package publisher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
)

// LedgerEvent is emitted once per recorded transaction, keyed by store.
type LedgerEvent struct {
	TransactionID    string    `json:"transaction_id"`
	StoreID          string    `json:"store_id"`
	LoyaltyProgramID string    `json:"loyalty_program_id"`
	UserID           string    `json:"user_id,omitempty"`
	WalletAddress    string    `json:"member_wallet_address"`
	Type             string    `json:"transaction_type"`
	PointsChanged    int64     `json:"points_changed"`
	TransactionHash  string    `json:"transaction_hash"`
	PerkID           string    `json:"perk_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewLedgerEvent(tx *domain.Transaction) LedgerEvent {
	return LedgerEvent{
		TransactionID:    tx.ID,
		StoreID:          tx.StoreID,
		LoyaltyProgramID: tx.LoyaltyProgramID,
		UserID:           tx.UserID,
		WalletAddress:    tx.MemberWalletAddress,
		Type:             string(tx.Type),
		PointsChanged:    tx.PointsChanged,
		TransactionHash:  tx.TransactionHash,
		PerkID:           tx.PerkID,
		CreatedAt:        tx.CreatedAt,
	}
}

type LedgerEventPublisher struct {
	port  domain.PublisherPort
	topic string
}

func NewLedgerEventPublisher(port domain.PublisherPort, topic string) *LedgerEventPublisher {
	return &LedgerEventPublisher{port: port, topic: topic}
}

func (p *LedgerEventPublisher) PublishTransaction(tx *domain.Transaction) error {
	v, err := json.Marshal(NewLedgerEvent(tx))
	if err != nil {
		return fmt.Errorf("marshal ledger event: %w", err)
	}
	return p.port.Publish(p.topic, domain.Message{Key: []byte(tx.StoreID), Value: v})
}
