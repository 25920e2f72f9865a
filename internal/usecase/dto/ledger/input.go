package ledgerdto

// RecordInput describes one point movement. ExternalTxHash imports a chain
// transaction that already happened instead of submitting a new one.
type RecordInput struct {
	StoreID             string `json:"store_id"`
	LoyaltyProgramID    string `json:"loyalty_program_id"`
	MemberWalletAddress string `json:"member_wallet_address"`
	UserID              string `json:"user_id"`
	PointsChanged       int64  `json:"points_changed"`
	TransactionType     string `json:"transaction_type"`
	PerkID              string `json:"perk_id"`
	Notes               string `json:"notes"`
	IdempotencyKey      string `json:"-"`
	ExternalTxHash      string `json:"transaction_hash"`
}
