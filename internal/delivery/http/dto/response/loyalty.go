package response

import (
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
)

type StoreResponse struct {
	ID                   string    `json:"id"`
	OwnerID              string    `json:"owner_id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Category             string    `json:"category"`
	TokenContractAddress string    `json:"token_contract_address"`
	DefaultProgramID     string    `json:"default_loyalty_program_id,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

func NewStoreResponse(s *domain.Store) StoreResponse {
	return StoreResponse{
		ID:                   s.ID,
		OwnerID:              s.OwnerID,
		Name:                 s.Name,
		Description:          s.Description,
		Category:             s.Category,
		TokenContractAddress: s.TokenContractAddress,
		CreatedAt:            s.CreatedAt,
	}
}

func NewStoreDetailsResponse(d *domain.StoreDetails) StoreResponse {
	resp := NewStoreResponse(&d.Store)
	resp.DefaultProgramID = d.DefaultProgramID
	return resp
}

func NewStoreList(stores []*domain.Store) []StoreResponse {
	out := make([]StoreResponse, len(stores))
	for i, s := range stores {
		out[i] = NewStoreResponse(s)
	}
	return out
}

type ProgramResponse struct {
	ID                   string    `json:"id"`
	StoreID              string    `json:"store_id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	PointsConversionRate float64   `json:"points_conversion_rate"`
	IsDefaultForStore    bool      `json:"is_default_for_store"`
	CreatedAt            time.Time `json:"created_at"`
}

func NewProgramResponse(p *domain.LoyaltyProgram) ProgramResponse {
	return ProgramResponse{
		ID:                   p.ID,
		StoreID:              p.StoreID,
		Name:                 p.Name,
		Description:          p.Description,
		PointsConversionRate: p.PointsConversionRate,
		IsDefaultForStore:    p.IsDefaultForStore,
		CreatedAt:            p.CreatedAt,
	}
}

func NewProgramList(programs []*domain.LoyaltyProgram) []ProgramResponse {
	out := make([]ProgramResponse, len(programs))
	for i, p := range programs {
		out[i] = NewProgramResponse(p)
	}
	return out
}

type MembershipResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	LoyaltyProgramID string    `json:"loyalty_program_id"`
	JoinDate         time.Time `json:"join_date"`
	PointsBalance    int64     `json:"points_balance"`
}

func NewMembershipResponse(m *domain.Membership) MembershipResponse {
	return MembershipResponse{
		ID:               m.ID,
		UserID:           m.UserID,
		LoyaltyProgramID: m.LoyaltyProgramID,
		JoinDate:         m.JoinDate,
		PointsBalance:    m.PointsBalance,
	}
}

type MemberResponse struct {
	UserID        string    `json:"user_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	JoinDate      time.Time `json:"join_date"`
	PointsBalance int64     `json:"points_balance"`
}

func NewMemberList(members []*domain.MemberSummary) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{
			UserID:        m.UserID,
			Username:      m.Username,
			Email:         m.Email,
			WalletAddress: m.WalletAddress,
			JoinDate:      m.JoinDate,
			PointsBalance: m.PointsBalance,
		}
	}
	return out
}

type MemberProgramResponse struct {
	MembershipID         string    `json:"membership_id"`
	StoreID              string    `json:"store_id"`
	StoreName            string    `json:"store_name"`
	StoreCategory        string    `json:"store_category"`
	StoreOwnerUsername   string    `json:"store_owner_username"`
	TokenContractAddress string    `json:"token_contract_address"`
	LoyaltyProgramID     string    `json:"loyalty_program_id"`
	ProgramName          string    `json:"program_name"`
	PointsConversionRate float64   `json:"points_conversion_rate"`
	JoinDate             time.Time `json:"join_date"`
	PointsBalance        int64     `json:"points_balance"`
}

func NewMemberProgramList(rows []*domain.MemberProgram) []MemberProgramResponse {
	out := make([]MemberProgramResponse, len(rows))
	for i, r := range rows {
		out[i] = MemberProgramResponse(*r)
	}
	return out
}

type PerkResponse struct {
	ID               string `json:"id"`
	LoyaltyProgramID string `json:"loyalty_program_id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	PointsRequired   int64  `json:"points_required"`
	IsActive         bool   `json:"is_active"`
}

func NewPerkResponse(p *domain.Perk) PerkResponse {
	return PerkResponse{
		ID:               p.ID,
		LoyaltyProgramID: p.LoyaltyProgramID,
		Name:             p.Name,
		Description:      p.Description,
		PointsRequired:   p.PointsRequired,
		IsActive:         p.IsActive,
	}
}

func NewPerkList(perks []*domain.Perk) []PerkResponse {
	out := make([]PerkResponse, len(perks))
	for i, p := range perks {
		out[i] = NewPerkResponse(p)
	}
	return out
}

type TransactionResponse struct {
	ID                  string    `json:"id"`
	StoreID             string    `json:"store_id"`
	LoyaltyProgramID    string    `json:"loyalty_program_id"`
	MemberWalletAddress string    `json:"member_wallet_address"`
	UserID              string    `json:"user_id,omitempty"`
	MemberUsername      string    `json:"member_username,omitempty"`
	PointsChanged       int64     `json:"points_changed"`
	TransactionType     string    `json:"transaction_type"`
	TransactionHash     string    `json:"transaction_hash"`
	PerkID              string    `json:"perk_id,omitempty"`
	PerkName            string    `json:"perk_name,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

func NewTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                  tx.ID,
		StoreID:             tx.StoreID,
		LoyaltyProgramID:    tx.LoyaltyProgramID,
		MemberWalletAddress: tx.MemberWalletAddress,
		UserID:              tx.UserID,
		PointsChanged:       tx.PointsChanged,
		TransactionType:     string(tx.Type),
		TransactionHash:     tx.TransactionHash,
		PerkID:              tx.PerkID,
		Notes:               tx.Notes,
		CreatedAt:           tx.CreatedAt,
	}
}

func NewTransactionList(views []*domain.TransactionView) []TransactionResponse {
	out := make([]TransactionResponse, len(views))
	for i, v := range views {
		resp := NewTransactionResponse(&v.Transaction)
		resp.MemberUsername = v.MemberUsername
		resp.PerkName = v.PerkName
		out[i] = resp
	}
	return out
}
