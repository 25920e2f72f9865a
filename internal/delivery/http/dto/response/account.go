package response

import (
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
)

type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Role          string    `json:"role"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Username:      u.Username,
		Role:          string(u.Role),
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
	}
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type TokenBalanceResponse struct {
	UserID          string `json:"user_id"`
	WalletAddress   string `json:"wallet_address"`
	ContractAddress string `json:"contract_address"`
	Balance         int64  `json:"balance"`
}

func NewTokenBalanceResponse(b *domain.TokenBalance) TokenBalanceResponse {
	return TokenBalanceResponse{
		UserID:          b.UserID,
		WalletAddress:   b.WalletAddress,
		ContractAddress: b.ContractAddress,
		Balance:         b.Balance,
	}
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	ErrorID string `json:"error_id,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
