package accountdto

type RegisterInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	WalletAddress string `json:"wallet_address"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
