package storedto

type CreateStoreInput struct {
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Category             string `json:"category"`
	TokenContractAddress string `json:"token_contract_address"`
}
