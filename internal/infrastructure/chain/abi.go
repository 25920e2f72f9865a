package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// loyaltyTokenABI covers the calls the service makes on a store's token contract.
const loyaltyTokenABI = `[
	{"type":"function","name":"issuePoints","stateMutability":"nonpayable",
	 "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"redeemPoints","stateMutability":"nonpayable",
	 "inputs":[{"name":"from","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]}
]`

func parseTokenABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(loyaltyTokenABI))
}

// units converts between whole points and the token's base units.
type units struct {
	scale *big.Int
}

func newUnits(decimals uint8) units {
	return units{scale: new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)}
}

func (u units) toBase(points int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(points), u.scale)
}

// toPoints truncates fractional points.
func (u units) toPoints(base *big.Int) int64 {
	return new(big.Int).Quo(base, u.scale).Int64()
}
