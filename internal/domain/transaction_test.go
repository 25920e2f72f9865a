package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseTransactionType(t *testing.T) {
	tt, err := ParseTransactionType("redeem_perk")
	assert.NoError(t, err)
	assert.True(t, tt.IsRedemption())

	_, err = ParseTransactionType("refund")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCheckPointsSignRules(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.Int64Range(-1_000_000, 1_000_000).Draw(t, "points")
		tt := TransactionType(rapid.SampledFrom([]string{
			"earn", "redeem_perk", "redeem_general", "admin_adjustment",
		}).Draw(t, "type"))

		err := tt.CheckPoints(points)

		var want bool
		switch tt {
		case TransactionEarn:
			want = points > 0
		case TransactionRedeemPerk, TransactionRedeemGeneral:
			want = points < 0
		case TransactionAdminAdjustment:
			want = points != 0
		}
		if want && err != nil {
			t.Fatalf("%s with %d rejected: %v", tt, points, err)
		}
		if !want && !errors.Is(err, ErrValidation) {
			t.Fatalf("%s with %d accepted", tt, points)
		}
	})
}

func TestChainOperationTransaction(t *testing.T) {
	op := &ChainOperation{
		StoreID:             "store",
		LoyaltyProgramID:    "program",
		MemberWalletAddress: "0xabc",
		UserID:              "user",
		PointsChanged:       -20,
		Type:                TransactionRedeemPerk,
		PerkID:              "perk",
		TxHash:              "0xhash",
	}

	tx := op.Transaction("tx-1", op.CreatedAt)

	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, int64(-20), tx.PointsChanged)
	assert.Equal(t, "0xhash", tx.TransactionHash)
	assert.Equal(t, "perk", tx.PerkID)
	assert.True(t, ChainOpConfirmed.Settled())
	assert.False(t, ChainOpUnknown.Settled())
}

func TestIsTxHash(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0x" + strings.Repeat("ab", 32), true},
		{"0x" + strings.Repeat("AB", 32), true},
		{strings.Repeat("ab", 32), false},
		{"0x" + strings.Repeat("ab", 31), false},
		{"0x" + strings.Repeat("zz", 32), false},
		{"0x", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTxHash(tt.in), tt.in)
	}
}
