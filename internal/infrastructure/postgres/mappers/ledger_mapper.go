package mappers

import (
	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
)

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:                  tx.ID,
		StoreID:             tx.StoreID,
		LoyaltyProgramID:    tx.LoyaltyProgramID,
		MemberWalletAddress: tx.MemberWalletAddress,
		UserID:              nullable(tx.UserID),
		PointsChanged:       tx.PointsChanged,
		TransactionType:     string(tx.Type),
		TransactionHash:     tx.TransactionHash,
		PerkID:              nullable(tx.PerkID),
		Notes:               tx.Notes,
		CreatedAt:           tx.CreatedAt,
	}
}

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:                  model.ID,
		StoreID:             model.StoreID,
		LoyaltyProgramID:    model.LoyaltyProgramID,
		MemberWalletAddress: model.MemberWalletAddress,
		UserID:              deref(model.UserID),
		PointsChanged:       model.PointsChanged,
		Type:                domain.TransactionType(model.TransactionType),
		TransactionHash:     model.TransactionHash,
		PerkID:              deref(model.PerkID),
		Notes:               model.Notes,
		CreatedAt:           model.CreatedAt,
	}
}

func ToGORMChainOperation(op *domain.ChainOperation) *models.ChainOperationModel {
	return &models.ChainOperationModel{
		ID:                  op.ID,
		IdempotencyKey:      op.IdempotencyKey,
		StoreID:             op.StoreID,
		LoyaltyProgramID:    op.LoyaltyProgramID,
		ContractAddress:     op.ContractAddress,
		MemberWalletAddress: op.MemberWalletAddress,
		UserID:              nullable(op.UserID),
		PointsChanged:       op.PointsChanged,
		ReservedPoints:      op.ReservedPoints,
		TransactionType:     string(op.Type),
		PerkID:              nullable(op.PerkID),
		Notes:               op.Notes,
		Status:              string(op.Status),
		TxHash:              op.TxHash,
		FailureReason:       op.FailureReason,
		TransactionID:       nullable(op.TransactionID),
		CreatedAt:           op.CreatedAt,
		UpdatedAt:           op.UpdatedAt,
	}
}

func ToDomainChainOperation(model *models.ChainOperationModel) *domain.ChainOperation {
	return &domain.ChainOperation{
		ID:                  model.ID,
		IdempotencyKey:      model.IdempotencyKey,
		StoreID:             model.StoreID,
		LoyaltyProgramID:    model.LoyaltyProgramID,
		ContractAddress:     model.ContractAddress,
		MemberWalletAddress: model.MemberWalletAddress,
		UserID:              deref(model.UserID),
		PointsChanged:       model.PointsChanged,
		ReservedPoints:      model.ReservedPoints,
		Type:                domain.TransactionType(model.TransactionType),
		PerkID:              deref(model.PerkID),
		Notes:               model.Notes,
		Status:              domain.ChainOpStatus(model.Status),
		TxHash:              model.TxHash,
		FailureReason:       model.FailureReason,
		TransactionID:       deref(model.TransactionID),
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}
