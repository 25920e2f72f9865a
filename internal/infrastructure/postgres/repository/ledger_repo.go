package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/mappers"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultLedgerRepository struct {
	DB *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{
		DB: db,
	}
}

func (r *DefaultLedgerRepository) BeginTx(ctx context.Context) (domain.LedgerTxRepository, error) {
	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin ledger tx: %w", tx.Error)
	}
	return &ledgerTx{tx: tx}, nil
}

func (r *DefaultLedgerRepository) GetOperationByIdempotencyKey(ctx context.Context, key string) (*domain.ChainOperation, error) {
	var model models.ChainOperationModel
	if err := r.DB.WithContext(ctx).First(&model, "idempotency_key = ?", key).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("operation %s not found", key)
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return mappers.ToDomainChainOperation(&model), nil
}

func (r *DefaultLedgerRepository) ListOperationsToReconcile(ctx context.Context, cutoff time.Time, limit int) ([]*domain.ChainOperation, error) {
	var opModels []*models.ChainOperationModel
	err := r.DB.WithContext(ctx).
		Where("status = ? OR (status = ? AND updated_at < ?)", domain.ChainOpUnknown, domain.ChainOpPending, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&opModels).Error
	if err != nil {
		return nil, fmt.Errorf("list operations to reconcile: %w", err)
	}
	ops := make([]*domain.ChainOperation, len(opModels))
	for i, m := range opModels {
		ops[i] = mappers.ToDomainChainOperation(m)
	}
	return ops, nil
}

func (r *DefaultLedgerRepository) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("transaction %s not found", id)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultLedgerRepository) GetTransactionByHash(ctx context.Context, hash string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.DB.WithContext(ctx).First(&model, "transaction_hash = ?", hash).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("transaction with hash %s not found", hash)
		}
		return nil, fmt.Errorf("get transaction by hash: %w", err)
	}
	return mappers.ToDomainTransaction(&model), nil
}

type transactionRow struct {
	models.TransactionModel
	MemberUsername string
	PerkName       string
}

func (r *DefaultLedgerRepository) transactionViews(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("transactions AS t").
		Select("t.*, COALESCE(u.username, '') AS member_username, COALESCE(p.name, '') AS perk_name").
		Joins("LEFT JOIN users AS u ON u.id = t.user_id").
		Joins("LEFT JOIN perks AS p ON p.id = t.perk_id")
}

func toViews(rows []transactionRow) []*domain.TransactionView {
	views := make([]*domain.TransactionView, len(rows))
	for i := range rows {
		views[i] = &domain.TransactionView{
			Transaction:    *mappers.ToDomainTransaction(&rows[i].TransactionModel),
			MemberUsername: rows[i].MemberUsername,
			PerkName:       rows[i].PerkName,
		}
	}
	return views
}

func (r *DefaultLedgerRepository) ListTransactionsByStore(ctx context.Context, storeID string) ([]*domain.TransactionView, error) {
	var rows []transactionRow
	err := r.transactionViews(ctx).
		Where("t.store_id = ?", storeID).
		Order("t.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list store transactions: %w", err)
	}
	return toViews(rows), nil
}

func (r *DefaultLedgerRepository) ListTransactionsForMember(ctx context.Context, userID, programID string) ([]*domain.TransactionView, error) {
	var rows []transactionRow
	err := r.transactionViews(ctx).
		Where("t.user_id = ? AND t.loyalty_program_id = ?", userID, programID).
		Order("t.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list member transactions: %w", err)
	}
	return toViews(rows), nil
}

type ledgerTx struct {
	tx *gorm.DB
}

func (t *ledgerTx) CreateOperation(op *domain.ChainOperation) error {
	if err := t.tx.Create(mappers.ToGORMChainOperation(op)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOperationInProgress
		}
		return fmt.Errorf("create chain operation: %w", err)
	}
	return nil
}

func (t *ledgerTx) LockOperation(id string) (*domain.ChainOperation, error) {
	var model models.ChainOperationModel
	if err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&model, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundf("operation %s not found", id)
		}
		return nil, fmt.Errorf("lock chain operation: %w", err)
	}
	return mappers.ToDomainChainOperation(&model), nil
}

func (t *ledgerTx) SaveOperation(op *domain.ChainOperation) error {
	op.UpdatedAt = time.Now()
	if err := t.tx.Save(mappers.ToGORMChainOperation(op)).Error; err != nil {
		return fmt.Errorf("save chain operation: %w", err)
	}
	return nil
}

func (t *ledgerTx) InsertTransaction(tx *domain.Transaction) error {
	if err := t.tx.Create(mappers.ToGORMTransaction(tx)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (t *ledgerTx) ApplyBalanceDelta(userID, programID string, delta int64) error {
	query := t.tx.Model(&models.MembershipModel{}).
		Where("user_id = ? AND loyalty_program_id = ?", userID, programID)
	if delta < 0 {
		query = query.Where("points_balance + ? >= 0", delta)
	}

	res := query.UpdateColumn("points_balance", gorm.Expr("points_balance + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("apply balance delta: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if delta < 0 {
			return domain.ErrInsufficientBalance
		}
		return domain.ErrMembershipRequired
	}
	return nil
}

func (t *ledgerTx) Commit() error {
	return t.tx.Commit().Error
}

func (t *ledgerTx) Rollback() error {
	return t.tx.Rollback().Error
}
