package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hashperks/loyalty-service/internal/domain"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/mappers"
	"github.com/hashperks/loyalty-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultMembershipRepository struct {
	DB *gorm.DB
}

func NewDefaultMembershipRepository(db *gorm.DB) *DefaultMembershipRepository {
	return &DefaultMembershipRepository{
		DB: db,
	}
}

func (r *DefaultMembershipRepository) CreateMembership(ctx context.Context, membership *domain.Membership) error {
	if err := r.DB.WithContext(ctx).Create(mappers.ToGORMMembership(membership)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyJoined
		}
		if isForeignKeyViolation(err) {
			return domain.NotFoundf("loyalty program %s not found", membership.LoyaltyProgramID)
		}
		return fmt.Errorf("create membership: %w", err)
	}
	return nil
}

func (r *DefaultMembershipRepository) GetMembership(ctx context.Context, userID, programID string) (*domain.Membership, error) {
	var model models.MembershipModel
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND loyalty_program_id = ?", userID, programID).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrMembershipRequired
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return mappers.ToDomainMembership(&model), nil
}

type memberRow struct {
	UserID        string
	Username      string
	Email         string
	WalletAddress string
	JoinDate      time.Time
	PointsBalance int64
}

func (r *DefaultMembershipRepository) ListMembers(ctx context.Context, programID string) ([]*domain.MemberSummary, error) {
	var rows []memberRow
	err := r.DB.WithContext(ctx).
		Table("memberships AS m").
		Select("u.id AS user_id, u.username, u.email, u.wallet_address, m.join_date, m.points_balance").
		Joins("JOIN users AS u ON u.id = m.user_id").
		Where("m.loyalty_program_id = ?", programID).
		Order("u.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]*domain.MemberSummary, len(rows))
	for i, row := range rows {
		members[i] = &domain.MemberSummary{
			UserID:        row.UserID,
			Username:      row.Username,
			Email:         row.Email,
			WalletAddress: row.WalletAddress,
			JoinDate:      row.JoinDate,
			PointsBalance: row.PointsBalance,
		}
	}
	return members, nil
}

type memberProgramRow struct {
	MembershipID         string
	StoreID              string
	StoreName            string
	StoreCategory        string
	StoreOwnerUsername   string
	TokenContractAddress string
	LoyaltyProgramID     string
	ProgramName          string
	PointsConversionRate float64
	JoinDate             time.Time
	PointsBalance        int64
}

func (r *DefaultMembershipRepository) ListProgramsForUser(ctx context.Context, userID string) ([]*domain.MemberProgram, error) {
	var rows []memberProgramRow
	err := r.DB.WithContext(ctx).
		Table("memberships AS m").
		Select(`m.id AS membership_id, s.id AS store_id, s.name AS store_name, s.category AS store_category,
			COALESCE(o.username, '') AS store_owner_username, s.token_contract_address,
			p.id AS loyalty_program_id, p.name AS program_name, p.points_conversion_rate,
			m.join_date, m.points_balance`).
		Joins("JOIN loyalty_programs AS p ON p.id = m.loyalty_program_id").
		Joins("JOIN stores AS s ON s.id = p.store_id").
		Joins("LEFT JOIN users AS o ON o.id = s.owner_id").
		Where("m.user_id = ?", userID).
		Order("s.name ASC").
		Order("p.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list programs for user: %w", err)
	}

	programs := make([]*domain.MemberProgram, len(rows))
	for i, row := range rows {
		programs[i] = &domain.MemberProgram{
			MembershipID:         row.MembershipID,
			StoreID:              row.StoreID,
			StoreName:            row.StoreName,
			StoreCategory:        row.StoreCategory,
			StoreOwnerUsername:   row.StoreOwnerUsername,
			TokenContractAddress: row.TokenContractAddress,
			LoyaltyProgramID:     row.LoyaltyProgramID,
			ProgramName:          row.ProgramName,
			PointsConversionRate: row.PointsConversionRate,
			JoinDate:             row.JoinDate,
			PointsBalance:        row.PointsBalance,
		}
	}
	return programs, nil
}
