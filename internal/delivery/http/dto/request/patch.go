package request

import "github.com/hashperks/loyalty-service/internal/domain"

// Absent JSON fields stay nil and are left unchanged.

type UpdateAccountRequest struct {
	Name          *string `json:"name"`
	WalletAddress *string `json:"wallet_address"`
}

func (r UpdateAccountRequest) Patch() domain.UserPatch {
	return domain.UserPatch{Name: r.Name, WalletAddress: r.WalletAddress}
}

type UpdateStoreRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

func (r UpdateStoreRequest) Patch() domain.StorePatch {
	return domain.StorePatch{Name: r.Name, Description: r.Description, Category: r.Category}
}

type UpdateProgramRequest struct {
	Name                 *string  `json:"name"`
	Description          *string  `json:"description"`
	PointsConversionRate *float64 `json:"points_conversion_rate"`
}

func (r UpdateProgramRequest) Patch() domain.ProgramPatch {
	return domain.ProgramPatch{
		Name:                 r.Name,
		Description:          r.Description,
		PointsConversionRate: r.PointsConversionRate,
	}
}

type UpdatePerkRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	PointsRequired *int64  `json:"points_required"`
	IsActive       *bool   `json:"is_active"`
}

func (r UpdatePerkRequest) Patch() domain.PerkPatch {
	return domain.PerkPatch{
		Name:           r.Name,
		Description:    r.Description,
		PointsRequired: r.PointsRequired,
		IsActive:       r.IsActive,
	}
}
