package perkdto

type CreatePerkInput struct {
	LoyaltyProgramID string `json:"-"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	PointsRequired   int64  `json:"points_required"`
}
