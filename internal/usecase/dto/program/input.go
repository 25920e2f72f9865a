package programdto

type CreateProgramInput struct {
	StoreID              string   `json:"-"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	PointsConversionRate *float64 `json:"points_conversion_rate"` // nil means domain.DefaultConversionRate
}
