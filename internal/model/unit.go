package model

import "time"

// MarketVelocity is the qualitative leasing speed of a submarket.
type MarketVelocity string

const (
	VelocityHot    MarketVelocity = "hot"
	VelocityNormal MarketVelocity = "normal"
	VelocitySlow   MarketVelocity = "slow"
	VelocityStale  MarketVelocity = "stale"
)

// ConcessionUrgency describes how hard competing concessions are pushing.
type ConcessionUrgency string

const (
	ConcessionUrgencyNone       ConcessionUrgency = "none"
	ConcessionUrgencyStandard   ConcessionUrgency = "standard"
	ConcessionUrgencyAggressive ConcessionUrgency = "aggressive"
	ConcessionUrgencyDesperate  ConcessionUrgency = "desperate"
)

// RentTrend is the direction of recent submarket rents.
type RentTrend string

const (
	TrendIncreasing RentTrend = "increasing"
	TrendStable     RentTrend = "stable"
	TrendDecreasing RentTrend = "decreasing"
)

// MarketPosition places a unit's rent relative to comparable units.
type MarketPosition string

const (
	PositionBelowMarket MarketPosition = "below_market"
	PositionAtMarket    MarketPosition = "at_market"
	PositionAboveMarket MarketPosition = "above_market"
)

// UnitMarketState is the pricing recommender's view of one portfolio unit.
// Quality, negotiation, urgency and confidence scores are 0-100; LeaseProbability is 0-1.
type UnitMarketState struct {
	UnitID       string `json:"unit_id" mapstructure:"unit_id"`
	PropertyName string `json:"property_name,omitempty" mapstructure:"property_name"`

	CurrentRent   float64 `json:"current_rent" mapstructure:"current_rent"`
	OriginalRent  float64 `json:"original_rent,omitempty" mapstructure:"original_rent"`
	EffectiveRent float64 `json:"effective_rent,omitempty" mapstructure:"effective_rent"`
	RentPerSqft   float64 `json:"rent_per_sqft,omitempty" mapstructure:"rent_per_sqft"`

	DaysOnMarket int            `json:"days_on_market" mapstructure:"days_on_market"`
	Velocity     MarketVelocity `json:"market_velocity" mapstructure:"market_velocity"`

	ConcessionValue   float64           `json:"concession_value,omitempty" mapstructure:"concession_value"`
	ConcessionType    string            `json:"concession_type,omitempty" mapstructure:"concession_type"`
	ConcessionUrgency ConcessionUrgency `json:"concession_urgency,omitempty" mapstructure:"concession_urgency"`

	RentTrend        RentTrend      `json:"rent_trend,omitempty" mapstructure:"rent_trend"`
	RentTrendPct     float64        `json:"rent_trend_pct,omitempty" mapstructure:"rent_trend_pct"`
	MarketPosition   MarketPosition `json:"market_position,omitempty" mapstructure:"market_position"`
	MarketPercentile float64        `json:"market_percentile,omitempty" mapstructure:"market_percentile"`

	AmenityScore    float64 `json:"amenity_score,omitempty" mapstructure:"amenity_score"`
	LocationScore   float64 `json:"location_score,omitempty" mapstructure:"location_score"`
	ManagementScore float64 `json:"management_score,omitempty" mapstructure:"management_score"`

	LeaseProbability     float64 `json:"lease_probability" mapstructure:"lease_probability"`
	NegotiationPotential float64 `json:"negotiation_potential,omitempty" mapstructure:"negotiation_potential"`
	UrgencyScore         float64 `json:"urgency_score,omitempty" mapstructure:"urgency_score"`
	ConfidenceScore      float64 `json:"confidence_score,omitempty" mapstructure:"confidence_score"`

	UpdatedAt time.Time `json:"updated_at,omitempty" mapstructure:"updated_at"`
}

// BaseRent returns the rent a recommendation is computed against: current,
// then effective, then original.
func (u UnitMarketState) BaseRent() float64 {
	for _, rent := range []float64{u.CurrentRent, u.EffectiveRent, u.OriginalRent} {
		if rent > 0 {
			return rent
		}
	}
	return 0
}
