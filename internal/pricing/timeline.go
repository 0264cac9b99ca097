package pricing

import (
	"math"

	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/mathutil"
)

// LeaseTimeline projects how quickly a unit leases at its current rent versus
// the suggested rent. Week probabilities are cumulative and reach the unit's
// lease probability at week 8.
type LeaseTimeline struct {
	CurrentTrajectoryDays   int     `json:"current_trajectory_days"`
	SuggestedTrajectoryDays int     `json:"suggested_trajectory_days"`
	AccelerationFactor      float64 `json:"acceleration_factor"`
	Week1Probability        float64 `json:"week1_probability"`
	Week2Probability        float64 `json:"week2_probability"`
	Week4Probability        float64 `json:"week4_probability"`
	Week8Probability        float64 `json:"week8_probability"`
}

var velocityBaseDays = map[model.MarketVelocity]float64{
	model.VelocityHot:    14,
	model.VelocityNormal: 30,
	model.VelocitySlow:   45,
	model.VelocityStale:  60,
}

func currentTrajectoryDays(unit model.UnitMarketState) int {
	base, ok := velocityBaseDays[unit.Velocity]
	if !ok {
		base = velocityBaseDays[model.VelocityNormal]
	}
	switch unit.MarketPosition {
	case model.PositionAboveMarket:
		base *= 1.25
	case model.PositionBelowMarket:
		base *= 0.85
	}
	if p := unit.LeaseProbability; p > 0 {
		base *= 1.5 - math.Min(p, 1)
	}
	return int(math.Max(1, math.Round(base)))
}

// speedup is the fractional reduction in days to lease for a cut of cutPct
// percent: 40% at the reference 5% cut, easing to at most 60% for deeper cuts.
func speedup(cutPct float64) float64 {
	if cutPct <= 0 {
		return 0
	}
	s := constants.ReferenceSpeedup * math.Min(cutPct, constants.ReferenceCutPct) / constants.ReferenceCutPct
	if cutPct > constants.ReferenceCutPct {
		extra := math.Min(cutPct-constants.ReferenceCutPct, 10) / 10
		s += (constants.MaxSpeedup - constants.ReferenceSpeedup) * extra
	}
	return math.Min(s, constants.MaxSpeedup)
}

func projectTimeline(unit model.UnitMarketState, adjustmentPct float64) LeaseTimeline {
	current := currentTrajectoryDays(unit)

	suggestedDays := float64(current)
	switch {
	case adjustmentPct < 0:
		suggestedDays *= 1 - speedup(-adjustmentPct)
	case adjustmentPct > 0:
		suggestedDays *= 1 + 0.05*adjustmentPct
	}
	suggested := int(math.Max(1, math.Round(suggestedDays)))

	timeline := LeaseTimeline{
		CurrentTrajectoryDays:   current,
		SuggestedTrajectoryDays: suggested,
		AccelerationFactor:      mathutil.RoundTo(float64(current)/float64(suggested), 2),
	}

	p := mathutil.Clamp(unit.LeaseProbability, 0, 1)
	if p == 0 {
		return timeline
	}

	// Exponential arrival with a mean of two thirds of the suggested
	// trajectory, rescaled so the horizon lands exactly on p.
	tau := float64(suggested) / 1.5
	horizon := 1 - math.Exp(-constants.TimelineHorizonDays/tau)
	cumulative := func(days float64) float64 {
		return math.Min(p, mathutil.RoundTo(p*(1-math.Exp(-days/tau))/horizon, 3))
	}
	timeline.Week1Probability = cumulative(7)
	timeline.Week2Probability = cumulative(14)
	timeline.Week4Probability = cumulative(28)
	timeline.Week8Probability = p
	return timeline
}
