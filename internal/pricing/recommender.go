// Package pricing recommends a pricing strategy for portfolio units and rolls
// the recommendations up into a portfolio summary.
//
// The adjustment applied to a unit's rent is the sum of independent signals:
// market velocity, days on market, lease probability, market position, rent
// trend and unit quality. Every signal that moves the number leaves a line in
// the recommendation's reasoning.
package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/datetime"
	"github.com/iwvelando/rent-intel/pkg/format"
	"github.com/iwvelando/rent-intel/pkg/mathutil"
	"go.uber.org/zap"
)

// Strategy is the pricing posture recommended for a unit.
type Strategy string

const (
	StrategyAggressiveReduction Strategy = "aggressive_reduction"
	StrategyModerateReduction   Strategy = "moderate_reduction"
	StrategyHold                Strategy = "hold"
	StrategyIncrease            Strategy = "increase"
)

// IsReduction reports whether the strategy lowers rent.
func (s Strategy) IsReduction() bool {
	return s == StrategyAggressiveReduction || s == StrategyModerateReduction
}

// Urgency is how soon a recommendation should be acted on.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySoon      Urgency = "soon"
	UrgencyModerate  Urgency = "moderate"
	UrgencyLow       Urgency = "low"
)

// RevenueImpact is the annualized consequence of a recommendation relative to
// holding the current rent.
type RevenueImpact struct {
	AnnualRentChange float64 `json:"annual_rent_change"`
	VacancySavings   float64 `json:"vacancy_savings"`
	ConcessionOffset float64 `json:"concession_offset"`
	TotalImpact      float64 `json:"total_impact"`
	NetBenefit       float64 `json:"net_benefit"`
}

// Recommendation is the pricing advice for one unit.
type Recommendation struct {
	UnitID        string         `json:"unit_id"`
	PropertyName  string         `json:"property_name,omitempty"`
	CurrentRent   float64        `json:"current_rent"`
	SuggestedRent float64        `json:"suggested_rent"`
	AdjustmentPct float64        `json:"adjustment_pct"`
	Strategy      Strategy       `json:"strategy"`
	Urgency       Urgency        `json:"urgency"`
	Reasoning     []string       `json:"reasoning"`
	RevenueImpact RevenueImpact  `json:"revenue_impact"`
	Confidence    int            `json:"confidence"`
	LeaseTimeline *LeaseTimeline `json:"lease_timeline,omitempty"`
}

// Options carries per-call inputs that are not part of the unit itself.
type Options struct {
	// AsOf is the reference time for data freshness. Zero skips the freshness check.
	AsOf time.Time
}

// Recommender produces pricing recommendations. It holds no mutable state.
type Recommender struct {
	logger *zap.Logger
}

// NewRecommender creates a Recommender. A nil logger becomes a no-op logger.
func NewRecommender(logger *zap.Logger) *Recommender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{logger: logger}
}

type domPoint struct {
	days int
	pct  float64
}

// domCurve is interpolated linearly between points and flat beyond the last.
var domCurve = []domPoint{
	{7, 0},
	{14, -2},
	{30, -5},
	{60, -12},
	{90, -20},
}

// Recommend computes the recommendation for unit.
func (r *Recommender) Recommend(unit model.UnitMarketState, opts Options) Recommendation {
	current := unit.BaseRent()
	rec := Recommendation{
		UnitID:       unit.UnitID,
		PropertyName: unit.PropertyName,
		CurrentRent:  current,
		Urgency:      urgencyFor(unit.DaysOnMarket),
	}

	// Strategy is classified on the reported one-decimal figure.
	adjustment, reasons := adjustmentFor(unit)
	rec.AdjustmentPct = mathutil.RoundTo(adjustment, 1)
	rec.Strategy = strategyFor(rec.AdjustmentPct)
	if rec.Strategy == StrategyHold {
		rec.AdjustmentPct = 0
	}
	rec.SuggestedRent = mathutil.WholeDollars(mathutil.ApplyPercentage(current, constants.PercentageMultiplier+rec.AdjustmentPct))
	if rec.Strategy == StrategyHold {
		rec.SuggestedRent = current
	}

	if current <= 0 {
		reasons = append(reasons, "No rent on record; figures are zero")
	}
	rec.Reasoning = append(reasons, strategyLine(rec))

	timeline := projectTimeline(unit, rec.AdjustmentPct)
	rec.RevenueImpact = revenueImpact(unit, rec, timeline)
	if unit.LeaseProbability > 0 {
		rec.LeaseTimeline = &timeline
	}
	rec.Confidence = confidenceFor(unit, opts.AsOf)

	r.logger.Debug("computed pricing recommendation",
		zap.String("op", "pricing.Recommend"),
		zap.String("unit", unit.UnitID),
		zap.String("strategy", string(rec.Strategy)),
		zap.Float64("adjustmentPct", rec.AdjustmentPct),
		zap.Int("confidence", rec.Confidence),
	)
	return rec
}

func adjustmentFor(unit model.UnitMarketState) (float64, []string) {
	var total float64
	var reasons []string
	add := func(pct float64, reason string) {
		if pct == 0 {
			return
		}
		total += pct
		reasons = append(reasons, fmt.Sprintf("%s (%s)", reason, format.Percent(pct)))
	}

	add(velocityBias(unit.Velocity, unit.MarketPosition), velocityReason(unit.Velocity))
	add(domPenalty(unit.DaysOnMarket), fmt.Sprintf("%d days on market", unit.DaysOnMarket))

	if unit.LeaseProbability > 0 && unit.LeaseProbability < constants.LowLeaseProbability {
		add(constants.LowProbabilityNudgePct, fmt.Sprintf("Lease probability %.0f%% is low",
			unit.LeaseProbability*constants.PercentageMultiplier))
	}

	switch unit.MarketPosition {
	case model.PositionAboveMarket:
		add(-2, "Priced above market")
	case model.PositionBelowMarket:
		add(2, "Priced below market")
	}

	if trend := trendShading(unit.RentTrend, unit.RentTrendPct); trend != 0 {
		add(trend, fmt.Sprintf("Submarket rents trending %s", format.Percent(signedTrend(unit.RentTrend, unit.RentTrendPct))))
	}

	switch q := qualityShading(unit); {
	case q > 0:
		add(q, "Above-average unit quality")
	case q < 0:
		add(q, "Below-average unit quality")
	}

	bounded := mathutil.Clamp(total, constants.MaxReductionPct, constants.MaxIncreasePct)
	if bounded != total {
		reasons = append(reasons, fmt.Sprintf("Adjustment capped at %s", format.Percent(bounded)))
	}
	return bounded, reasons
}

// velocityBias favors a premium in hot markets, smaller when the unit is
// already above market, and a discount in slow ones.
func velocityBias(v model.MarketVelocity, position model.MarketPosition) float64 {
	switch v {
	case model.VelocityHot:
		if position == model.PositionAboveMarket {
			return 2
		}
		return 5
	case model.VelocitySlow:
		return -3
	case model.VelocityStale:
		return -8
	default:
		return 0
	}
}

func velocityReason(v model.MarketVelocity) string {
	switch v {
	case model.VelocityHot:
		return "Hot market"
	case model.VelocitySlow:
		return "Slow market"
	case model.VelocityStale:
		return "Stale market"
	default:
		return "Normal market"
	}
}

// domPenalty is non-increasing in days on market.
func domPenalty(days int) float64 {
	if days <= domCurve[0].days {
		return domCurve[0].pct
	}
	for i := 1; i < len(domCurve); i++ {
		prev, next := domCurve[i-1], domCurve[i]
		if days <= next.days {
			t := float64(days-prev.days) / float64(next.days-prev.days)
			return mathutil.Lerp(prev.pct, next.pct, t)
		}
	}
	return domCurve[len(domCurve)-1].pct
}

func signedTrend(trend model.RentTrend, pct float64) float64 {
	switch trend {
	case model.TrendIncreasing:
		return math.Abs(pct)
	case model.TrendDecreasing:
		return -math.Abs(pct)
	case model.TrendStable:
		return 0
	default:
		return pct
	}
}

func trendShading(trend model.RentTrend, pct float64) float64 {
	return mathutil.Clamp(signedTrend(trend, pct)/2, -2, 2)
}

// qualityShading averages the supplied quality scores; unset scores are ignored.
func qualityShading(unit model.UnitMarketState) float64 {
	var sum float64
	var n int
	for _, score := range []float64{unit.AmenityScore, unit.LocationScore, unit.ManagementScore} {
		if score > 0 {
			sum += score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	switch avg := sum / float64(n); {
	case avg >= 75:
		return 1
	case avg <= 40:
		return -1
	default:
		return 0
	}
}

func strategyFor(adjustment float64) Strategy {
	switch {
	case adjustment <= constants.AggressiveReductionPct:
		return StrategyAggressiveReduction
	case adjustment <= constants.ModerateReductionPct:
		return StrategyModerateReduction
	case adjustment >= constants.IncreasePct:
		return StrategyIncrease
	default:
		return StrategyHold
	}
}

func urgencyFor(daysOnMarket int) Urgency {
	switch {
	case daysOnMarket >= constants.ImmediateDays:
		return UrgencyImmediate
	case daysOnMarket >= constants.SoonDays:
		return UrgencySoon
	case daysOnMarket >= constants.ModerateDays:
		return UrgencyModerate
	default:
		return UrgencyLow
	}
}

func strategyLine(rec Recommendation) string {
	switch {
	case rec.Strategy.IsReduction():
		return fmt.Sprintf("Reduce to %s (%s)", format.Dollars(rec.SuggestedRent), format.Percent(rec.AdjustmentPct))
	case rec.Strategy == StrategyIncrease:
		return fmt.Sprintf("Increase to %s (%s)", format.Dollars(rec.SuggestedRent), format.Percent(rec.AdjustmentPct))
	default:
		return fmt.Sprintf("Hold at %s", format.Dollars(rec.CurrentRent))
	}
}

func revenueImpact(unit model.UnitMarketState, rec Recommendation, timeline LeaseTimeline) RevenueImpact {
	dailyRent := rec.CurrentRent * constants.MonthsPerYear / constants.DaysPerYear
	daysSaved := float64(timeline.CurrentTrajectoryDays - timeline.SuggestedTrajectoryDays)

	impact := RevenueImpact{
		AnnualRentChange: mathutil.Round((rec.SuggestedRent - rec.CurrentRent) * constants.MonthsPerYear),
		VacancySavings:   mathutil.Round(daysSaved * dailyRent),
	}
	if rec.Strategy.IsReduction() && unit.ConcessionValue > 0 {
		impact.ConcessionOffset = mathutil.Round(unit.ConcessionValue)
	}
	impact.TotalImpact = mathutil.Round(impact.AnnualRentChange + impact.VacancySavings)
	impact.NetBenefit = mathutil.Round(impact.TotalImpact + impact.ConcessionOffset)
	return impact
}

// confidenceFor starts from the supplied confidence and discounts volatile or
// stale inputs. Freshness is judged against asOf, never the wall clock.
func confidenceFor(unit model.UnitMarketState, asOf time.Time) int {
	confidence := unit.ConfidenceScore
	if confidence <= 0 {
		confidence = constants.DefaultConfidence
	}
	if math.Abs(unit.RentTrendPct) > 5 {
		confidence -= 5
	}
	if unit.Velocity == model.VelocityStale {
		confidence -= 5
	}
	switch age := datetime.DaysBetween(unit.UpdatedAt, asOf); {
	case age > 30:
		confidence -= 20
	case age > 14:
		confidence -= 10
	}
	return int(math.Round(mathutil.ClampScore(confidence)))
}
