// Package match scores how well a listing fits a renter.
//
// The overall score is the equal-weighted mean of four sub-scores: location,
// preference, market and value. Highlights and warnings explain the result
// and never feed back into it.
package match

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iwvelando/rent-intel/internal/amenity"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/internal/savings"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/format"
	"github.com/iwvelando/rent-intel/pkg/mathutil"
	"go.uber.org/zap"
)

// Input bundles everything a match score depends on. Only Listing and
// Savings are required.
type Input struct {
	Listing     model.Listing
	Savings     savings.Breakdown
	Preferences *model.PreferenceProfile
	Budget      float64
	Market      *model.MarketContext
	POIs        []model.PointOfInterest
	Commute     *model.CommutePreferences
}

// Result is the explained compatibility score for one listing.
type Result struct {
	ListingID             string   `json:"listing_id"`
	Overall               int      `json:"overall"`
	LocationScore         int      `json:"location_score"`
	PreferenceScore       int      `json:"preference_score"`
	MarketScore           int      `json:"market_score"`
	ValueScore            int      `json:"value_score"`
	MatchedAmenities      []string `json:"matched_amenities"`
	MissingAmenities      []string `json:"missing_amenities"`
	DealBreakerViolations []string `json:"deal_breaker_violations"`
	BudgetMatch           bool     `json:"budget_match"`
	BedroomMatch          bool     `json:"bedroom_match"`
	Highlights            []string `json:"highlights"`
	Warnings              []string `json:"warnings"`
}

// dealBreakerRule ties a deal-breaker phrase to the amenity whose absence
// triggers it.
type dealBreakerRule struct {
	phrase string
	label  string
}

var dealBreakerRules = []dealBreakerRule{
	{"no pet", amenity.PetFriendly},
	{"no parking", amenity.Parking},
	{"no laundry", amenity.Laundry},
}

var bedroomRe = regexp.MustCompile(`^(\d+)\s*-?\s*(?:br|bd|bds|bed|beds|bedroom|bedrooms)?$`)

// Scorer computes match scores. It holds only read-only collaborators and is
// safe for concurrent use.
type Scorer struct {
	logger   *zap.Logger
	signals  LocationSignals
	taxonomy *amenity.Taxonomy
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithLocationSignals replaces the constant commute and proximity signals.
func WithLocationSignals(signals LocationSignals) Option {
	return func(s *Scorer) {
		if signals != nil {
			s.signals = signals
		}
	}
}

// NewScorer creates a Scorer. A nil logger becomes a no-op logger.
func NewScorer(logger *zap.Logger, opts ...Option) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Scorer{
		logger:   logger,
		signals:  DefaultSignals(),
		taxonomy: amenity.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScorer = NewScorer(nil)

// ComputeMatchScore scores in with the default scorer.
func ComputeMatchScore(in Input) Result {
	return defaultScorer.Score(in)
}

// Score computes the match result for in.
func (s *Scorer) Score(in Input) Result {
	result := Result{
		ListingID:    in.Listing.ID,
		BudgetMatch:  true,
		BedroomMatch: true,
	}

	prefs := model.PreferenceProfile{}
	if in.Preferences != nil {
		prefs = *in.Preferences
	}
	effectiveRent := in.Savings.EffectiveRent()

	location := s.locationScore(in, effectiveRent)

	budgetPts := budgetPoints(effectiveRent, in.Budget)
	if in.Budget > 0 {
		result.BudgetMatch = effectiveRent <= in.Budget*constants.BudgetTolerance
	}

	desired := amenity.DesiredAmenities(prefs)
	amenityPts := constants.AmenityPoints
	if len(desired) > 0 {
		result.MatchedAmenities, result.MissingAmenities = s.taxonomy.Match(in.Listing, desired)
		amenityPts = constants.AmenityPoints * float64(len(result.MatchedAmenities)) / float64(len(desired))
	}

	result.DealBreakerViolations = s.dealBreakerViolations(in.Listing, prefs.DealBreakers)
	dealBreakerPts := constants.DealBreakerPoints
	if len(result.DealBreakerViolations) > 0 {
		dealBreakerPts = 0
	}

	wantBedrooms, hasBedroomPref := parseBedrooms(prefs.Bedrooms)
	if hasBedroomPref {
		lo, hi := in.Listing.BedroomRange()
		result.BedroomMatch = wantBedrooms >= lo && wantBedrooms <= hi
	} else if !isAnyBedrooms(prefs.Bedrooms) {
		s.logger.Debug("ignoring unparseable bedroom preference",
			zap.String("op", "match.Score"),
			zap.String("bedrooms", prefs.Bedrooms),
		)
	}

	preference := budgetPts + amenityPts + dealBreakerPts
	if !result.BedroomMatch {
		preference -= constants.BedroomPenalty
	}
	preference = mathutil.ClampScore(preference)

	marketScore := constants.DefaultLeverageScore
	if in.Market != nil && in.Market.LeverageScore != nil {
		marketScore = mathutil.ClampScore(*in.Market.LeverageScore)
	}

	value := valueScore(in.Savings)

	result.LocationScore = roundScore(location)
	result.PreferenceScore = roundScore(preference)
	result.MarketScore = roundScore(marketScore)
	result.ValueScore = roundScore(value)
	result.Overall = roundScore(constants.SubScoreWeight * (location + preference + marketScore + value))

	result.Highlights, result.Warnings = explain(in, prefs, result, effectiveRent, len(desired))

	s.logger.Debug("computed match score",
		zap.String("op", "match.Score"),
		zap.String("listing", in.Listing.ID),
		zap.Int("overall", result.Overall),
		zap.Int("violations", len(result.DealBreakerViolations)),
	)
	return result
}

func (s *Scorer) locationScore(in Input, effectiveRent float64) float64 {
	commute := mathutil.ClampScore(s.signals.CommuteScore(in.Listing, in.Commute))
	proximity := mathutil.ClampScore(s.signals.ProximityScore(in.Listing, in.POIs))
	cost := costScore(effectiveRent, in.Budget)
	return constants.CommuteWeight*commute + constants.ProximityWeight*proximity + constants.CostWeight*cost
}

// costScore maps effective rent against budget: 70 at budget, one point per
// percent under it up to 100, two points lost per percent over it down to 0.
func costScore(effectiveRent, budget float64) float64 {
	if budget <= 0 {
		return constants.NeutralCostScore
	}
	diffPct := (budget - effectiveRent) / budget * constants.PercentageMultiplier
	if diffPct >= 0 {
		return mathutil.ClampScore(constants.AtBudgetCostScore + diffPct)
	}
	return mathutil.ClampScore(constants.AtBudgetCostScore + constants.OverBudgetCostSlope*diffPct)
}

// budgetPoints gives full credit up to 105% of budget, then decays linearly to
// zero at 130%. No budget means no constraint.
func budgetPoints(effectiveRent, budget float64) float64 {
	if budget <= 0 {
		return constants.BudgetPoints
	}
	ratio := effectiveRent / budget
	if ratio <= constants.BudgetTolerance {
		return constants.BudgetPoints
	}
	t := (ratio - constants.BudgetTolerance) / (constants.BudgetDecayEnd - constants.BudgetTolerance)
	return mathutil.Lerp(constants.BudgetPoints, 0, t)
}

func (s *Scorer) dealBreakerViolations(listing model.Listing, dealBreakers []string) []string {
	var violations []string
	for _, phrase := range dealBreakers {
		lower := strings.ToLower(phrase)
		for _, rule := range dealBreakerRules {
			if strings.Contains(lower, rule.phrase) && !s.taxonomy.Has(listing, rule.label) {
				violations = append(violations, strings.TrimSpace(phrase))
				break
			}
		}
	}
	return violations
}

// valueScore is the deal score when there is no offer. With an offer it
// blends ten points per percent of rent the concession is worth with half the
// deal score.
func valueScore(b savings.Breakdown) float64 {
	if !b.HasSpecialOffer {
		return math.Min(constants.MaxScore, float64(b.DealScore))
	}
	concessionPerMonth := b.MonthlyConcessionValue + b.UpfrontSavings/constants.MonthsPerYear
	concessionPct := mathutil.CalculatePercentage(concessionPerMonth, b.MonthlyRent)
	return math.Min(constants.MaxScore, math.Round(concessionPct*10+float64(b.DealScore)/2))
}

func parseBedrooms(pref string) (int, bool) {
	p := strings.ToLower(strings.TrimSpace(pref))
	if p == "studio" {
		return 0, true
	}
	m := bedroomRe.FindStringSubmatch(p)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func isAnyBedrooms(pref string) bool {
	p := strings.ToLower(strings.TrimSpace(pref))
	return p == "" || p == model.AnyBedrooms
}

func explain(in Input, prefs model.PreferenceProfile, r Result, effectiveRent float64, desiredCount int) (highlights, warnings []string) {
	if in.Budget > 0 {
		if effectiveRent <= in.Budget {
			highlights = append(highlights, fmt.Sprintf("Within budget (%s of %s)",
				format.Dollars(effectiveRent), format.Dollars(in.Budget)))
		} else {
			warnings = append(warnings, fmt.Sprintf("%s over budget",
				format.Dollars(effectiveRent-in.Budget)))
		}
	}

	if !isAnyBedrooms(prefs.Bedrooms) {
		if r.BedroomMatch {
			highlights = append(highlights, fmt.Sprintf("Bedrooms match (%s)", strings.TrimSpace(prefs.Bedrooms)))
		} else {
			lo, hi := in.Listing.BedroomRange()
			warnings = append(warnings, fmt.Sprintf("Wants %s, listing offers %s",
				strings.TrimSpace(prefs.Bedrooms), bedroomRangeText(lo, hi)))
		}
	}

	if desiredCount > 0 && len(r.MatchedAmenities) > 0 {
		highlights = append(highlights, fmt.Sprintf("Matches %d of %d desired amenities",
			len(r.MatchedAmenities), desiredCount))
	}
	if len(r.MissingAmenities) > 0 {
		missing := r.MissingAmenities
		if len(missing) > constants.MaxMissingListed {
			missing = missing[:constants.MaxMissingListed]
		}
		warnings = append(warnings, "Missing: "+strings.Join(missing, ", "))
	}

	for _, violation := range r.DealBreakerViolations {
		warnings = append(warnings, "Deal-breaker: "+violation)
	}

	if in.Savings.HasSpecialOffer {
		highlights = append(highlights, "Special offer: "+in.Savings.OfferText)
	}
	if float64(r.ValueScore) >= constants.HighlightThreshold {
		highlights = append(highlights, "Great value")
	}
	if float64(r.MarketScore) >= constants.HighlightThreshold {
		highlights = append(highlights, "Strong leverage")
	}
	return highlights, warnings
}

func bedroomRangeText(lo, hi int) string {
	label := func(n int) string {
		if n == 0 {
			return "studio"
		}
		return strconv.Itoa(n) + "BR"
	}
	if lo == hi {
		return label(lo)
	}
	return label(lo) + " to " + label(hi)
}

func roundScore(v float64) int {
	return int(math.Round(mathutil.ClampScore(v)))
}
