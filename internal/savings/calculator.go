// Package savings computes how a listing's price and concessions compare to
// its local market.
package savings

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/rent-intel/internal/concession"
	"github.com/iwvelando/rent-intel/internal/market"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/format"
	"github.com/iwvelando/rent-intel/pkg/mathutil"
	"go.uber.org/zap"
)

// Breakdown is the savings assessment for one listing. It is recomputed on
// every call and never cached.
type Breakdown struct {
	MonthlyRent            float64 `json:"monthly_rent"`
	MarketMedian           float64 `json:"market_median"`
	MonthlySavings         float64 `json:"monthly_savings"`
	AnnualSavings          float64 `json:"annual_savings"`
	UpfrontSavings         float64 `json:"upfront_savings"`
	MonthlyConcessionValue float64 `json:"monthly_concession_value"`
	DealScore              int     `json:"deal_score"`
	HasSpecialOffer        bool    `json:"has_special_offer"`
	OfferText              string  `json:"offer_text"`
	SavingsPercentage      int     `json:"savings_percentage"`
}

// EffectiveRent is the monthly rent net of recurring concessions.
func (b Breakdown) EffectiveRent() float64 {
	return math.Max(0, b.MonthlyRent-b.MonthlyConcessionValue)
}

// Calculator computes savings breakdowns against a market reference.
type Calculator struct {
	logger   *zap.Logger
	resolver market.Resolver
}

// NewCalculator creates a calculator. A nil logger becomes a no-op logger and
// a nil resolver becomes the curated default table.
func NewCalculator(logger *zap.Logger, resolver market.Resolver) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = market.DefaultTable()
	}
	return &Calculator{logger: logger, resolver: resolver}
}

var defaultCalculator = NewCalculator(nil, nil)

// Compute computes a breakdown with the default market table.
func Compute(listing model.Listing, medianOverride float64) Breakdown {
	return defaultCalculator.Compute(listing, medianOverride)
}

// Compute returns the savings breakdown for listing. A positive
// medianOverride replaces the city median.
func (c *Calculator) Compute(listing model.Listing, medianOverride float64) Breakdown {
	median := c.resolver.MedianRent(listing.City, medianOverride)

	rent, ok := listing.ListedRent()
	if !ok {
		c.logger.Debug("listing has no rent, substituting market median",
			zap.String("op", "savings.Compute"),
			zap.String("listing", listing.ID),
			zap.Float64("median", median),
		)
		rent = median
	}

	offer := c.resolveOffer(listing, rent)

	monthlySavings := math.Max(0, median-rent+offer.MonthlyValue)
	annualSavings := monthlySavings*constants.MonthsPerYear + offer.UpfrontValue
	savingsRatio := mathutil.SafeDivide(monthlySavings, median)

	breakdown := Breakdown{
		MonthlyRent:            mathutil.Round(rent),
		MarketMedian:           mathutil.Round(median),
		MonthlySavings:         mathutil.Round(monthlySavings),
		AnnualSavings:          mathutil.Round(annualSavings),
		UpfrontSavings:         mathutil.Round(offer.UpfrontValue),
		MonthlyConcessionValue: mathutil.Round(offer.MonthlyValue),
		DealScore:              dealScore(savingsRatio, offer),
		HasSpecialOffer:        !offer.IsZero(),
		OfferText:              offer.Text,
		SavingsPercentage:      int(math.Round(savingsRatio * constants.PercentageMultiplier)),
	}

	c.logger.Debug("computed savings",
		zap.String("op", "savings.Compute"),
		zap.String("listing", listing.ID),
		zap.Float64("monthlySavings", breakdown.MonthlySavings),
		zap.Int("dealScore", breakdown.DealScore),
	)
	return breakdown
}

// resolveOffer picks the concession source. An explicit effective price at
// least a cent below rent is authoritative, then a structured concession, then
// the offer text.
func (c *Calculator) resolveOffer(listing model.Listing, rent float64) concession.Offer {
	if listing.EffectivePrice > 0 && mathutil.IsPositive(rent-listing.EffectivePrice) {
		discount := rent - listing.EffectivePrice
		text := strings.Join(strings.Fields(listing.SpecialOffer), " ")
		if text == "" {
			text = fmt.Sprintf("Effective rent %s/mo (%s/mo off list)",
				format.Dollars(listing.EffectivePrice), format.Dollars(discount))
		}
		return concession.Offer{MonthlyValue: discount, Text: text}
	}

	if offer := concession.FromStructured(listing.Concession, rent); !offer.IsZero() {
		return offer
	}
	return concession.ParseOffer(listing.SpecialOffer, rent)
}

// dealScore starts from a neutral 50 and adds credit for savings against the
// median, upfront value and any recurring concession.
func dealScore(savingsRatio float64, offer concession.Offer) int {
	score := constants.DealScoreBase
	score += math.Min(constants.DealScoreSavingsCap, savingsRatio*constants.PercentageMultiplier)
	score += math.Min(constants.DealScoreUpfrontCap, offer.UpfrontValue/constants.DealScoreUpfrontDivisor)
	if offer.MonthlyValue > 0 {
		score += constants.DealScoreRecurringConcession
	}
	return int(math.Round(mathutil.ClampScore(score)))
}
