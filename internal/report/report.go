// Package report runs every engine over a loaded configuration and collects
// the results into a single report.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/rent-intel/internal/config"
	"github.com/iwvelando/rent-intel/internal/match"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/internal/pricing"
	"github.com/iwvelando/rent-intel/internal/savings"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"go.uber.org/zap"
)

// ListingReport holds the savings and match assessment of one listing.
type ListingReport struct {
	Listing model.Listing     `json:"listing"`
	Savings savings.Breakdown `json:"savings"`
	Match   match.Result      `json:"match"`
}

// Report holds everything computed for one configuration.
type Report struct {
	AsOf            time.Time                `json:"as_of"`
	Listings        []ListingReport          `json:"listings"`
	Recommendations []pricing.Recommendation `json:"recommendations"`
	Summary         pricing.PortfolioSummary `json:"summary"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

// Build scores every listing for the configured renter and recommends a price
// for every portfolio unit. Listings are ordered best match first; ties keep
// their configured order. Without an asOf date, data age is not judged.
func Build(ctx context.Context, logger *zap.Logger, conf config.Configuration) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Report{
		AsOf:     conf.AsOf,
		Warnings: conf.ValidateConfiguration(),
	}
	for _, warning := range result.Warnings {
		logger.Warn(warning, zap.String("op", "report.Build"))
	}

	calculator := savings.NewCalculator(logger, conf.MarketTable())
	scorer := match.NewScorer(logger, match.WithLocationSignals(LocationSignals(conf.Scoring)))
	marketContext := conf.MarketContext()

	result.Listings = make([]ListingReport, 0, len(conf.Listings))
	for _, listing := range conf.Listings {
		if err := ctx.Err(); err != nil {
			return Report{}, fmt.Errorf("report cancelled, %w", err)
		}
		breakdown := calculator.Compute(listing, 0)
		result.Listings = append(result.Listings, ListingReport{
			Listing: listing,
			Savings: breakdown,
			Match: scorer.Score(match.Input{
				Listing:     listing,
				Savings:     breakdown,
				Preferences: conf.Renter.Preferences,
				Budget:      conf.Renter.Budget,
				Market:      marketContext,
				POIs:        conf.Renter.POIs,
				Commute:     conf.Renter.Commute,
			}),
		})
	}
	sort.SliceStable(result.Listings, func(i, j int) bool {
		return result.Listings[i].Match.Overall > result.Listings[j].Match.Overall
	})

	recommender := pricing.NewRecommender(logger)
	recs, err := recommender.RecommendAll(ctx, conf.Portfolio, pricing.Options{AsOf: conf.AsOf})
	if err != nil {
		return Report{}, fmt.Errorf("report cancelled, %w", err)
	}
	result.Recommendations = recs
	result.Summary = pricing.Summarize(recs)

	logger.Debug("built report",
		zap.String("op", "report.Build"),
		zap.Int("listings", len(result.Listings)),
		zap.Int("units", len(result.Recommendations)),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// LocationSignals returns the configured constant scores, wrapped in distance
// based proximity when enabled. Unset scores fall back to the defaults.
func LocationSignals(scoring config.ScoringConfig) match.LocationSignals {
	constant := match.DefaultSignals()
	if scoring.CommuteScore > 0 {
		constant.Commute = scoring.CommuteScore
	}
	if scoring.ProximityScore > 0 {
		constant.Proximity = scoring.ProximityScore
	}
	if !scoring.UseDistance {
		return constant
	}
	return match.DistanceSignals{
		Fallback: constant,
		NearKm:   constants.ProximityNearKm,
		FarKm:    constants.ProximityFarKm,
	}
}
