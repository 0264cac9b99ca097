package pricing

import (
	"context"
	"runtime"

	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/mathutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PortfolioSummary rolls recommendations up across a portfolio.
type PortfolioSummary struct {
	TotalUnits           int              `json:"total_units"`
	TotalImpact          float64          `json:"total_impact"`
	VacancySavings       float64          `json:"vacancy_savings"`
	NetBenefit           float64          `json:"net_benefit"`
	AverageConfidence    float64          `json:"average_confidence"`
	ImmediateActionCount int              `json:"immediate_action_count"`
	StrategyCounts       map[Strategy]int `json:"strategy_counts"`
}

// Summarize sums impact figures and averages confidence over recs. The sums
// are taken over the per-unit figures as reported, with no re-rounding.
func Summarize(recs []Recommendation) PortfolioSummary {
	summary := PortfolioSummary{
		TotalUnits:     len(recs),
		StrategyCounts: make(map[Strategy]int),
	}
	if len(recs) == 0 {
		return summary
	}

	var confidence int
	for _, rec := range recs {
		summary.TotalImpact += rec.RevenueImpact.TotalImpact
		summary.VacancySavings += rec.RevenueImpact.VacancySavings
		summary.NetBenefit += rec.RevenueImpact.NetBenefit
		confidence += rec.Confidence
		summary.StrategyCounts[rec.Strategy]++
		if rec.Urgency == UrgencyImmediate {
			summary.ImmediateActionCount++
		}
	}
	summary.AverageConfidence = mathutil.RoundTo(float64(confidence)/float64(len(recs)), 1)
	return summary
}

// ImmediateAction returns the recommendations that need action now, in input order.
func ImmediateAction(recs []Recommendation) []Recommendation {
	var out []Recommendation
	for _, rec := range recs {
		if rec.Urgency == UrgencyImmediate {
			out = append(out, rec)
		}
	}
	return out
}

// ByStrategy returns the recommendations with the given strategy, in input order.
func ByStrategy(recs []Recommendation, strategy Strategy) []Recommendation {
	var out []Recommendation
	for _, rec := range recs {
		if rec.Strategy == strategy {
			out = append(out, rec)
		}
	}
	return out
}

// RecommendAll scores every unit, spreading the work over a bounded number of
// goroutines. Results are in input order. It stops early only if ctx is done.
func (r *Recommender) RecommendAll(ctx context.Context, units []model.UnitMarketState, opts Options) ([]Recommendation, error) {
	recs := make([]Recommendation, len(units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range units {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			recs[i] = r.Recommend(units[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.logger.Warn("portfolio scoring interrupted",
			zap.String("op", "pricing.RecommendAll"),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Debug("scored portfolio",
		zap.String("op", "pricing.RecommendAll"),
		zap.Int("units", len(units)),
	)
	return recs, nil
}
