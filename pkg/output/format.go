// Package output provides utilities for formatting and displaying reports.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/rent-intel/internal/report"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/datetime"
	"github.com/iwvelando/rent-intel/pkg/format"
	"github.com/iwvelando/rent-intel/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var listingHeader = []string{
	"listing_id", "name", "city", "monthly_rent", "effective_rent", "market_median",
	"monthly_savings", "annual_savings", "upfront_savings", "deal_score", "offer",
	"overall", "location", "preference", "market", "value", "budget_match", "bedroom_match",
}

var recommendationHeader = []string{
	"unit_id", "property", "current_rent", "suggested_rent", "adjustment_pct", "strategy",
	"urgency", "confidence", "annual_rent_change", "vacancy_savings", "net_benefit",
}

// Write renders r to w in the named format.
func Write(w io.Writer, outputFormat string, r report.Report) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, r)
	case constants.OutputFormatJSON:
		return JSONFormat(w, r)
	default:
		return PrettyFormat(w, r)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, r report.Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	if r.AsOf.IsZero() {
		fmt.Fprintf(&b, "=== Rent intelligence report ===\n\n")
	} else {
		fmt.Fprintf(&b, "=== Rent intelligence report as of %s ===\n\n", r.AsOf.Format(datetime.DateLayout))
	}

	fmt.Fprintf(&b, "--- Listings (best match first) ---\n")
	fmt.Fprintf(&b, "Listing | Rent | Effective | Median | Savings/yr | Deal | Match\n")
	fmt.Fprintf(&b, "_______ | ____ | _________ | ______ | __________ | ____ | _____\n")
	for _, lr := range r.Listings {
		_, _ = p.Fprintf(&b, "%s | %s | %s | %s | %s | %d | %d\n",
			listingLabel(lr),
			format.Dollars(lr.Savings.MonthlyRent),
			format.Dollars(lr.Savings.EffectiveRent()),
			format.Dollars(lr.Savings.MarketMedian),
			format.Dollars(lr.Savings.AnnualSavings),
			lr.Savings.DealScore,
			lr.Match.Overall,
		)
		for _, highlight := range lr.Match.Highlights {
			fmt.Fprintf(&b, "    + %s\n", highlight)
		}
		for _, warning := range lr.Match.Warnings {
			fmt.Fprintf(&b, "    ! %s\n", warning)
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(&b, "\n--- Pricing recommendations ---\n")
		fmt.Fprintf(&b, "Unit | Current | Suggested | Change | Strategy | Urgency | Confidence\n")
		fmt.Fprintf(&b, "____ | _______ | _________ | ______ | ________ | _______ | __________\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "%s | %s | %s | %s | %s | %s | %d\n",
				rec.UnitID,
				format.Dollars(rec.CurrentRent),
				format.Dollars(rec.SuggestedRent),
				format.Percent(rec.AdjustmentPct),
				rec.Strategy,
				rec.Urgency,
				rec.Confidence,
			)
			for _, reason := range rec.Reasoning {
				fmt.Fprintf(&b, "    - %s\n", reason)
			}
		}

		s := r.Summary
		fmt.Fprintf(&b, "\n--- Portfolio summary ---\n")
		fmt.Fprintf(&b, "Units:             %d\n", s.TotalUnits)
		fmt.Fprintf(&b, "Total impact:      %s\n", format.Currency(s.TotalImpact))
		fmt.Fprintf(&b, "Vacancy savings:   %s\n", format.Currency(s.VacancySavings))
		fmt.Fprintf(&b, "Net benefit:       %s\n", format.Currency(s.NetBenefit))
		fmt.Fprintf(&b, "Avg confidence:    %.1f\n", s.AverageConfidence)
		fmt.Fprintf(&b, "Immediate action:  %d\n", s.ImmediateActionCount)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\n--- Warnings ---\n")
		for _, warning := range r.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func listingLabel(lr report.ListingReport) string {
	if lr.Listing.Name == "" {
		return lr.Listing.ID
	}
	return fmt.Sprintf("%s (%s)", lr.Listing.Name, lr.Listing.ID)
}

// CsvFormat outputs in comma-separated value format: the listings table, a
// blank line, then the recommendations table when the portfolio is not empty.
func CsvFormat(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(listingHeader); err != nil {
		return err
	}
	for _, lr := range r.Listings {
		record := []string{
			lr.Listing.ID,
			lr.Listing.Name,
			lr.Listing.City,
			money(lr.Savings.MonthlyRent),
			money(lr.Savings.EffectiveRent()),
			money(lr.Savings.MarketMedian),
			money(lr.Savings.MonthlySavings),
			money(lr.Savings.AnnualSavings),
			money(lr.Savings.UpfrontSavings),
			strconv.Itoa(lr.Savings.DealScore),
			lr.Savings.OfferText,
			strconv.Itoa(lr.Match.Overall),
			strconv.Itoa(lr.Match.LocationScore),
			strconv.Itoa(lr.Match.PreferenceScore),
			strconv.Itoa(lr.Match.MarketScore),
			strconv.Itoa(lr.Match.ValueScore),
			strconv.FormatBool(lr.Match.BudgetMatch),
			strconv.FormatBool(lr.Match.BedroomMatch),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	if len(r.Recommendations) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if err := cw.Write(recommendationHeader); err != nil {
		return err
	}
	for _, rec := range r.Recommendations {
		record := []string{
			rec.UnitID,
			rec.PropertyName,
			money(rec.CurrentRent),
			money(rec.SuggestedRent),
			strconv.FormatFloat(rec.AdjustmentPct, 'f', 1, 64),
			string(rec.Strategy),
			string(rec.Urgency),
			strconv.Itoa(rec.Confidence),
			money(rec.RevenueImpact.AnnualRentChange),
			money(rec.RevenueImpact.VacancySavings),
			money(rec.RevenueImpact.NetBenefit),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// CsvString renders r as CSV and returns it as a string.
func CsvString(r report.Report) (string, error) {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, r report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
