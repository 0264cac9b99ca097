package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/rent-intel/internal/match"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/internal/pricing"
	"github.com/iwvelando/rent-intel/internal/report"
	"github.com/iwvelando/rent-intel/internal/savings"
	"github.com/iwvelando/rent-intel/pkg/datetime"
	"github.com/iwvelando/rent-intel/pkg/validation"
)

func sampleReport() report.Report {
	return report.Report{
		AsOf: datetime.MustParseTime(datetime.DateLayout, "2024-06-01"),
		Listings: []report.ListingReport{
			{
				Listing: model.Listing{ID: "atx-1", Name: "Eastside Flats", City: "Austin"},
				Savings: savings.Breakdown{
					MonthlyRent:            1500,
					MarketMedian:           1650,
					MonthlySavings:         150,
					AnnualSavings:          3600,
					UpfrontSavings:         1800,
					MonthlyConcessionValue: 0,
					DealScore:              83,
					HasSpecialOffer:        true,
					OfferText:              "6 weeks free, on 13-month leases",
				},
				Match: match.Result{
					ListingID:    "atx-1",
					Overall:      78,
					BudgetMatch:  true,
					BedroomMatch: true,
					Highlights:   []string{"Within budget ($1,500 of $1,700)"},
					Warnings:     []string{"Missing: Pool"},
				},
			},
		},
		Recommendations: []pricing.Recommendation{
			{
				UnitID:        "cc-101",
				PropertyName:  "Cedar Court",
				CurrentRent:   12000,
				SuggestedRent: 9780,
				AdjustmentPct: -18.5,
				Strategy:      pricing.StrategyAggressiveReduction,
				Urgency:       pricing.UrgencyImmediate,
				Reasoning:     []string{"Slow market (-3.0%)"},
				Confidence:    80,
			},
		},
		Summary: pricing.PortfolioSummary{
			TotalUnits:           1,
			TotalImpact:          -26640,
			VacancySavings:       2761.64,
			NetBenefit:           -23378.36,
			AverageConfidence:    80,
			ImmediateActionCount: 1,
			StrategyCounts:       map[pricing.Strategy]int{pricing.StrategyAggressiveReduction: 1},
		},
		Warnings: []string{"Listing 'boise-north' has no rent; the market median will be used"},
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, sampleReport()); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	expected := []string{
		"=== Rent intelligence report as of 2024-06-01 ===",
		"Listing | Rent | Effective | Median | Savings/yr | Deal | Match",
		"Eastside Flats (atx-1) | $1,500 | $1,500 | $1,650 | $3,600 | 83 | 78",
		"    + Within budget ($1,500 of $1,700)",
		"    ! Missing: Pool",
		"cc-101 | $12,000 | $9,780 | -18.5% | aggressive_reduction | immediate | 80",
		"    - Slow market (-3.0%)",
		"Total impact:      -$26,640.00",
		"Vacancy savings:   $2,761.64",
		"Immediate action:  1",
		"- Listing 'boise-north' has no rent",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat missing %q in:\n%s", want, output)
		}
	}
}

func TestPrettyFormatNoPortfolio(t *testing.T) {
	r := sampleReport()
	r.Recommendations = nil
	r.Warnings = nil
	r.AsOf = time.Time{}

	var buf bytes.Buffer
	if err := PrettyFormat(&buf, r); err != nil {
		t.Fatalf("PrettyFormat() error = %v", err)
	}
	output := buf.String()

	if !strings.HasPrefix(output, "=== Rent intelligence report ===\n") {
		t.Errorf("PrettyFormat header without a date = %q", strings.SplitN(output, "\n", 2)[0])
	}

	if strings.Contains(output, "Pricing recommendations") || strings.Contains(output, "Portfolio summary") {
		t.Errorf("PrettyFormat should omit the portfolio sections when there are no units")
	}
	if strings.Contains(output, "Warnings") {
		t.Errorf("PrettyFormat should omit the warnings section when there are none")
	}
}

func TestCsvFormat(t *testing.T) {
	out, err := CsvString(sampleReport())
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}

	sections := strings.Split(out, "\n\n")
	if len(sections) != 2 {
		t.Fatalf("Expected 2 CSV sections, got %d:\n%s", len(sections), out)
	}

	listings, err := csv.NewReader(strings.NewReader(sections[0])).ReadAll()
	if err != nil {
		t.Fatalf("listing section is not valid CSV: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("Expected header and 1 listing row, got %d rows", len(listings))
	}
	if len(listings[1]) != len(listingHeader) {
		t.Errorf("listing row has %d fields, expected %d", len(listings[1]), len(listingHeader))
	}
	row := listings[1]
	if row[0] != "atx-1" || row[3] != "1500.00" || row[9] != "83" || row[11] != "78" {
		t.Errorf("listing row = %v", row)
	}
	if row[10] != "6 weeks free, on 13-month leases" {
		t.Errorf("offer text with a comma not preserved: %q", row[10])
	}

	recs, err := csv.NewReader(strings.NewReader(sections[1])).ReadAll()
	if err != nil {
		t.Fatalf("recommendation section is not valid CSV: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected header and 1 recommendation row, got %d rows", len(recs))
	}
	if recs[1][0] != "cc-101" || recs[1][3] != "9780.00" || recs[1][4] != "-18.5" || recs[1][5] != "aggressive_reduction" {
		t.Errorf("recommendation row = %v", recs[1])
	}
}

func TestCsvFormatNoPortfolio(t *testing.T) {
	r := sampleReport()
	r.Recommendations = nil

	out, err := CsvString(r)
	if err != nil {
		t.Fatalf("CsvString() error = %v", err)
	}
	if strings.Contains(out, "unit_id") {
		t.Errorf("CSV should omit the recommendations table when there are no units")
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, sampleReport()); err != nil {
		t.Fatalf("JSONFormat() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSONFormat() produced invalid JSON: %v", err)
	}
	for _, key := range []string{"as_of", "listings", "recommendations", "summary", "warnings"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON output missing key %q", key)
		}
	}
	summary := decoded["summary"].(map[string]interface{})
	if summary["immediate_action_count"] != float64(1) {
		t.Errorf("summary.immediate_action_count = %v, expected 1", summary["immediate_action_count"])
	}
}

func TestWrite(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		contains  string
		wantError bool
	}{
		{name: "Pretty", format: "pretty", contains: "--- Listings"},
		{name: "CSV", format: "csv", contains: "listing_id,name,city"},
		{name: "JSON", format: "json", contains: `"listing_id": "atx-1"`},
		{name: "Unsupported", format: "xml", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, sampleReport())
			if tt.wantError {
				if !errors.Is(err, validation.ErrInvalidOutputFormat) {
					t.Errorf("Write() error = %v, expected ErrInvalidOutputFormat", err)
				}
				if buf.Len() != 0 {
					t.Errorf("Write() wrote output for an invalid format")
				}
				return
			}
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("Write(%s) missing %q", tt.format, tt.contains)
			}
		})
	}
}
