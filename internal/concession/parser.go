// Package concession extracts monetary value from landlord special offers.
//
// Offer copy is short and templated ("6 weeks free", "$500 off first month",
// "Look & Lease special"), so a handful of auditable patterns does better than
// anything clever. Each rule is evaluated independently and contributions are
// summed, except for the fallback rules that only apply while nothing else has
// produced a value.
package concession

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/constants"
)

// Offer is the value extracted from a special offer. UpfrontValue is a one-time
// saving; MonthlyValue recurs every month of the lease.
type Offer struct {
	UpfrontValue float64 `json:"upfront_value"`
	MonthlyValue float64 `json:"monthly_value"`
	Text         string  `json:"text"`
}

// IsZero reports whether the offer carries no value.
func (o Offer) IsZero() bool {
	return o.UpfrontValue == 0 && o.MonthlyValue == 0
}

var (
	weeksFreeRe  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*weeks?\s+(?:of\s+)?free`)
	monthsFreeRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*months?\s+(?:of\s+)?free`)
	dollarsOffRe = regexp.MustCompile(`\$\s*(\d[\d,]*(?:\.\d+)?)\s*off`)
	percentOffRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*off`)
	lookLeaseRe  = regexp.MustCompile(`look\s*(?:&|and)\s*lease`)
	moveInRe     = regexp.MustCompile(`move[\s-]?in special|reduced`)
)

// ParseOffer extracts concession value from offer text, pricing time-based
// offers against rentBasis. Text that matches no rule yields a zero Offer with
// empty Text.
func ParseOffer(text string, rentBasis float64) Offer {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return Offer{}
	}

	var offer Offer

	for _, n := range captureNumbers(weeksFreeRe, lower) {
		offer.UpfrontValue += math.Round(n / constants.WeeksPerMonth * rentBasis)
	}
	for _, n := range captureNumbers(monthsFreeRe, lower) {
		offer.UpfrontValue += n * rentBasis
	}
	for _, amount := range captureNumbers(dollarsOffRe, lower) {
		if amount > constants.UpfrontDiscountThreshold {
			offer.UpfrontValue += amount
		} else {
			offer.MonthlyValue += amount
		}
	}
	for _, pct := range captureNumbers(percentOffRe, lower) {
		offer.MonthlyValue += math.Round(pct / constants.PercentageMultiplier * rentBasis)
	}

	if offer.IsZero() && lookLeaseRe.MatchString(lower) {
		offer.UpfrontValue = constants.LookAndLeaseValue
	}
	if offer.IsZero() && moveInRe.MatchString(lower) {
		offer.UpfrontValue = constants.MoveInSpecialValue
	}
	if offer.UpfrontValue == 0 && strings.Contains(lower, "waiv") {
		offer.UpfrontValue = constants.WaivedFeeValue
	}

	if offer.IsZero() {
		return Offer{}
	}
	offer.Text = normalize(text)
	return offer
}

// FromStructured converts a structured concession into an Offer priced against
// rentBasis. Unknown types and non-positive values yield a zero Offer.
func FromStructured(c *model.Concession, rentBasis float64) Offer {
	if c == nil || c.Value <= 0 {
		return Offer{}
	}

	var offer Offer
	switch c.Type {
	case model.ConcessionWeeksFree:
		offer.UpfrontValue = math.Round(c.Value / constants.WeeksPerMonth * rentBasis)
		offer.Text = fmt.Sprintf("%s %s free", trimFloat(c.Value), plural(c.Value, "week"))
	case model.ConcessionMonthsFree:
		offer.UpfrontValue = c.Value * rentBasis
		offer.Text = fmt.Sprintf("%s %s free", trimFloat(c.Value), plural(c.Value, "month"))
	case model.ConcessionPercentOff:
		offer.MonthlyValue = math.Round(c.Value / constants.PercentageMultiplier * rentBasis)
		offer.Text = fmt.Sprintf("%s%% off monthly rent", trimFloat(c.Value))
	case model.ConcessionMonthlyDiscount:
		offer.MonthlyValue = c.Value
		offer.Text = fmt.Sprintf("$%s off monthly rent", trimFloat(c.Value))
	case model.ConcessionUpfrontCredit:
		offer.UpfrontValue = c.Value
		offer.Text = fmt.Sprintf("$%s move-in credit", trimFloat(c.Value))
	default:
		return Offer{}
	}
	return offer
}

func captureNumbers(re *regexp.Regexp, text string) []float64 {
	var values []float64
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
		if err != nil || n <= 0 {
			continue
		}
		values = append(values, n)
	}
	return values
}

func normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(n float64, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
