package validation

import (
	"fmt"
)

// ListingRecord is the subset of a listing that input sanity checks look at.
type ListingRecord struct {
	ID        string
	City      string
	HasRent   bool
	KnownCity bool
}

// UnitRecord is the subset of a portfolio unit that input sanity checks look at.
type UnitRecord struct {
	ID               string
	HasRent          bool
	LeaseProbability float64
}

// ValidateListing returns warnings for a listing the engine can score but
// only by substituting defaults.
func ValidateListing(l ListingRecord) []string {
	var warnings []string
	name := l.ID
	if name == "" {
		name = "(unnamed)"
		warnings = append(warnings, "Listing without an id will be hard to trace in reports")
	}
	if !l.HasRent {
		warnings = append(warnings, fmt.Sprintf("Listing '%s' has no rent; the market median will be used", name))
	}
	if l.City == "" {
		warnings = append(warnings, fmt.Sprintf("Listing '%s' has no city; the default median will be used", name))
	} else if !l.KnownCity {
		warnings = append(warnings, fmt.Sprintf("Listing '%s' is in '%s', which has no reference median; the default will be used", name, l.City))
	}
	return warnings
}

// ValidateUnit returns warnings for a portfolio unit with missing or
// out-of-range inputs.
func ValidateUnit(u UnitRecord) []string {
	var warnings []string
	name := u.ID
	if name == "" {
		name = "(unnamed)"
		warnings = append(warnings, "Unit without an id will be hard to trace in reports")
	}
	if !u.HasRent {
		warnings = append(warnings, fmt.Sprintf("Unit '%s' has no rent; its recommendation will be all zeros", name))
	}
	if u.LeaseProbability < 0 || u.LeaseProbability > 1 {
		warnings = append(warnings, fmt.Sprintf("Unit '%s' lease probability %.2f is outside 0-1 and will be clamped", name, u.LeaseProbability))
	}
	return warnings
}
