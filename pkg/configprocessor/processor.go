// Package configprocessor provides shared configuration processing utilities.
package configprocessor

import (
	"fmt"

	"github.com/iwvelando/rent-intel/pkg/validation"
)

// ListingInfo represents listing configuration information
type ListingInfo struct {
	ID      string
	City    string
	HasRent bool
}

// UnitInfo represents portfolio unit configuration information
type UnitInfo struct {
	ID               string
	HasRent          bool
	LeaseProbability float64
}

// Processor handles configuration processing and validation
type Processor struct {
	knownCity func(string) bool
}

// NewProcessor creates a new configuration processor. knownCity reports
// whether a city has a reference median; nil treats every city as known.
func NewProcessor(knownCity func(string) bool) *Processor {
	if knownCity == nil {
		knownCity = func(string) bool { return true }
	}
	return &Processor{knownCity: knownCity}
}

// ValidateConfiguration validates the configuration and returns warnings
func (p *Processor) ValidateConfiguration(listings []ListingInfo, units []UnitInfo) []string {
	var warnings []string

	seenListings := make(map[string]bool, len(listings))
	for _, listing := range listings {
		warnings = append(warnings, validation.ValidateListing(validation.ListingRecord{
			ID:        listing.ID,
			City:      listing.City,
			HasRent:   listing.HasRent,
			KnownCity: listing.City != "" && p.knownCity(listing.City),
		})...)
		if listing.ID != "" {
			if seenListings[listing.ID] {
				warnings = append(warnings, fmt.Sprintf("Listing id '%s' appears more than once", listing.ID))
			}
			seenListings[listing.ID] = true
		}
	}

	seenUnits := make(map[string]bool, len(units))
	for _, unit := range units {
		warnings = append(warnings, validation.ValidateUnit(validation.UnitRecord{
			ID:               unit.ID,
			HasRent:          unit.HasRent,
			LeaseProbability: unit.LeaseProbability,
		})...)
		if unit.ID != "" {
			if seenUnits[unit.ID] {
				warnings = append(warnings, fmt.Sprintf("Unit id '%s' appears more than once", unit.ID))
			}
			seenUnits[unit.ID] = true
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
