// Package model defines the input records scored by the engine: listings,
// renter preferences and portfolio units.
package model

import "time"

// ConcessionType names the shape of a structured concession.
type ConcessionType string

const (
	ConcessionWeeksFree       ConcessionType = "weeks_free"
	ConcessionMonthsFree      ConcessionType = "months_free"
	ConcessionPercentOff      ConcessionType = "percent_off"
	ConcessionMonthlyDiscount ConcessionType = "monthly_discount"
	ConcessionUpfrontCredit   ConcessionType = "upfront_credit"
)

// Concession is a landlord discount supplied as structured data rather than offer copy.
type Concession struct {
	Type  ConcessionType `json:"type" mapstructure:"type"`
	Value float64        `json:"value" mapstructure:"value"`
}

// Listing is a rental listing as supplied by listing storage. Rent values of
// zero or less are treated as absent.
type Listing struct {
	ID        string   `json:"id" mapstructure:"id"`
	Name      string   `json:"name" mapstructure:"name"`
	City      string   `json:"city" mapstructure:"city"`
	Zip       string   `json:"zip,omitempty" mapstructure:"zip"`
	Latitude  *float64 `json:"latitude,omitempty" mapstructure:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" mapstructure:"longitude"`

	MinRent        float64 `json:"min_rent,omitempty" mapstructure:"min_rent"`
	MaxRent        float64 `json:"max_rent,omitempty" mapstructure:"max_rent"`
	CurrentRent    float64 `json:"current_rent,omitempty" mapstructure:"current_rent"`
	EffectivePrice float64 `json:"effective_price,omitempty" mapstructure:"effective_price"`

	MinBedrooms int     `json:"min_bedrooms" mapstructure:"min_bedrooms"`
	MaxBedrooms int     `json:"max_bedrooms" mapstructure:"max_bedrooms"`
	Bathrooms   float64 `json:"bathrooms,omitempty" mapstructure:"bathrooms"`
	SquareFeet  int     `json:"sqft,omitempty" mapstructure:"sqft"`

	Amenities    []string    `json:"amenities,omitempty" mapstructure:"amenities"`
	PetPolicy    string      `json:"pet_policy,omitempty" mapstructure:"pet_policy"`
	SpecialOffer string      `json:"special_offer,omitempty" mapstructure:"special_offer"`
	Concession   *Concession `json:"concession,omitempty" mapstructure:"concession"`

	UpdatedAt time.Time `json:"updated_at,omitempty" mapstructure:"updated_at"`
}

// ListedRent returns the first present rent field: min, max, then current.
// The boolean is false when the listing carries no rent at all.
func (l Listing) ListedRent() (float64, bool) {
	for _, rent := range []float64{l.MinRent, l.MaxRent, l.CurrentRent} {
		if rent > 0 {
			return rent, true
		}
	}
	return 0, false
}

// BedroomRange returns the inclusive bedroom range. A missing or inverted
// maximum collapses to the minimum.
func (l Listing) BedroomRange() (int, int) {
	lo, hi := l.MinBedrooms, l.MaxBedrooms
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}
