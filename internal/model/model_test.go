package model

import "testing"

func TestListingListedRent(t *testing.T) {
	tests := []struct {
		name     string
		listing  Listing
		expected float64
		present  bool
	}{
		{"Min rent wins", Listing{MinRent: 1500, MaxRent: 1800, CurrentRent: 1700}, 1500, true},
		{"Max rent when min missing", Listing{MaxRent: 1800, CurrentRent: 1700}, 1800, true},
		{"Current rent as last resort", Listing{CurrentRent: 1700}, 1700, true},
		{"Negative values are absent", Listing{MinRent: -1, MaxRent: 0}, 0, false},
		{"No rent", Listing{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rent, ok := tt.listing.ListedRent()
			if rent != tt.expected || ok != tt.present {
				t.Errorf("ListedRent() = (%v, %v), expected (%v, %v)", rent, ok, tt.expected, tt.present)
			}
		})
	}
}

func TestListingBedroomRange(t *testing.T) {
	tests := []struct {
		name   string
		l      Listing
		lo, hi int
	}{
		{"Explicit range", Listing{MinBedrooms: 0, MaxBedrooms: 1}, 0, 1},
		{"Missing max", Listing{MinBedrooms: 2}, 2, 2},
		{"Inverted", Listing{MinBedrooms: 3, MaxBedrooms: 1}, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := tt.l.BedroomRange()
			if lo != tt.lo || hi != tt.hi {
				t.Errorf("BedroomRange() = (%d, %d), expected (%d, %d)", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestListingHasCoordinates(t *testing.T) {
	lat, lng := 30.27, -97.74
	if (Listing{}).HasCoordinates() {
		t.Errorf("HasCoordinates() = true for a listing without coordinates")
	}
	if (Listing{Latitude: &lat}).HasCoordinates() {
		t.Errorf("HasCoordinates() = true with only latitude")
	}
	if !(Listing{Latitude: &lat, Longitude: &lng}).HasCoordinates() {
		t.Errorf("HasCoordinates() = false with both coordinates")
	}
}

func TestUnitBaseRent(t *testing.T) {
	tests := []struct {
		name     string
		unit     UnitMarketState
		expected float64
	}{
		{"Current rent", UnitMarketState{CurrentRent: 2000, EffectiveRent: 1900, OriginalRent: 2100}, 2000},
		{"Effective when current missing", UnitMarketState{EffectiveRent: 1900, OriginalRent: 2100}, 1900},
		{"Original as last resort", UnitMarketState{OriginalRent: 2100}, 2100},
		{"Nothing", UnitMarketState{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.BaseRent(); got != tt.expected {
				t.Errorf("BaseRent() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
