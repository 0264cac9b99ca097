// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/rent-intel/internal/pricing"
	"github.com/iwvelando/rent-intel/internal/report"
)

// FindListing finds a listing by id in the report.
// Returns a pointer to the listing report if found, nil otherwise.
func FindListing(r report.Report, id string) *report.ListingReport {
	for i := range r.Listings {
		if r.Listings[i].Listing.ID == id {
			return &r.Listings[i]
		}
	}
	return nil
}

// FindRecommendation finds a recommendation by unit id.
// Returns a pointer to the recommendation if found, nil otherwise.
func FindRecommendation(recs []pricing.Recommendation, unitID string) *pricing.Recommendation {
	for i := range recs {
		if recs[i].UnitID == unitID {
			return &recs[i]
		}
	}
	return nil
}
