package match

import (
	"math"

	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/mathutil"
)

// LocationSignals supplies the commute and point-of-interest components of the
// location score. Implementations must be safe for concurrent use.
type LocationSignals interface {
	CommuteScore(listing model.Listing, commute *model.CommutePreferences) float64
	ProximityScore(listing model.Listing, pois []model.PointOfInterest) float64
}

// ConstantSignals returns the same scores for every listing. It stands in
// until routing data is available.
type ConstantSignals struct {
	Commute   float64
	Proximity float64
}

// DefaultSignals returns the constant placeholder signals.
func DefaultSignals() ConstantSignals {
	return ConstantSignals{
		Commute:   constants.DefaultCommuteScore,
		Proximity: constants.DefaultProximityScore,
	}
}

func (c ConstantSignals) CommuteScore(model.Listing, *model.CommutePreferences) float64 {
	return mathutil.ClampScore(c.Commute)
}

func (c ConstantSignals) ProximityScore(model.Listing, []model.PointOfInterest) float64 {
	return mathutil.ClampScore(c.Proximity)
}

// DistanceSignals scores proximity from great-circle distance to each point of
// interest: full marks within NearKm, zero beyond FarKm, linear in between,
// averaged across points. Commute and any listing without coordinates defer
// to Fallback.
type DistanceSignals struct {
	Fallback LocationSignals
	NearKm   float64
	FarKm    float64
}

// NewDistanceSignals returns distance signals over the default constants.
func NewDistanceSignals() DistanceSignals {
	return DistanceSignals{
		Fallback: DefaultSignals(),
		NearKm:   constants.ProximityNearKm,
		FarKm:    constants.ProximityFarKm,
	}
}

func (d DistanceSignals) fallback() LocationSignals {
	if d.Fallback == nil {
		return DefaultSignals()
	}
	return d.Fallback
}

func (d DistanceSignals) CommuteScore(listing model.Listing, commute *model.CommutePreferences) float64 {
	return d.fallback().CommuteScore(listing, commute)
}

func (d DistanceSignals) ProximityScore(listing model.Listing, pois []model.PointOfInterest) float64 {
	if !listing.HasCoordinates() || len(pois) == 0 || d.FarKm <= d.NearKm {
		return d.fallback().ProximityScore(listing, pois)
	}

	var total float64
	for _, poi := range pois {
		km := HaversineKm(*listing.Latitude, *listing.Longitude, poi.Latitude, poi.Longitude)
		t := (km - d.NearKm) / (d.FarKm - d.NearKm)
		total += mathutil.Lerp(constants.MaxScore, constants.MinScore, t)
	}
	return mathutil.ClampScore(total / float64(len(pois)))
}

// HaversineKm returns the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * constants.EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
