package amenity

import (
	"strings"

	"github.com/iwvelando/rent-intel/internal/model"
)

type flag struct {
	on    bool
	label string
}

// ExpandStructuredPreferences flattens the structured preference sections of
// profile into canonical amenity labels. Sections are walked in a fixed order
// and each label appears at most once.
func ExpandStructuredPreferences(profile model.PreferenceProfile) []string {
	s := profile.Structured
	if s == nil {
		return nil
	}

	var flags []flag
	if b := s.Building; b != nil {
		flags = append(flags,
			flag{b.Pool, "Pool"},
			flag{b.FitnessCenter, "Fitness Center"},
			flag{b.Elevator, "Elevator"},
			flag{b.Doorman, "Doorman"},
			flag{b.Concierge, "Concierge"},
			flag{b.Rooftop, "Rooftop"},
			flag{b.Clubhouse, "Clubhouse"},
			flag{b.BusinessCenter, "Business Center"},
			flag{b.PackageLockers, "Package Lockers"},
			flag{b.BikeStorage, "Bike Storage"},
			flag{b.Storage, "Storage"},
			flag{b.DogPark, "Dog Park"},
			flag{b.Playground, "Playground"},
			flag{b.LaundryRoom, "Laundry Facilities"},
		)
	}
	if u := s.InUnit; u != nil {
		flags = append(flags,
			flag{u.Laundry, "In-Unit Laundry"},
			flag{u.WasherDryerHookups, "Washer/Dryer Hookups"},
			flag{u.Dishwasher, "Dishwasher"},
			flag{u.AirConditioning, "Air Conditioning"},
			flag{u.Balcony, "Balcony"},
			flag{u.HardwoodFloors, "Hardwood Floors"},
			flag{u.WalkInCloset, "Walk-In Closet"},
			flag{u.Fireplace, "Fireplace"},
			flag{u.StainlessAppliances, "Stainless Appliances"},
			flag{u.GraniteCountertops, "Granite Countertops"},
			flag{u.CeilingFans, "Ceiling Fans"},
			flag{u.Furnished, "Furnished"},
		)
	}
	if u := s.Utilities; u != nil {
		flags = append(flags,
			flag{u.AllIncluded, "Utilities Included"},
			flag{u.Internet, "Internet Included"},
			flag{u.Water, "Water Included"},
			flag{u.Gas, "Gas Included"},
			flag{u.Electric, "Electric Included"},
			flag{u.Trash, "Trash Included"},
		)
	}
	if p := s.Parking; p != nil {
		if label := parkingLabel(p.Type); label != "" {
			flags = append(flags, flag{true, label})
		}
		flags = append(flags, flag{p.EVCharging, "EV Charging"})
	}
	if p := s.Pets; p != nil {
		flags = append(flags,
			flag{p.Dogs || p.Cats, PetFriendly},
			flag{p.Dogs, "Dog-Friendly"},
			flag{p.Cats, "Cat-Friendly"},
		)
	}
	if sf := s.Safety; sf != nil {
		flags = append(flags,
			flag{sf.Gated, "Gated"},
			flag{sf.SecuritySystem, "Security System"},
			flag{sf.ControlledAccess, "Controlled Access"},
			flag{sf.OnSiteStaff, "On-Site Staff"},
		)
	}
	if a := s.Accessibility; a != nil {
		flags = append(flags,
			flag{a.WheelchairAccessible, "Wheelchair Accessible"},
			flag{a.Elevator, "Elevator"},
			flag{a.GroundFloor, "Ground Floor"},
		)
	}
	if l := s.Location; l != nil {
		flags = append(flags,
			flag{l.NearTransit, "Near Transit"},
			flag{l.Walkable, "Walkable"},
		)
	}

	seen := make(map[string]bool, len(flags))
	var labels []string
	for _, f := range flags {
		if !f.on || seen[f.label] {
			continue
		}
		seen[f.label] = true
		labels = append(labels, f.label)
	}
	return labels
}

func parkingLabel(parkingType string) string {
	switch strings.ToLower(strings.TrimSpace(parkingType)) {
	case "", "none":
		return ""
	case "garage":
		return "Garage"
	case "covered":
		return "Covered Parking"
	case "street":
		return "Street Parking"
	default:
		return Parking
	}
}

// DesiredAmenities merges the flat amenity list with the expanded structured
// sections. Known labels are canonicalized and duplicates are dropped
// case-insensitively, keeping the first occurrence.
func DesiredAmenities(profile model.PreferenceProfile) []string {
	candidates := make([]string, 0, len(profile.Amenities))
	candidates = append(candidates, profile.Amenities...)
	candidates = append(candidates, ExpandStructuredPreferences(profile)...)

	seen := make(map[string]bool, len(candidates))
	var labels []string
	for _, candidate := range candidates {
		label := defaultTaxonomy.Canonical(candidate)
		key := strings.ToLower(label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, label)
	}
	return labels
}
