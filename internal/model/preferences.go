package model

// AnyBedrooms is the bedroom preference that accepts every listing.
const AnyBedrooms = "any"

// PreferenceProfile captures what a renter is looking for. The structured
// sections are UI toggles that expand into the same label space as Amenities.
type PreferenceProfile struct {
	Bedrooms     string                 `json:"bedrooms,omitempty" mapstructure:"bedrooms"`
	Amenities    []string               `json:"amenities,omitempty" mapstructure:"amenities"`
	DealBreakers []string               `json:"deal_breakers,omitempty" mapstructure:"deal_breakers"`
	Structured   *StructuredPreferences `json:"structured,omitempty" mapstructure:"structured"`
}

// StructuredPreferences groups the optional typed preference sections.
type StructuredPreferences struct {
	Building      *BuildingAmenities `json:"building_amenities,omitempty" mapstructure:"building_amenities"`
	InUnit        *InUnitFeatures    `json:"in_unit_features,omitempty" mapstructure:"in_unit_features"`
	Utilities     *Utilities         `json:"utilities,omitempty" mapstructure:"utilities"`
	Parking       *Parking           `json:"parking,omitempty" mapstructure:"parking"`
	Pets          *PetPolicy         `json:"pet_policy,omitempty" mapstructure:"pet_policy"`
	Safety        *Safety            `json:"safety,omitempty" mapstructure:"safety"`
	Accessibility *Accessibility     `json:"accessibility,omitempty" mapstructure:"accessibility"`
	Location      *LocationFeatures  `json:"location,omitempty" mapstructure:"location"`
}

type BuildingAmenities struct {
	Pool           bool `json:"pool,omitempty" mapstructure:"pool"`
	FitnessCenter  bool `json:"fitness_center,omitempty" mapstructure:"fitness_center"`
	Elevator       bool `json:"elevator,omitempty" mapstructure:"elevator"`
	Doorman        bool `json:"doorman,omitempty" mapstructure:"doorman"`
	Concierge      bool `json:"concierge,omitempty" mapstructure:"concierge"`
	Rooftop        bool `json:"rooftop,omitempty" mapstructure:"rooftop"`
	Clubhouse      bool `json:"clubhouse,omitempty" mapstructure:"clubhouse"`
	BusinessCenter bool `json:"business_center,omitempty" mapstructure:"business_center"`
	PackageLockers bool `json:"package_lockers,omitempty" mapstructure:"package_lockers"`
	BikeStorage    bool `json:"bike_storage,omitempty" mapstructure:"bike_storage"`
	Storage        bool `json:"storage,omitempty" mapstructure:"storage"`
	DogPark        bool `json:"dog_park,omitempty" mapstructure:"dog_park"`
	Playground     bool `json:"playground,omitempty" mapstructure:"playground"`
	LaundryRoom    bool `json:"laundry_room,omitempty" mapstructure:"laundry_room"`
}

type InUnitFeatures struct {
	Laundry             bool `json:"laundry,omitempty" mapstructure:"laundry"`
	WasherDryerHookups  bool `json:"washer_dryer_hookups,omitempty" mapstructure:"washer_dryer_hookups"`
	Dishwasher          bool `json:"dishwasher,omitempty" mapstructure:"dishwasher"`
	AirConditioning     bool `json:"air_conditioning,omitempty" mapstructure:"air_conditioning"`
	Balcony             bool `json:"balcony,omitempty" mapstructure:"balcony"`
	HardwoodFloors      bool `json:"hardwood_floors,omitempty" mapstructure:"hardwood_floors"`
	WalkInCloset        bool `json:"walk_in_closet,omitempty" mapstructure:"walk_in_closet"`
	Fireplace           bool `json:"fireplace,omitempty" mapstructure:"fireplace"`
	StainlessAppliances bool `json:"stainless_appliances,omitempty" mapstructure:"stainless_appliances"`
	GraniteCountertops  bool `json:"granite_countertops,omitempty" mapstructure:"granite_countertops"`
	CeilingFans         bool `json:"ceiling_fans,omitempty" mapstructure:"ceiling_fans"`
	Furnished           bool `json:"furnished,omitempty" mapstructure:"furnished"`
}

type Utilities struct {
	AllIncluded bool `json:"all_included,omitempty" mapstructure:"all_included"`
	Internet    bool `json:"internet,omitempty" mapstructure:"internet"`
	Water       bool `json:"water,omitempty" mapstructure:"water"`
	Gas         bool `json:"gas,omitempty" mapstructure:"gas"`
	Electric    bool `json:"electric,omitempty" mapstructure:"electric"`
	Trash       bool `json:"trash,omitempty" mapstructure:"trash"`
}

// Parking.Type is one of none, any, surface, covered, garage, street.
type Parking struct {
	Type       string `json:"type,omitempty" mapstructure:"type"`
	EVCharging bool   `json:"ev_charging,omitempty" mapstructure:"ev_charging"`
}

type PetPolicy struct {
	Dogs bool `json:"dogs,omitempty" mapstructure:"dogs"`
	Cats bool `json:"cats,omitempty" mapstructure:"cats"`
}

type Safety struct {
	Gated            bool `json:"gated,omitempty" mapstructure:"gated"`
	SecuritySystem   bool `json:"security_system,omitempty" mapstructure:"security_system"`
	ControlledAccess bool `json:"controlled_access,omitempty" mapstructure:"controlled_access"`
	OnSiteStaff      bool `json:"on_site_staff,omitempty" mapstructure:"on_site_staff"`
}

type Accessibility struct {
	WheelchairAccessible bool `json:"wheelchair_accessible,omitempty" mapstructure:"wheelchair_accessible"`
	Elevator             bool `json:"elevator,omitempty" mapstructure:"elevator"`
	GroundFloor          bool `json:"ground_floor,omitempty" mapstructure:"ground_floor"`
}

type LocationFeatures struct {
	NearTransit bool `json:"near_transit,omitempty" mapstructure:"near_transit"`
	Walkable    bool `json:"walkable,omitempty" mapstructure:"walkable"`
}

// MarketContext is per-call market data from the market-data collaborator.
// A nil LeverageScore means none was supplied.
type MarketContext struct {
	LeverageScore *float64 `json:"leverage_score,omitempty" mapstructure:"leverage_score"`
	MedianRent    float64  `json:"median_rent,omitempty" mapstructure:"median_rent"`
}

// PointOfInterest is a place the renter cares about being near.
type PointOfInterest struct {
	Name      string  `json:"name" mapstructure:"name"`
	Category  string  `json:"category,omitempty" mapstructure:"category"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

// CommutePreferences describe the renter's commute; travel times are supplied
// by routing collaborators, not computed here.
type CommutePreferences struct {
	Destination string `json:"destination,omitempty" mapstructure:"destination"`
	Mode        string `json:"mode,omitempty" mapstructure:"mode"`
	MaxMinutes  int    `json:"max_minutes,omitempty" mapstructure:"max_minutes"`
}
