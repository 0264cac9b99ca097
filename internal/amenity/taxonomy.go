// Package amenity detects amenities in listing free text and maps structured
// renter preferences onto the same canonical labels.
package amenity

import (
	"strings"

	"github.com/iwvelando/rent-intel/internal/model"
)

// Canonical labels referenced elsewhere in the engine.
const (
	PetFriendly = "Pet-Friendly"
	Parking     = "Parking"
	Laundry     = "Laundry"
)

type entry struct {
	label    string
	keywords []string
	// excludes suppresses a keyword hit when the same tag also contains one of
	// these phrases.
	excludes []string
}

// Matching is substring based within a single tag. A hit preceded by a
// negation ("no pets allowed", "without parking") does not count.
var defaultEntries = []entry{
	{"Pool", []string{"pool", "swimming"}, nil},
	{"Fitness Center", []string{"fitness", "gym", "workout"}, nil},
	{PetFriendly, []string{"pet friendly", "pet-friendly", "pets allowed", "pets ok", "pets welcome", "dogs allowed", "cats allowed", "dog friendly", "cat friendly", "dogs ok", "cats ok"}, nil},
	{"Dog-Friendly", []string{"dogs allowed", "dog friendly", "dog-friendly", "dogs ok", "dogs welcome"}, nil},
	{"Cat-Friendly", []string{"cats allowed", "cat friendly", "cat-friendly", "cats ok", "cats welcome"}, nil},
	{Parking, []string{"parking", "garage", "carport"}, []string{"street parking only"}},
	{"Garage", []string{"garage"}, nil},
	{"Covered Parking", []string{"covered parking", "carport"}, nil},
	{"Street Parking", []string{"street parking"}, nil},
	{"EV Charging", []string{"ev charging", "electric vehicle", "car charging"}, nil},
	{Laundry, []string{"laundry", "washer/dryer", "washer and dryer", "washer & dryer", "in-unit washer", "w/d"}, []string{"hookup", "hook-up"}},
	{"In-Unit Laundry", []string{"in-unit laundry", "in unit laundry", "washer/dryer in unit", "w/d in unit", "in-unit washer", "washer and dryer in unit", "in-home laundry"}, nil},
	{"Washer/Dryer Hookups", []string{"hookup", "hook-up"}, nil},
	{"Laundry Facilities", []string{"laundry facilit", "laundry room", "on-site laundry", "onsite laundry", "shared laundry"}, nil},
	{"Dishwasher", []string{"dishwasher"}, nil},
	{"Air Conditioning", []string{"air conditioning", "a/c", "central air", "ac unit"}, nil},
	{"Balcony", []string{"balcony", "balconies"}, nil},
	{"Patio", []string{"patio", "terrace"}, nil},
	{"Hardwood Floors", []string{"hardwood", "wood floor", "wood-style floor"}, nil},
	{"Walk-In Closet", []string{"walk-in closet", "walk in closet"}, nil},
	{"Fireplace", []string{"fireplace"}, nil},
	{"Stainless Appliances", []string{"stainless"}, nil},
	{"Granite Countertops", []string{"granite", "quartz"}, nil},
	{"Ceiling Fans", []string{"ceiling fan"}, nil},
	{"Furnished", []string{"furnished"}, nil},
	{"Elevator", []string{"elevator"}, nil},
	{"Doorman", []string{"doorman", "door attendant"}, nil},
	{"Concierge", []string{"concierge"}, nil},
	{"Rooftop", []string{"rooftop", "roof deck", "roof-top"}, nil},
	{"Clubhouse", []string{"clubhouse", "club house", "resident lounge"}, nil},
	{"Business Center", []string{"business center", "coworking", "co-working"}, nil},
	{"Package Lockers", []string{"package", "parcel"}, nil},
	{"Bike Storage", []string{"bike storage", "bicycle"}, nil},
	{"Storage", []string{"storage"}, nil},
	{"Dog Park", []string{"dog park", "dog run", "pet park"}, nil},
	{"Playground", []string{"playground"}, nil},
	{"Gated", []string{"gated", "gate"}, nil},
	{"Security System", []string{"security", "alarm", "surveillance", "camera"}, nil},
	{"Controlled Access", []string{"controlled access", "key fob", "keyless", "access control"}, nil},
	{"On-Site Staff", []string{"on-site management", "on-site maintenance", "onsite staff", "on-site staff", "24-hour maintenance"}, nil},
	{"Wheelchair Accessible", []string{"wheelchair", "ada accessible", "ada compliant", "accessible"}, nil},
	{"Ground Floor", []string{"ground floor", "first floor", "first-floor"}, nil},
	{"Utilities Included", []string{"utilities included", "all utilities", "all bills paid", "utilities paid"}, nil},
	{"Internet Included", []string{"internet", "wifi", "wi-fi", "fiber", "broadband"}, nil},
	{"Water Included", []string{"water included", "water paid", "water/sewer"}, nil},
	{"Gas Included", []string{"gas included", "gas paid"}, nil},
	{"Electric Included", []string{"electric included", "electricity included"}, nil},
	{"Trash Included", []string{"trash"}, nil},
	{"Near Transit", []string{"transit", "metro", "subway", "light rail", "bus stop", "train"}, nil},
	{"Walkable", []string{"walkable", "walk score", "walking distance"}, nil},
}

// negations are the words that, shortly before a keyword, deny it.
var negations = map[string]bool{
	"no":      true,
	"not":     true,
	"without": true,
	"non":     true,
	"none":    true,
}

// negationWindow is how many words before a keyword are checked for a negation.
const negationWindow = 3

// Taxonomy maps canonical labels to lowercase keywords. It is read-only once built.
type Taxonomy struct {
	labels    []string
	keywords  map[string][]string
	excludes  map[string][]string
	canonical map[string]string
}

func newTaxonomy(entries []entry) *Taxonomy {
	t := &Taxonomy{
		labels:    make([]string, 0, len(entries)),
		keywords:  make(map[string][]string, len(entries)),
		excludes:  make(map[string][]string, len(entries)),
		canonical: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		t.labels = append(t.labels, e.label)
		t.keywords[e.label] = append([]string(nil), e.keywords...)
		if len(e.excludes) > 0 {
			t.excludes[e.label] = append([]string(nil), e.excludes...)
		}
		t.canonical[strings.ToLower(e.label)] = e.label
	}
	return t
}

var defaultTaxonomy = newTaxonomy(defaultEntries)

// Default returns the built-in taxonomy.
func Default() *Taxonomy {
	return defaultTaxonomy
}

// Labels returns every canonical label in taxonomy order.
func (t *Taxonomy) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Canonical returns the canonical spelling of label, matching
// case-insensitively. Unknown labels come back trimmed but otherwise unchanged.
func (t *Taxonomy) Canonical(label string) string {
	trimmed := strings.TrimSpace(label)
	if canonical, ok := t.canonical[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// Has reports whether listing mentions label anywhere in its amenity tags,
// pet policy or name. Labels outside the taxonomy match on their own text.
func (t *Taxonomy) Has(listing model.Listing, label string) bool {
	return t.hasIn(haystack(listing), label)
}

// Match splits labels into those the listing has and those it lacks,
// preserving input order.
func (t *Taxonomy) Match(listing model.Listing, labels []string) (matched, missing []string) {
	hay := haystack(listing)
	for _, label := range labels {
		if t.hasIn(hay, label) {
			matched = append(matched, label)
		} else {
			missing = append(missing, label)
		}
	}
	return matched, missing
}

// Detect lists every taxonomy label the listing has, in taxonomy order.
func (t *Taxonomy) Detect(listing model.Listing) []string {
	hay := haystack(listing)
	var found []string
	for _, label := range t.labels {
		if t.hasIn(hay, label) {
			found = append(found, label)
		}
	}
	return found
}

func (t *Taxonomy) hasIn(hay []string, label string) bool {
	canonical := t.Canonical(label)
	keywords, ok := t.keywords[canonical]
	if !ok {
		fallback := strings.ToLower(canonical)
		if fallback == "" {
			return false
		}
		keywords = []string{fallback}
	}
	excludes := t.excludes[canonical]

	for _, tag := range hay {
		if containsAny(tag, excludes) {
			continue
		}
		for _, keyword := range keywords {
			if affirms(tag, keyword) {
				return true
			}
		}
	}
	return false
}

// affirms reports whether keyword occurs in tag at least once without a
// negation in the few words before it.
func affirms(tag, keyword string) bool {
	for offset := 0; offset < len(tag); {
		i := strings.Index(tag[offset:], keyword)
		if i < 0 {
			return false
		}
		start := offset + i
		if !negated(tag[:start]) {
			return true
		}
		offset = start + len(keyword)
	}
	return false
}

// negated reports whether the clause ending at prefix denies what follows.
// Clause punctuation resets the window.
func negated(prefix string) bool {
	if i := strings.LastIndexAny(prefix, ",;.()|"); i >= 0 {
		prefix = prefix[i+1:]
	}
	words := strings.FieldsFunc(prefix, func(r rune) bool {
		return r == ' ' || r == '-' || r == '/' || r == '\t'
	})
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	for _, word := range words {
		if negations[word] {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// haystack lowercases every amenity tag, the pet policy and the name. Each is
// matched on its own so a negation in one tag never leaks into another.
func haystack(listing model.Listing) []string {
	parts := make([]string, 0, len(listing.Amenities)+2)
	for _, part := range append(append([]string(nil), listing.Amenities...), listing.PetPolicy, listing.Name) {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// HasAmenity reports whether listing has label according to the default taxonomy.
func HasAmenity(listing model.Listing, label string) bool {
	return defaultTaxonomy.Has(listing, label)
}
