// Package market resolves the reference median rent for a city.
package market

import (
	"sort"

	"github.com/iwvelando/rent-intel/pkg/constants"
)

// Resolver returns the median rent a listing in city is compared against.
// An override above zero always wins.
type Resolver interface {
	MedianRent(city string, override float64) float64
}

// curatedMedians is the built-in reference table. It is never mutated; every
// Table holds its own copy.
var curatedMedians = map[string]float64{
	"Atlanta":       1700,
	"Austin":        1650,
	"Boston":        3000,
	"Charlotte":     1550,
	"Chicago":       1900,
	"Dallas":        1450,
	"Denver":        1850,
	"Houston":       1350,
	"Los Angeles":   2800,
	"Miami":         2500,
	"Nashville":     1750,
	"New York":      3500,
	"Orlando":       1700,
	"Philadelphia":  1750,
	"Phoenix":       1500,
	"Portland":      1750,
	"Raleigh":       1500,
	"San Antonio":   1250,
	"San Diego":     2700,
	"San Francisco": 3200,
	"Seattle":       2300,
	"Washington":    2400,
}

// Table is an immutable city to median rent lookup with a default fallback.
type Table struct {
	medians  map[string]float64
	fallback float64
}

// Entry is a single city median, as supplied by configuration.
type Entry struct {
	City   string  `json:"city" yaml:"city" mapstructure:"city"`
	Median float64 `json:"median" yaml:"median" mapstructure:"median"`
}

// NewTable copies medians into a new Table. A non-positive fallback uses the
// package default.
func NewTable(medians map[string]float64, fallback float64) *Table {
	if fallback <= 0 {
		fallback = constants.DefaultMedianRent
	}
	copied := make(map[string]float64, len(medians))
	for city, median := range medians {
		if median > 0 {
			copied[city] = median
		}
	}
	return &Table{medians: copied, fallback: fallback}
}

// DefaultTable returns the curated reference table.
func DefaultTable() *Table {
	return NewTable(curatedMedians, constants.DefaultMedianRent)
}

// WithEntries returns a new Table with entries layered over t. A positive
// fallback replaces t's default. t itself is left untouched.
func (t *Table) WithEntries(entries []Entry, fallback float64) *Table {
	merged := make(map[string]float64, len(t.medians)+len(entries))
	for city, median := range t.medians {
		merged[city] = median
	}
	for _, entry := range entries {
		if entry.City != "" && entry.Median > 0 {
			merged[entry.City] = entry.Median
		}
	}
	if fallback <= 0 {
		fallback = t.fallback
	}
	return NewTable(merged, fallback)
}

// MedianRent implements Resolver. Cities are matched exactly; unknown cities
// fall back to the table default without error.
func (t *Table) MedianRent(city string, override float64) float64 {
	if override > 0 {
		return override
	}
	if median, ok := t.medians[city]; ok {
		return median
	}
	return t.fallback
}

// Known reports whether city has its own entry.
func (t *Table) Known(city string) bool {
	_, ok := t.medians[city]
	return ok
}

// Default returns the fallback median.
func (t *Table) Default() float64 {
	return t.fallback
}

// Cities lists the cities in the table in alphabetical order.
func (t *Table) Cities() []string {
	cities := make([]string, 0, len(t.medians))
	for city := range t.medians {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
