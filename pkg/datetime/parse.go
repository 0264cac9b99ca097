// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/rent-intel/pkg/constants"
)

const (
	// DateLayout is the format expected in config files and API payloads.
	DateLayout = constants.DateLayout
)

var acceptedLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01",
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a caller-supplied date in any accepted layout. An empty
// string yields the zero time.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, nil
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q, expected %s", value, DateLayout)
}

// DaysBetween returns the whole days elapsed from earlier to later. It is
// negative when later precedes earlier and 0 when either is unset.
func DaysBetween(earlier, later time.Time) int {
	if earlier.IsZero() || later.IsZero() {
		return 0
	}
	return int(later.Sub(earlier).Hours() / 24)
}
