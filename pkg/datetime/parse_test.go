package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		dateStr  string
		expected string
	}{
		{
			name:     "Valid date",
			layout:   DateLayout,
			dateStr:  "2025-01-15",
			expected: "2025-01-15",
		},
		{
			name:     "Another valid date",
			layout:   DateLayout,
			dateStr:  "2030-12-31",
			expected: "2030-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(tt.layout, tt.dateStr)
			if result.Format(tt.layout) != tt.expected {
				t.Errorf("MustParseTime() = %s, expected %s", result.Format(tt.layout), tt.expected)
			}
		})
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateLayout, "invalid-date")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantZero bool
		wantErr  bool
	}{
		{name: "Day layout", input: "2026-10-01", expected: "2026-10-01"},
		{name: "RFC3339", input: "2026-10-01T12:30:00Z", expected: "2026-10-01"},
		{name: "Month layout", input: "2026-10", expected: "2026-10-01"},
		{name: "Surrounding whitespace", input: "  2026-10-01 ", expected: "2026-10-01"},
		{name: "Empty is zero time", input: "", wantZero: true},
		{name: "Garbage", input: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error but got none", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if tt.wantZero {
				if !result.IsZero() {
					t.Errorf("ParseDate(%q) = %v, expected zero time", tt.input, result)
				}
				return
			}
			if got := result.Format(DateLayout); got != tt.expected {
				t.Errorf("ParseDate(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	base := MustParseTime(DateLayout, "2026-10-01")

	tests := []struct {
		name     string
		earlier  time.Time
		later    time.Time
		expected int
	}{
		{"Same day", base, base, 0},
		{"Two weeks", base, base.AddDate(0, 0, 14), 14},
		{"Reversed", base.AddDate(0, 0, 3), base, -3},
		{"Unset earlier", time.Time{}, base, 0},
		{"Unset later", base, time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.earlier, tt.later); got != tt.expected {
				t.Errorf("DaysBetween() = %d, expected %d", got, tt.expected)
			}
		})
	}
}
