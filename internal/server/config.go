package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/rent-intel/internal/config"
	"github.com/iwvelando/rent-intel/internal/market"
	"github.com/iwvelando/rent-intel/internal/match"
	"github.com/iwvelando/rent-intel/internal/report"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"gopkg.in/yaml.v3"
)

// ErrInvalidServerConfig is returned when the server configuration holds
// values the scoring endpoints cannot use.
var ErrInvalidServerConfig = errors.New("invalid server config")

// Config defines runtime parameters for the HTTP server and the market and
// scoring settings its single-listing endpoints score with.
type Config struct {
	Address       string               `yaml:"address"`
	MaxUploadSize string               `yaml:"maxUploadSize"`
	Logging       config.LoggingConfig `yaml:"logging"`
	Market        config.MarketConfig  `yaml:"market"`
	Scoring       config.ScoringConfig `yaml:"scoring"`

	uploadSizeBytes int64
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig reads the server configuration at path. A missing file or an
// empty path yields DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured upload size in bytes.
func (c *Config) UploadSizeBytes() int64 {
	if c.uploadSizeBytes <= 0 {
		return constants.DefaultMaxUploadSizeBytes
	}
	return c.uploadSizeBytes
}

// MarketTable returns the curated medians extended with the configured ones.
func (c *Config) MarketTable() *market.Table {
	return market.DefaultTable().WithEntries(c.Market.Medians, c.Market.DefaultMedian)
}

// LocationSignals returns the commute and proximity signals /api/match scores
// with, built the same way as for a report.
func (c *Config) LocationSignals() match.LocationSignals {
	return report.LocationSignals(c.Scoring)
}

// resolve fills defaults, parses the upload size and rejects scoring values
// outside their ranges.
func (c *Config) resolve() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	size, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)

	if c.Market.DefaultMedian < 0 {
		return fmt.Errorf("%w: market.defaultMedian must not be negative", ErrInvalidServerConfig)
	}
	for i, entry := range c.Market.Medians {
		if strings.TrimSpace(entry.City) == "" || entry.Median <= 0 {
			return fmt.Errorf("%w: market.medians[%d] needs a city and a positive median", ErrInvalidServerConfig, i)
		}
	}
	scores := []struct {
		name  string
		value float64
	}{
		{"scoring.commuteScore", c.Scoring.CommuteScore},
		{"scoring.proximityScore", c.Scoring.ProximityScore},
	}
	for _, score := range scores {
		if score.value < 0 || score.value > constants.MaxScore {
			return fmt.Errorf("%w: %s must be between 0 and 100", ErrInvalidServerConfig, score.name)
		}
	}
	return nil
}

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

// ParseSize converts a byte count with an optional K, M or G suffix into
// bytes. An empty value is the default upload size.
func ParseSize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	split := strings.IndexFunc(trimmed, func(r rune) bool { return !unicode.IsDigit(r) })
	if split == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	if split < 0 {
		split = len(trimmed)
	}

	multiplier, ok := sizeUnits[strings.TrimSpace(trimmed[split:])]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q", strings.TrimSpace(trimmed[split:]))
	}
	n, err := strconv.ParseInt(trimmed[:split], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}
	if n > 0 && n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
