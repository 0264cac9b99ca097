// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/iwvelando/rent-intel/internal/market"
	"github.com/iwvelando/rent-intel/internal/model"
	"github.com/iwvelando/rent-intel/pkg/configprocessor"
	"github.com/iwvelando/rent-intel/pkg/constants"
	"github.com/iwvelando/rent-intel/pkg/datetime"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrInvalidDate is returned when a date in the configuration cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Configuration holds all configuration for rent-intel.
type Configuration struct {
	Logging   LoggingConfig           `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig            `yaml:"output,omitempty" mapstructure:"output"`
	AsOf      time.Time               `yaml:"asOf,omitempty" mapstructure:"asOf"`
	Market    MarketConfig            `yaml:"market,omitempty" mapstructure:"market"`
	Scoring   ScoringConfig           `yaml:"scoring,omitempty" mapstructure:"scoring"`
	Renter    RenterConfig            `yaml:"renter,omitempty" mapstructure:"renter"`
	Listings  []model.Listing         `yaml:"listings,omitempty" mapstructure:"listings"`
	Portfolio []model.UnitMarketState `yaml:"portfolio,omitempty" mapstructure:"portfolio"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, json
}

// MarketConfig extends or overrides the built-in city medians.
type MarketConfig struct {
	DefaultMedian float64        `yaml:"defaultMedian,omitempty" mapstructure:"defaultMedian"`
	Medians       []market.Entry `yaml:"medians,omitempty" mapstructure:"medians"`
}

// ScoringConfig tunes the location signals used by the match engine.
type ScoringConfig struct {
	CommuteScore   float64 `yaml:"commuteScore,omitempty" mapstructure:"commuteScore"`
	ProximityScore float64 `yaml:"proximityScore,omitempty" mapstructure:"proximityScore"`
	UseDistance    bool    `yaml:"useDistance,omitempty" mapstructure:"useDistance"`
}

// RenterConfig describes the renter listings are matched against.
type RenterConfig struct {
	Budget        float64                   `yaml:"budget,omitempty" mapstructure:"budget"`
	LeverageScore *float64                  `yaml:"leverageScore,omitempty" mapstructure:"leverageScore"`
	Preferences   *model.PreferenceProfile  `yaml:"preferences,omitempty" mapstructure:"preferences"`
	POIs          []model.PointOfInterest   `yaml:"pois,omitempty" mapstructure:"pois"`
	Commute       *model.CommutePreferences `yaml:"commute,omitempty" mapstructure:"commute"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("market.defaultMedian", constants.DefaultMedianRent)
	v.SetDefault("scoring.commuteScore", constants.DefaultCommuteScore)
	v.SetDefault("scoring.proximityScore", constants.DefaultProximityScore)
	v.SetDefault("scoring.useDistance", false)
	v.SetDefault("asOf", "")
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		stringToDateHook(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&configuration, hook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

var timeType = reflect.TypeOf(time.Time{})

// stringToDateHook parses dates in any layout datetime.ParseDate accepts.
func stringToDateHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != timeType {
			return data, nil
		}
		t, err := datetime.ParseDate(data.(string))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return t, nil
	}
}

// MarketTable returns the curated median table extended with the configured
// medians and default.
func (c *Configuration) MarketTable() *market.Table {
	return market.DefaultTable().WithEntries(c.Market.Medians, c.Market.DefaultMedian)
}

// MarketContext returns the per-call market data supplied for the renter.
func (c *Configuration) MarketContext() *model.MarketContext {
	if c.Renter.LeverageScore == nil {
		return nil
	}
	return &model.MarketContext{LeverageScore: c.Renter.LeverageScore}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	table := c.MarketTable()

	listings := make([]configprocessor.ListingInfo, 0, len(c.Listings))
	for _, listing := range c.Listings {
		_, hasRent := listing.ListedRent()
		listings = append(listings, configprocessor.ListingInfo{
			ID:      listing.ID,
			City:    listing.City,
			HasRent: hasRent,
		})
	}

	units := make([]configprocessor.UnitInfo, 0, len(c.Portfolio))
	for _, unit := range c.Portfolio {
		units = append(units, configprocessor.UnitInfo{
			ID:               unit.UnitID,
			HasRent:          unit.BaseRent() > 0,
			LeaseProbability: unit.LeaseProbability,
		})
	}

	processor := configprocessor.NewProcessor(table.Known)
	return processor.ValidateConfiguration(listings, units)
}
