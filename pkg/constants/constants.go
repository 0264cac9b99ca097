// Package constants provides shared constants for the rent-intel application.
package constants

// DateLayout is the format expected for dates in config files and API payloads.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerYear is used to derive a daily rent from a monthly one
	DaysPerYear = 365

	// WeeksPerMonth converts "N weeks free" into a fraction of a month
	WeeksPerMonth = 4.33

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Market reference defaults
const (
	// DefaultMedianRent is the fallback median when a city is not in the reference table
	DefaultMedianRent = 1600.0
)

// Score bounds shared by every 0-100 score
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// Savings calculator deal score weights
const (
	DealScoreBase                = 50.0
	DealScoreSavingsCap          = 25.0
	DealScoreUpfrontCap          = 15.0
	DealScoreUpfrontDivisor      = 200.0
	DealScoreRecurringConcession = 10.0
)

// Concession parser fallback values for offers that name no amount
const (
	LookAndLeaseValue  = 500.0
	MoveInSpecialValue = 300.0
	WaivedFeeValue     = 250.0

	// UpfrontDiscountThreshold separates "$X off" one-time credits from monthly discounts
	UpfrontDiscountThreshold = 500.0
)

// Match score weights and thresholds
const (
	SubScoreWeight = 0.25

	CommuteWeight   = 0.40
	ProximityWeight = 0.30
	CostWeight      = 0.30

	DefaultCommuteScore   = 75.0
	DefaultProximityScore = 70.0
	DefaultLeverageScore  = 50.0
	NeutralCostScore      = 50.0
	AtBudgetCostScore     = 70.0
	OverBudgetCostSlope   = 2.0

	BudgetPoints      = 30.0
	AmenityPoints     = 35.0
	DealBreakerPoints = 35.0
	BedroomPenalty    = 15.0
	BudgetTolerance   = 1.05
	BudgetDecayEnd    = 1.30

	HighlightThreshold = 70.0
	MaxMissingListed   = 3
)

// Distance based proximity scoring
const (
	EarthRadiusKm   = 6371.0
	ProximityNearKm = 1.0
	ProximityFarKm  = 10.0
)

// Pricing recommender thresholds
const (
	AggressiveReductionPct = -10.0
	ModerateReductionPct   = -3.0
	IncreasePct            = 3.0

	LowLeaseProbability    = 0.30
	LowProbabilityNudgePct = -5.0
	DefaultConfidence      = 50.0
	ReferenceCutPct        = 5.0
	ReferenceSpeedup       = 0.40
	MaxSpeedup             = 0.60
	TimelineHorizonDays    = 56

	// Adjustments are bounded so stacked signals cannot produce an absurd price.
	MaxReductionPct = -25.0
	MaxIncreasePct  = 10.0
)

// Urgency thresholds in days on market
const (
	ImmediateDays = 30
	SoonDays      = 14
	ModerateDays  = 7
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. RENT_INTEL_OUTPUT_FORMAT
	EnvPrefix = "RENT_INTEL"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
