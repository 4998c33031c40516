// Package constants provides shared constants for the patrimoine application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// QuartersPerYear is the number of quarters in a year
	QuartersPerYear = 4

	// CurrencyDecimals is the decimal precision for currency-like values
	CurrencyDecimals = 2

	// RateDecimals is the decimal precision for internally chained rates
	RateDecimals = 6

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DefaultPaymentsPerYear is the default loan payment frequency
	DefaultPaymentsPerYear = 12

	// DefaultRentRetention is the share of estimated rent counted as income
	// when sizing debt capacity.
	DefaultRentRetention = 0.70
)

// Solver iteration caps; exceeding them is a defined failure, not a hang.
const (
	// MaxBisectionIterations bounds the bisection loop of the rate solver
	MaxBisectionIterations = 200

	// MaxBracketExpansions bounds the bracket search of the rate solver
	MaxBracketExpansions = 10

	// MaxIRRIterations bounds the Newton-Raphson IRR solver
	MaxIRRIterations = 1000

	// RateSolverTolerance is the default convergence tolerance for the
	// rate solver
	RateSolverTolerance = 1e-10

	// IRRTolerance is the NPV magnitude under which the IRR solver is
	// considered converged
	IRRTolerance = 1e-5

	// DefaultIRRGuess seeds the Newton-Raphson IRR iteration
	DefaultIRRGuess = 0.1
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default maximum JSON request body size (64 KB)
	DefaultMaxBodyBytes int64 = 64 * 1024
)
