package solver

import (
	"fmt"
	"math"

	"github.com/mbeaufils/patrimoine/pkg/constants"
)

// Bracket bounds for the periodic-rate search. The lower bound stays above
// -100% per period; the upper bound caps the geometric expansion.
const (
	initialLowerBound = -0.999
	initialUpperBound = 1.0
	lowerBoundFloor   = -0.9999
	upperBoundCeiling = 5.0
)

// annuityFV evaluates the future value of an initial capital plus a level
// periodic contribution after n periods at periodic rate r. The r->0 limit
// of the contribution term is handled analytically to avoid dividing by
// zero near r=0.
func annuityFV(initialCapital, contribution float64, periods int, rate float64) float64 {
	growth := math.Pow(1+rate, float64(periods))
	if rate == 0 {
		return initialCapital + contribution*float64(periods)
	}
	return initialCapital*growth + contribution*(growth-1)/rate
}

// SolveMonthlyRateForFV solves the periodic compound rate at which an
// initial capital plus a level monthly contribution reaches the target
// future value after the given number of months. The root is bracketed by
// geometric expansion and then isolated by bisection.
func SolveMonthlyRateForFV(finalCapital, initialCapital, monthlyContribution float64, months int, tolerance float64, maxIterations int) (float64, error) {
	if months <= 0 {
		return 0, fmt.Errorf("number of months must be positive, got %d", months)
	}
	if finalCapital < 0 || initialCapital < 0 || monthlyContribution < 0 {
		return 0, fmt.Errorf("capital amounts must be non-negative")
	}
	if initialCapital == 0 && monthlyContribution == 0 {
		return 0, fmt.Errorf("both principal and contribution are zero; no unique rate exists")
	}
	if tolerance <= 0 {
		tolerance = constants.RateSolverTolerance
	}
	if maxIterations <= 0 {
		maxIterations = constants.MaxBisectionIterations
	}

	f := func(rate float64) float64 {
		return annuityFV(initialCapital, monthlyContribution, months, rate) - finalCapital
	}

	// Zero-rate fast path: contributions alone reach the target exactly.
	if initialCapital+monthlyContribution*float64(months) == finalCapital {
		return 0, nil
	}

	lower, upper := initialLowerBound, initialUpperBound
	fLower, fUpper := f(lower), f(upper)
	for i := 0; fLower*fUpper > 0; i++ {
		if i >= constants.MaxBracketExpansions {
			return 0, fmt.Errorf("no bracketing interval found for target %.2f after %d expansions",
				finalCapital, constants.MaxBracketExpansions)
		}
		if math.Abs(fLower) > math.Abs(fUpper) {
			upper *= 2
			if upper > upperBoundCeiling {
				return 0, fmt.Errorf("no bracketing interval found: upper bound exceeded %.1f", upperBoundCeiling)
			}
			fUpper = f(upper)
		} else {
			lower *= 2
			if lower < lowerBoundFloor {
				lower = lowerBoundFloor
			}
			fLower = f(lower)
		}
	}

	for i := 0; i < maxIterations; i++ {
		mid := (lower + upper) / 2
		fMid := f(mid)
		if math.Abs(fMid) < tolerance || (upper-lower) < tolerance {
			return mid, nil
		}
		if fLower*fMid < 0 {
			upper = mid
		} else {
			lower = mid
			fLower = fMid
		}
	}
	return 0, fmt.Errorf("rate solver did not converge within %d iterations", maxIterations)
}

// MonthlyToAnnual converts a monthly compound rate to its annual
// equivalent.
func MonthlyToAnnual(monthlyRate float64) (float64, error) {
	if monthlyRate <= -1 {
		return 0, fmt.Errorf("monthly rate %.4f is at or below -100%%", monthlyRate)
	}
	return math.Pow(1+monthlyRate, constants.MonthsPerYear) - 1, nil
}

// AnnualToMonthly converts an annual compound rate to its monthly
// equivalent.
func AnnualToMonthly(annualRate float64) (float64, error) {
	if annualRate <= -1 {
		return 0, fmt.Errorf("annual rate %.4f is at or below -100%%", annualRate)
	}
	return math.Pow(1+annualRate, 1.0/constants.MonthsPerYear) - 1, nil
}

// AnnuityRates holds the solved periodic rate at both granularities.
type AnnuityRates struct {
	Monthly float64
	Annual  float64
}

// SolveAnnualRateFromAnnuityFV solves the implied monthly rate for a
// savings plan expressed in years and reports it alongside its annual
// equivalent.
func SolveAnnualRateFromAnnuityFV(finalCapital, initialCapital, monthlyContribution, years float64) (AnnuityRates, error) {
	if years < 1 || years != math.Trunc(years) {
		return AnnuityRates{}, fmt.Errorf("years must be a positive integer, got %v", years)
	}
	if initialCapital == 0 && monthlyContribution == 0 {
		if finalCapital == 0 {
			// No capital movement at all: the zero rate is trivially consistent.
			return AnnuityRates{}, nil
		}
		return AnnuityRates{}, fmt.Errorf("target capital %.2f is unreachable with zero principal and zero contribution", finalCapital)
	}

	months := int(years) * constants.MonthsPerYear
	monthly, err := SolveMonthlyRateForFV(finalCapital, initialCapital, monthlyContribution, months,
		constants.RateSolverTolerance, constants.MaxBisectionIterations)
	if err != nil {
		return AnnuityRates{}, err
	}
	annual, err := MonthlyToAnnual(monthly)
	if err != nil {
		return AnnuityRates{}, err
	}
	return AnnuityRates{Monthly: monthly, Annual: annual}, nil
}
