// Package debt sizes the maximum affordable loan for a borrower profile.
package debt

import (
	"fmt"

	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/loan"
	"github.com/mbeaufils/patrimoine/pkg/mathutil"
)

// StressRateDeltas are the annual-rate increments applied by the stress
// test, in increasing order.
var StressRateDeltas = []float64{0.01, 0.02}

// RentalIncome describes a prospective rental purchase whose rent is
// partially counted as income.
type RentalIncome struct {
	PropertyPrice float64 `json:"propertyPrice"`
	RentalYield   float64 `json:"rentalYield"`
}

// Input holds the borrower profile and prospective loan terms.
type Input struct {
	NetIncome    float64       `json:"netIncome"`
	ExistingDebt float64       `json:"existingDebt"`
	Charges      float64       `json:"charges"`
	TargetRatio  float64       `json:"targetRatio"`
	Loan         loan.Terms    `json:"loan"`
	Rental       *RentalIncome `json:"rental,omitempty"`

	// RentRetention is the share of estimated rent counted as income.
	// Zero means the default of 70%.
	RentRetention float64 `json:"rentRetention,omitempty"`
}

// StressEntry is the capacity recomputed at a higher annual rate.
type StressEntry struct {
	RateDelta           float64 `json:"rateDelta"`
	MaxPayment          float64 `json:"maxPayment"`
	AffordablePrincipal float64 `json:"affordablePrincipal"`
}

// Result reports the borrower's capacity and rate-stress scenarios.
type Result struct {
	EstimatedMonthlyRent float64       `json:"estimatedMonthlyRent"`
	ConsideredIncome     float64       `json:"consideredIncome"`
	CurrentRatio         float64       `json:"currentRatio"`
	MaxPayment           float64       `json:"maxPayment"`
	AffordablePrincipal  float64       `json:"affordablePrincipal"`
	ProjectedRatio       float64       `json:"projectedRatio"`
	Stress               []StressEntry `json:"stress"`
}

// Capacity computes the maximum affordable monthly payment and principal
// for the given profile. Degenerate inputs (zero income, zero target
// ratio, zero loan years) yield zero results rather than errors.
func Capacity(input Input) (*Result, error) {
	if input.NetIncome < 0 || input.ExistingDebt < 0 || input.Charges < 0 {
		return nil, fmt.Errorf("income, existing debt and charges must be non-negative")
	}
	if input.TargetRatio < 0 {
		return nil, fmt.Errorf("target ratio must be non-negative, got %.4f", input.TargetRatio)
	}
	if input.Loan.AnnualRate < 0 || input.Loan.Years < 0 {
		return nil, fmt.Errorf("loan rate and years must be non-negative")
	}

	retention := input.RentRetention
	if retention == 0 {
		retention = constants.DefaultRentRetention
	}

	estimatedRent := 0.0
	if input.Rental != nil && input.Rental.PropertyPrice > 0 && input.Rental.RentalYield > 0 {
		estimatedRent = input.Rental.PropertyPrice * input.Rental.RentalYield / constants.MonthsPerYear
	}

	consideredIncome := input.NetIncome + estimatedRent*retention - input.Charges

	currentRatio := 0.0
	if consideredIncome > 0 {
		currentRatio = input.ExistingDebt / consideredIncome
	}

	maxPayment := consideredIncome*input.TargetRatio - input.ExistingDebt

	projectedRatio := 0.0
	if consideredIncome > 0 {
		projectedRatio = (input.ExistingDebt + maxPayment) / consideredIncome
	}

	result := &Result{
		EstimatedMonthlyRent: mathutil.RoundCurrency(estimatedRent),
		ConsideredIncome:     mathutil.RoundCurrency(consideredIncome),
		CurrentRatio:         mathutil.Round(currentRatio, 4),
		MaxPayment:           mathutil.RoundCurrency(maxPayment),
		AffordablePrincipal:  affordablePrincipal(maxPayment, input.Loan, input.Loan.AnnualRate),
		ProjectedRatio:       mathutil.Round(projectedRatio, 4),
		Stress:               make([]StressEntry, 0, len(StressRateDeltas)),
	}

	// Stress only moves the rate; the payment ceiling depends on income and
	// ratio alone.
	for _, delta := range StressRateDeltas {
		result.Stress = append(result.Stress, StressEntry{
			RateDelta:           delta,
			MaxPayment:          result.MaxPayment,
			AffordablePrincipal: affordablePrincipal(maxPayment, input.Loan, input.Loan.AnnualRate+delta),
		})
	}

	return result, nil
}

// affordablePrincipal inverts the payment formula for the principal. When
// the insurance premium is itself a function of the principal, the premium
// term joins the annuity factor and the system stays linear in the
// principal.
func affordablePrincipal(maxPayment float64, terms loan.Terms, annualRate float64) float64 {
	if maxPayment <= 0 || terms.Years <= 0 {
		return 0
	}

	paymentsPerYear := terms.PaymentsPerYear
	if paymentsPerYear <= 0 {
		paymentsPerYear = constants.DefaultPaymentsPerYear
	}
	totalPeriods := terms.Years * paymentsPerYear
	periodicRate := annualRate / float64(paymentsPerYear)

	factor := loan.PeriodicPayment(1, periodicRate, totalPeriods)
	if terms.Insurance != nil {
		switch terms.Insurance.Mode {
		case loan.InsuranceInitialPercentOfPrincipal:
			factor += terms.Insurance.Rate / float64(totalPeriods)
		case loan.InsurancePercentOfRemainingBalance:
			// Size against the first period, where the premium on the
			// balance is highest.
			factor += terms.Insurance.Rate
		}
	}
	if factor <= 0 {
		return 0
	}
	return mathutil.RoundCurrency(maxPayment / factor)
}
