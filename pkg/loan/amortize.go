// Package loan provides loan amortization schedule generation.
package loan

import (
	"fmt"
	"math"

	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/mathutil"
	"go.uber.org/zap"
)

// InsuranceMode selects how the per-period insurance premium is computed.
type InsuranceMode string

const (
	// InsuranceInitialPercentOfPrincipal charges a constant premium based
	// on the initial principal, spread over all periods.
	InsuranceInitialPercentOfPrincipal InsuranceMode = "initial_percent_of_principal"

	// InsurancePercentOfRemainingBalance charges a declining premium based
	// on the balance before each payment.
	InsurancePercentOfRemainingBalance InsuranceMode = "percent_of_remaining_balance"
)

// InsurancePolicy describes an optional borrower insurance attached to a loan.
type InsurancePolicy struct {
	Mode InsuranceMode `json:"mode"`
	Rate float64       `json:"rate"`
}

// Terms holds the parameters of a loan.
type Terms struct {
	Principal       float64          `json:"principal"`
	AnnualRate      float64          `json:"annualRate"`
	Years           int              `json:"years"`
	PaymentsPerYear int              `json:"paymentsPerYear,omitempty"`
	Insurance       *InsurancePolicy `json:"insurance,omitempty"`
}

// Period is one row of an amortization schedule.
type Period struct {
	Index         int     `json:"index"`
	Interest      float64 `json:"interest"`
	Principal     float64 `json:"principal"`
	Insurance     float64 `json:"insurance"`
	Payment       float64 `json:"payment"`
	EndingBalance float64 `json:"endingBalance"`
}

// AnnualAggregate sums the periods of one calendar year of the schedule.
type AnnualAggregate struct {
	Year          int     `json:"year"`
	Interest      float64 `json:"interest"`
	Principal     float64 `json:"principal"`
	Insurance     float64 `json:"insurance"`
	Payment       float64 `json:"payment"`
	EndingBalance float64 `json:"endingBalance"`
}

// Totals aggregates the whole schedule. Cost is interest plus insurance.
type Totals struct {
	Interest  float64 `json:"interest"`
	Insurance float64 `json:"insurance"`
	Cost      float64 `json:"cost"`
	Payments  float64 `json:"payments"`
}

// Result is a complete amortization schedule with aggregates.
type Result struct {
	Schedule []Period          `json:"schedule"`
	Totals   Totals            `json:"totals"`
	Annual   []AnnualAggregate `json:"annualAggregate"`
}

// PeriodicPayment computes the fixed payment for a loan using the standard
// annuity formula, or a straight principal division at zero rate.
func PeriodicPayment(principal, periodicRate float64, totalPeriods int) float64 {
	if totalPeriods <= 0 {
		return 0
	}
	if periodicRate == 0 {
		return principal / float64(totalPeriods)
	}
	return principal * periodicRate / (1 - math.Pow(1+periodicRate, -float64(totalPeriods)))
}

// Engine generates amortization schedules.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a schedule engine. If logger is nil a no-op logger is
// used.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

func validateTerms(terms Terms) error {
	if terms.Principal < 0 {
		return fmt.Errorf("principal must be non-negative, got %.2f", terms.Principal)
	}
	if terms.AnnualRate < 0 {
		return fmt.Errorf("annual rate must be non-negative, got %.4f", terms.AnnualRate)
	}
	if terms.Years < 0 {
		return fmt.Errorf("years must be non-negative, got %d", terms.Years)
	}
	if terms.Insurance != nil {
		if terms.Insurance.Rate < 0 {
			return fmt.Errorf("insurance rate must be non-negative, got %.4f", terms.Insurance.Rate)
		}
		switch terms.Insurance.Mode {
		case InsuranceInitialPercentOfPrincipal, InsurancePercentOfRemainingBalance:
		default:
			return fmt.Errorf("unknown insurance mode %q", terms.Insurance.Mode)
		}
	}
	return nil
}

// Amortize produces the full per-period schedule and annual aggregates for
// the given terms. Every monetary field is rounded to two decimals at the
// point of computation, and totals sum the already-rounded periods; this
// matches real loan statements, which round each payment line.
func (e *Engine) Amortize(terms Terms) (*Result, error) {
	if err := validateTerms(terms); err != nil {
		return nil, err
	}

	paymentsPerYear := terms.PaymentsPerYear
	if paymentsPerYear <= 0 {
		paymentsPerYear = constants.DefaultPaymentsPerYear
	}
	totalPeriods := terms.Years * paymentsPerYear

	result := &Result{Schedule: make([]Period, 0, totalPeriods)}
	if totalPeriods == 0 {
		return result, nil
	}

	periodicRate := terms.AnnualRate / float64(paymentsPerYear)
	payment := PeriodicPayment(terms.Principal, periodicRate, totalPeriods)

	e.logger.Debug("generating amortization schedule",
		zap.String("op", "loan.Amortize"),
		zap.Float64("principal", terms.Principal),
		zap.Float64("periodicRate", periodicRate),
		zap.Int("totalPeriods", totalPeriods),
	)

	balance := terms.Principal
	annual := make(map[int]*AnnualAggregate)

	for index := 1; index <= totalPeriods; index++ {
		interest := mathutil.RoundCurrency(balance * periodicRate)

		var insurance float64
		if terms.Insurance != nil {
			switch terms.Insurance.Mode {
			case InsuranceInitialPercentOfPrincipal:
				insurance = mathutil.RoundCurrency(terms.Principal * terms.Insurance.Rate / float64(totalPeriods))
			case InsurancePercentOfRemainingBalance:
				insurance = mathutil.RoundCurrency(balance * terms.Insurance.Rate)
			}
		}

		var principalPortion float64
		if index == totalPeriods {
			// Force the last period to clear the balance exactly so the
			// schedule terminates at zero instead of accumulated float drift.
			principalPortion = mathutil.RoundCurrency(balance)
		} else {
			principalPortion = mathutil.RoundCurrency(payment - interest)
		}

		balance = mathutil.RoundCurrency(balance - principalPortion)
		if index == totalPeriods {
			balance = 0
		}
		totalPayment := mathutil.RoundCurrency(interest + principalPortion + insurance)

		result.Schedule = append(result.Schedule, Period{
			Index:         index,
			Interest:      interest,
			Principal:     principalPortion,
			Insurance:     insurance,
			Payment:       totalPayment,
			EndingBalance: balance,
		})

		year := (index + paymentsPerYear - 1) / paymentsPerYear
		agg, ok := annual[year]
		if !ok {
			agg = &AnnualAggregate{Year: year}
			annual[year] = agg
			result.Annual = append(result.Annual, AnnualAggregate{})
		}
		agg.Interest = mathutil.RoundCurrency(agg.Interest + interest)
		agg.Principal = mathutil.RoundCurrency(agg.Principal + principalPortion)
		agg.Insurance = mathutil.RoundCurrency(agg.Insurance + insurance)
		agg.Payment = mathutil.RoundCurrency(agg.Payment + totalPayment)
		agg.EndingBalance = balance

		result.Totals.Interest = mathutil.RoundCurrency(result.Totals.Interest + interest)
		result.Totals.Insurance = mathutil.RoundCurrency(result.Totals.Insurance + insurance)
		result.Totals.Payments = mathutil.RoundCurrency(result.Totals.Payments + totalPayment)
	}

	result.Totals.Cost = mathutil.RoundCurrency(result.Totals.Interest + result.Totals.Insurance)

	for year := 1; year <= len(result.Annual); year++ {
		result.Annual[year-1] = *annual[year]
	}

	return result, nil
}

// AnnualRow returns the aggregate for the given 1-based year if the
// schedule covers it.
func (r *Result) AnnualRow(year int) (AnnualAggregate, bool) {
	if year < 1 || year > len(r.Annual) {
		return AnnualAggregate{}, false
	}
	return r.Annual[year-1], true
}
