// Package savings projects the growth of recurring savings plans.
package savings

import (
	"fmt"
	"math"

	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/mathutil"
)

// Periodicity is the contribution frequency of a savings plan.
type Periodicity string

const (
	Monthly   Periodicity = "monthly"
	Quarterly Periodicity = "quarterly"
	Yearly    Periodicity = "yearly"
)

// PeriodsPerYear returns the number of contribution periods in a year.
func (p Periodicity) PeriodsPerYear() (int, error) {
	switch p {
	case Monthly:
		return constants.MonthsPerYear, nil
	case Quarterly:
		return constants.QuartersPerYear, nil
	case Yearly:
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown periodicity %q", p)
	}
}

// Input describes a savings plan.
type Input struct {
	InitialDeposit    float64     `json:"initialDeposit"`
	Contribution      float64     `json:"contribution"`
	Periodicity       Periodicity `json:"periodicity"`
	Years             int         `json:"years"`
	GrossAnnualReturn float64     `json:"grossAnnualReturn"`
	EntryFeeRate      float64     `json:"entryFeeRate,omitempty"`
}

// SeriesPoint is the plan state after period t. Point zero is the initial
// state before any growth.
type SeriesPoint struct {
	Period        int     `json:"period"`
	Value         float64 `json:"value"`
	Contributions float64 `json:"contributions"`
}

// Result is the projected series with final aggregates.
type Result struct {
	Series             []SeriesPoint `json:"series"`
	FinalCapital       float64       `json:"finalCapital"`
	TotalContributions float64       `json:"totalContributions"`
	GrossGains         float64       `json:"grossGains"`
}

// Project compounds the initial deposit plus periodic contributions over
// the horizon. The per-period rate is the geometric de-annualization of
// the gross annual return. Contributions are counted gross while the
// capital only receives the amount net of the entry fee, so fee drag shows
// up in gains rather than in contributions.
func Project(input Input) (*Result, error) {
	periodsPerYear, err := input.Periodicity.PeriodsPerYear()
	if err != nil {
		return nil, err
	}
	if input.Years < 0 {
		return nil, fmt.Errorf("years must be non-negative, got %d", input.Years)
	}
	if input.InitialDeposit < 0 || input.Contribution < 0 {
		return nil, fmt.Errorf("deposit and contribution must be non-negative")
	}
	if input.GrossAnnualReturn <= -1 {
		return nil, fmt.Errorf("annual return %.4f is at or below -100%%", input.GrossAnnualReturn)
	}
	if input.EntryFeeRate < 0 || input.EntryFeeRate > 1 {
		return nil, fmt.Errorf("entry fee rate must be within [0, 1], got %.4f", input.EntryFeeRate)
	}

	periodicRate := math.Pow(1+input.GrossAnnualReturn, 1/float64(periodsPerYear)) - 1
	totalPeriods := input.Years * periodsPerYear

	capital := input.InitialDeposit
	contributions := input.InitialDeposit

	series := make([]SeriesPoint, 0, totalPeriods+1)
	series = append(series, SeriesPoint{
		Period:        0,
		Value:         mathutil.RoundCurrency(capital),
		Contributions: mathutil.RoundCurrency(contributions),
	})

	for period := 1; period <= totalPeriods; period++ {
		capital *= 1 + periodicRate
		if input.Contribution > 0 {
			capital += input.Contribution * (1 - input.EntryFeeRate)
			contributions += input.Contribution
		}
		series = append(series, SeriesPoint{
			Period:        period,
			Value:         mathutil.RoundCurrency(capital),
			Contributions: mathutil.RoundCurrency(contributions),
		})
	}

	finalCapital := mathutil.RoundCurrency(capital)
	totalContributions := mathutil.RoundCurrency(contributions)
	return &Result{
		Series:             series,
		FinalCapital:       finalCapital,
		TotalContributions: totalContributions,
		GrossGains:         mathutil.RoundCurrency(finalCapital - totalContributions),
	}, nil
}
