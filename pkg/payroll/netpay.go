// Package payroll converts gross pay figures into net pay figures.
package payroll

import (
	"fmt"

	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/mathutil"
)

// InputPeriod indicates whether the gross figure is monthly or annual.
type InputPeriod string

const (
	PeriodMonthly InputPeriod = "monthly"
	PeriodAnnual  InputPeriod = "annual"
)

// Input holds the gross pay figure and the applicable rates.
type Input struct {
	GrossValue      float64     `json:"grossValue"`
	InputPeriod     InputPeriod `json:"inputPeriod"`
	PaidMonths      int         `json:"paidMonths"`
	ChargesRate     float64     `json:"chargesRate"`
	WithholdingRate float64     `json:"withholdingRate"`
}

// Result reports the derived annual and per-pay net figures.
type Result struct {
	AnnualGross        float64 `json:"annualGross"`
	NetBeforeTaxAnnual float64 `json:"netBeforeTaxAnnual"`
	NetAfterTaxAnnual  float64 `json:"netAfterTaxAnnual"`
	NetPerPay          float64 `json:"netPerPay"`
}

// ComputeNetPay derives net-before-tax and net-after-withholding figures
// from a gross pay amount. NetPerPay always divides the annual figure by
// the number of paid months, reflecting the thirteenth/fourteenth-month
// pay-spreading convention even for annual input.
func ComputeNetPay(input Input) (*Result, error) {
	if input.GrossValue < 0 {
		return nil, fmt.Errorf("gross value must be non-negative, got %.2f", input.GrossValue)
	}
	if input.PaidMonths < constants.MonthsPerYear || input.PaidMonths > 15 {
		return nil, fmt.Errorf("paid months must be within [12, 15], got %d", input.PaidMonths)
	}
	if input.ChargesRate < 0 || input.ChargesRate > 1 {
		return nil, fmt.Errorf("charges rate must be within [0, 1], got %.4f", input.ChargesRate)
	}
	if input.WithholdingRate < 0 || input.WithholdingRate > 1 {
		return nil, fmt.Errorf("withholding rate must be within [0, 1], got %.4f", input.WithholdingRate)
	}

	var annualGross float64
	switch input.InputPeriod {
	case PeriodMonthly:
		annualGross = input.GrossValue * float64(input.PaidMonths)
	case PeriodAnnual:
		annualGross = input.GrossValue
	default:
		return nil, fmt.Errorf("unknown input period %q", input.InputPeriod)
	}

	netBeforeTax := annualGross * (1 - input.ChargesRate)
	netAfterTax := netBeforeTax * (1 - input.WithholdingRate)
	netPerPay := annualGross / float64(input.PaidMonths) * (1 - input.ChargesRate) * (1 - input.WithholdingRate)

	return &Result{
		AnnualGross:        mathutil.RoundCurrency(annualGross),
		NetBeforeTaxAnnual: mathutil.RoundCurrency(netBeforeTax),
		NetAfterTaxAnnual:  mathutil.RoundCurrency(netAfterTax),
		NetPerPay:          mathutil.RoundCurrency(netPerPay),
	}, nil
}
