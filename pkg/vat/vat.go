// Package vat converts prices between tax-exclusive and tax-inclusive form.
package vat

import (
	"fmt"

	"github.com/mbeaufils/patrimoine/pkg/mathutil"
)

// Result reports a price in both forms alongside the tax amount.
type Result struct {
	Rate         float64 `json:"rate"`
	ExcludingTax float64 `json:"excludingTax"`
	Tax          float64 `json:"tax"`
	IncludingTax float64 `json:"includingTax"`
}

func validate(amount, rate float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %.2f", amount)
	}
	if rate < 0 {
		return fmt.Errorf("VAT rate must be non-negative, got %.4f", rate)
	}
	return nil
}

// FromExcludingTax computes the tax-inclusive price of a tax-exclusive
// amount at the given VAT rate.
func FromExcludingTax(amount, rate float64) (*Result, error) {
	if err := validate(amount, rate); err != nil {
		return nil, err
	}
	tax := mathutil.RoundCurrency(amount * rate)
	return &Result{
		Rate:         rate,
		ExcludingTax: mathutil.RoundCurrency(amount),
		Tax:          tax,
		IncludingTax: mathutil.RoundCurrency(amount + tax),
	}, nil
}

// FromIncludingTax computes the tax-exclusive price of a tax-inclusive
// amount at the given VAT rate.
func FromIncludingTax(amount, rate float64) (*Result, error) {
	if err := validate(amount, rate); err != nil {
		return nil, err
	}
	excluding := mathutil.RoundCurrency(amount / (1 + rate))
	return &Result{
		Rate:         rate,
		ExcludingTax: excluding,
		Tax:          mathutil.RoundCurrency(amount - excluding),
		IncludingTax: mathutil.RoundCurrency(amount),
	}, nil
}
