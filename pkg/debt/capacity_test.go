package debt

import (
	"math"
	"testing"

	"github.com/mbeaufils/patrimoine/pkg/loan"
)

func TestCapacityBasicProfile(t *testing.T) {
	result, err := Capacity(Input{
		NetIncome:    4000,
		ExistingDebt: 400,
		Charges:      200,
		TargetRatio:  0.35,
		Loan:         loan.Terms{AnnualRate: 0.03, Years: 20},
	})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}

	if result.ConsideredIncome != 3800 {
		t.Errorf("ConsideredIncome = %v, expected 3800", result.ConsideredIncome)
	}
	// 400 / 3800
	if math.Abs(result.CurrentRatio-0.1053) > 1e-4 {
		t.Errorf("CurrentRatio = %v, expected 0.1053", result.CurrentRatio)
	}
	// 3800*0.35 - 400
	if result.MaxPayment != 930 {
		t.Errorf("MaxPayment = %v, expected 930", result.MaxPayment)
	}
	// Projected ratio lands on the target by construction.
	if math.Abs(result.ProjectedRatio-0.35) > 1e-4 {
		t.Errorf("ProjectedRatio = %v, expected 0.35", result.ProjectedRatio)
	}

	// 930/month at 3% over 240 months supports roughly 167.7k of principal.
	if result.AffordablePrincipal < 165000 || result.AffordablePrincipal > 170000 {
		t.Errorf("AffordablePrincipal = %v, expected around 167700", result.AffordablePrincipal)
	}
}

func TestCapacityZeroIncome(t *testing.T) {
	result, err := Capacity(Input{
		NetIncome:   0,
		Charges:     100,
		TargetRatio: 0.35,
		Loan:        loan.Terms{AnnualRate: 0.03, Years: 20},
	})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}

	if result.ConsideredIncome != -100 {
		t.Errorf("ConsideredIncome = %v, expected -100", result.ConsideredIncome)
	}
	if result.CurrentRatio != 0 {
		t.Errorf("CurrentRatio = %v, expected explicit 0 for non-positive income", result.CurrentRatio)
	}
	if result.ProjectedRatio != 0 {
		t.Errorf("ProjectedRatio = %v, expected explicit 0 for non-positive income", result.ProjectedRatio)
	}
	if result.AffordablePrincipal != 0 {
		t.Errorf("AffordablePrincipal = %v, expected 0", result.AffordablePrincipal)
	}
}

func TestCapacityRentalIncome(t *testing.T) {
	result, err := Capacity(Input{
		NetIncome:   3000,
		TargetRatio: 0.35,
		Loan:        loan.Terms{AnnualRate: 0.03, Years: 20},
		Rental:      &RentalIncome{PropertyPrice: 200000, RentalYield: 0.06},
	})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}

	// 200000 * 0.06 / 12
	if result.EstimatedMonthlyRent != 1000 {
		t.Errorf("EstimatedMonthlyRent = %v, expected 1000", result.EstimatedMonthlyRent)
	}
	// 3000 + 1000*0.70
	if result.ConsideredIncome != 3700 {
		t.Errorf("ConsideredIncome = %v, expected 3700 with default 70%% retention", result.ConsideredIncome)
	}

	full, err := Capacity(Input{
		NetIncome:     3000,
		TargetRatio:   0.35,
		Loan:          loan.Terms{AnnualRate: 0.03, Years: 20},
		Rental:        &RentalIncome{PropertyPrice: 200000, RentalYield: 0.06},
		RentRetention: 1.0,
	})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}
	if full.ConsideredIncome != 4000 {
		t.Errorf("ConsideredIncome = %v, expected 4000 with full retention", full.ConsideredIncome)
	}
}

func TestCapacityStressEntries(t *testing.T) {
	result, err := Capacity(Input{
		NetIncome:   4000,
		TargetRatio: 0.35,
		Loan:        loan.Terms{AnnualRate: 0.02, Years: 25},
	})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}

	if len(result.Stress) != 2 {
		t.Fatalf("stress entries = %d, expected 2", len(result.Stress))
	}
	if result.Stress[0].RateDelta != 0.01 || result.Stress[1].RateDelta != 0.02 {
		t.Errorf("stress deltas = %v/%v, expected 0.01/0.02 in increasing order",
			result.Stress[0].RateDelta, result.Stress[1].RateDelta)
	}
	for _, entry := range result.Stress {
		if entry.MaxPayment != result.MaxPayment {
			t.Errorf("stressed MaxPayment = %v, expected unchanged %v", entry.MaxPayment, result.MaxPayment)
		}
	}
	if !(result.Stress[0].AffordablePrincipal < result.AffordablePrincipal) {
		t.Errorf("+1%% stress principal %v should be below base %v",
			result.Stress[0].AffordablePrincipal, result.AffordablePrincipal)
	}
	if !(result.Stress[1].AffordablePrincipal < result.Stress[0].AffordablePrincipal) {
		t.Errorf("+2%% stress principal %v should be below +1%% %v",
			result.Stress[1].AffordablePrincipal, result.Stress[0].AffordablePrincipal)
	}
}

func TestCapacityInsuranceReducesPrincipal(t *testing.T) {
	base := Input{
		NetIncome:   4000,
		TargetRatio: 0.35,
		Loan:        loan.Terms{AnnualRate: 0.03, Years: 20},
	}
	withoutInsurance, err := Capacity(base)
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}

	insured := base
	insured.Loan.Insurance = &loan.InsurancePolicy{Mode: loan.InsuranceInitialPercentOfPrincipal, Rate: 0.0040}
	withInsurance, err := Capacity(insured)
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}

	if !(withInsurance.AffordablePrincipal < withoutInsurance.AffordablePrincipal) {
		t.Errorf("insured principal %v should be below uninsured %v",
			withInsurance.AffordablePrincipal, withoutInsurance.AffordablePrincipal)
	}

	// Insurance-aware sizing keeps the implied payment at the ceiling.
	totalPeriods := float64(insured.Loan.Years * 12)
	factor := loan.PeriodicPayment(1, insured.Loan.AnnualRate/12, int(totalPeriods))
	implied := withInsurance.AffordablePrincipal * (factor + insured.Loan.Insurance.Rate/totalPeriods)
	if math.Abs(implied-withInsurance.MaxPayment) > 0.05 {
		t.Errorf("implied payment %v diverges from ceiling %v", implied, withInsurance.MaxPayment)
	}
}

func TestCapacityDegenerateLoans(t *testing.T) {
	zeroYears, err := Capacity(Input{NetIncome: 4000, TargetRatio: 0.35, Loan: loan.Terms{AnnualRate: 0.03, Years: 0}})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}
	if zeroYears.AffordablePrincipal != 0 {
		t.Errorf("AffordablePrincipal = %v, expected 0 for zero-year loan", zeroYears.AffordablePrincipal)
	}

	zeroRate, err := Capacity(Input{NetIncome: 4000, TargetRatio: 0.35, Loan: loan.Terms{AnnualRate: 0, Years: 10}})
	if err != nil {
		t.Fatalf("Capacity() error = %v", err)
	}
	// At zero rate the principal is simply payment * periods.
	expected := zeroRate.MaxPayment * 120
	if math.Abs(zeroRate.AffordablePrincipal-expected) > 0.5 {
		t.Errorf("AffordablePrincipal = %v, expected %v at zero rate", zeroRate.AffordablePrincipal, expected)
	}
}

func TestCapacityInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input Input
	}{
		{name: "Negative income", input: Input{NetIncome: -1, TargetRatio: 0.35}},
		{name: "Negative target ratio", input: Input{NetIncome: 1000, TargetRatio: -0.1}},
		{name: "Negative loan years", input: Input{NetIncome: 1000, TargetRatio: 0.35, Loan: loan.Terms{Years: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Capacity(tt.input); err == nil {
				t.Errorf("Capacity() expected error, got nil")
			}
		})
	}
}
