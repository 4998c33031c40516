package vat

import "testing"

func TestFromExcludingTax(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		rate      float64
		tax       float64
		including float64
	}{
		{name: "Standard rate", amount: 100, rate: 0.20, tax: 20, including: 120},
		{name: "Reduced rate", amount: 250, rate: 0.055, tax: 13.75, including: 263.75},
		{name: "Zero rate", amount: 99.99, rate: 0, tax: 0, including: 99.99},
		{name: "Rounded tax", amount: 33.33, rate: 0.20, tax: 6.67, including: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FromExcludingTax(tt.amount, tt.rate)
			if err != nil {
				t.Fatalf("FromExcludingTax() error = %v", err)
			}
			if result.Tax != tt.tax {
				t.Errorf("Tax = %v, expected %v", result.Tax, tt.tax)
			}
			if result.IncludingTax != tt.including {
				t.Errorf("IncludingTax = %v, expected %v", result.IncludingTax, tt.including)
			}
		})
	}
}

func TestFromIncludingTax(t *testing.T) {
	result, err := FromIncludingTax(120, 0.20)
	if err != nil {
		t.Fatalf("FromIncludingTax() error = %v", err)
	}
	if result.ExcludingTax != 100 {
		t.Errorf("ExcludingTax = %v, expected 100", result.ExcludingTax)
	}
	if result.Tax != 20 {
		t.Errorf("Tax = %v, expected 20", result.Tax)
	}

	// Tax is the difference of the rounded figures so the split always sums
	// back to the inclusive amount.
	result, err = FromIncludingTax(10, 0.055)
	if err != nil {
		t.Fatalf("FromIncludingTax() error = %v", err)
	}
	if result.ExcludingTax+result.Tax != result.IncludingTax {
		t.Errorf("split %v + %v does not recompose %v", result.ExcludingTax, result.Tax, result.IncludingTax)
	}
}

func TestVATInvalidInput(t *testing.T) {
	if _, err := FromExcludingTax(-1, 0.20); err == nil {
		t.Errorf("FromExcludingTax() expected error for negative amount")
	}
	if _, err := FromIncludingTax(100, -0.20); err == nil {
		t.Errorf("FromIncludingTax() expected error for negative rate")
	}
}
