package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		expected float64
	}{
		{
			name:     "Half rounds away from zero",
			value:    0.125,
			decimals: 2,
			expected: 0.13,
		},
		{
			name:     "Binary float edge case",
			value:    1.005,
			decimals: 2,
			expected: 1.01,
		},
		{
			name:     "Rounds down below half",
			value:    123.454,
			decimals: 2,
			expected: 123.45,
		},
		{
			name:     "Negative rounds away from zero",
			value:    -123.456,
			decimals: 2,
			expected: -123.46,
		},
		{
			name:     "Negative half rounds away from zero",
			value:    -0.125,
			decimals: 2,
			expected: -0.13,
		},
		{
			name:     "Zero decimals",
			value:    2.5,
			decimals: 0,
			expected: 3,
		},
		{
			name:     "Higher precision for rates",
			value:    0.00416667123,
			decimals: 6,
			expected: 0.004167,
		},
		{
			name:     "Already exact",
			value:    100.25,
			decimals: 2,
			expected: 100.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.value, tt.decimals)
			if result != tt.expected {
				t.Errorf("Round(%v, %d) = %v, expected %v", tt.value, tt.decimals, result, tt.expected)
			}
		})
	}
}

func TestRoundNonFinite(t *testing.T) {
	if !math.IsNaN(Round(math.NaN(), 2)) {
		t.Errorf("Round(NaN, 2) should be NaN")
	}
	if !math.IsInf(Round(math.Inf(1), 2), 1) {
		t.Errorf("Round(+Inf, 2) should be +Inf")
	}
}

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		step     float64
		expected float64
	}{
		{name: "Nearest 50 below midpoint", value: 1024, step: 50, expected: 1000},
		{name: "Nearest 50 at midpoint", value: 1025, step: 50, expected: 1050},
		{name: "Nearest 1000", value: 187400, step: 1000, expected: 187000},
		{name: "Zero step passes through", value: 123.45, step: 0, expected: 123.45},
		{name: "Fractional step", value: 0.37, step: 0.25, expected: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RoundToStep(tt.value, tt.step)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("RoundToStep(%v, %v) = %v, expected %v", tt.value, tt.step, result, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "Within range", x: 5, min: 0, max: 10, expected: 5},
		{name: "Below minimum", x: -3, min: 0, max: 10, expected: 0},
		{name: "Above maximum", x: 42, min: 0, max: 10, expected: 10},
		{name: "At boundary", x: 10, min: 0, max: 10, expected: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Clamp(tt.x, tt.min, tt.max); result != tt.expected {
				t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tt.x, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}
