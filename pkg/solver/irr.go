// Package solver provides iterative numerical solvers for rates of return.
package solver

import (
	"math"

	"github.com/mbeaufils/patrimoine/pkg/constants"
)

// IRR solves the internal rate of return of a cash-flow sequence using
// Newton-Raphson iteration. Index 0 of cashFlows is time 0 and is not
// discounted. Returns NaN if the iteration does not converge to
// |NPV| < IRRTolerance within the iteration budget; never returns an error.
func IRR(cashFlows []float64, guess float64) float64 {
	if len(cashFlows) == 0 {
		return math.NaN()
	}

	rate := guess
	for i := 0; i < constants.MaxIRRIterations; i++ {
		npv, derivative := npvWithDerivative(cashFlows, rate)
		if math.Abs(npv) < constants.IRRTolerance {
			return rate
		}
		if derivative == 0 || math.IsNaN(npv) || math.IsNaN(derivative) {
			return math.NaN()
		}
		rate -= npv / derivative
	}
	return math.NaN()
}

// npvWithDerivative evaluates the net present value of the cash flows at
// the given rate along with its derivative with respect to the rate.
func npvWithDerivative(cashFlows []float64, rate float64) (float64, float64) {
	npv := cashFlows[0]
	derivative := 0.0
	for t := 1; t < len(cashFlows); t++ {
		discount := math.Pow(1+rate, float64(t))
		npv += cashFlows[t] / discount
		derivative -= float64(t) * cashFlows[t] / (discount * (1 + rate))
	}
	return npv, derivative
}
