package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/mbeaufils/patrimoine/internal/cache"
	"github.com/mbeaufils/patrimoine/pkg/constants"
	"github.com/mbeaufils/patrimoine/pkg/debt"
	"github.com/mbeaufils/patrimoine/pkg/loan"
	"github.com/mbeaufils/patrimoine/pkg/payroll"
	"github.com/mbeaufils/patrimoine/pkg/rental"
	"github.com/mbeaufils/patrimoine/pkg/savings"
	"github.com/mbeaufils/patrimoine/pkg/solver"
	"github.com/mbeaufils/patrimoine/pkg/vat"
	"go.uber.org/zap"
)

func readAll(r *http.Request) ([]byte, error) {
	defer func() {
		_ = r.Body.Close()
	}()
	return io.ReadAll(r.Body)
}

// handleLoanSchedule computes a full amortization schedule. Schedules are
// the largest responses, so they go through the response cache.
func (h *handler) handleLoanSchedule(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var terms loan.Terms
	raw, err := h.decodeBody(w, r, &terms)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := cache.Key("loan-schedule", raw)
	if cached, ok := h.cache.Get(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(cached))
		return
	}

	result, err := h.loans.Amortize(terms)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondCached(w, r, key, result)
}

func (h *handler) handleDebtCapacity(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var input debt.Input
	if _, err := h.decodeBody(w, r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := debt.Capacity(input)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, result)
}

func (h *handler) handleSavingsProjection(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var input savings.Input
	if _, err := h.decodeBody(w, r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := savings.Project(input)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, result)
}

func (h *handler) handleRentalProjection(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var params rental.Params
	if _, err := h.decodeBody(w, r, &params); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.rentals.Project(params)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// JSON has no +Inf; the free-carry CAGR goes out as a string marker.
	response := struct {
		*rental.Result
		CAGR interface{} `json:"cagr"`
	}{Result: result, CAGR: result.CAGR}
	if math.IsInf(result.CAGR, 1) {
		response.CAGR = "Infinity"
	}
	h.respondJSON(w, response)
}

type rateSolveRequest struct {
	FinalCapital        float64 `json:"finalCapital"`
	InitialCapital      float64 `json:"initialCapital"`
	MonthlyContribution float64 `json:"monthlyContribution"`
	Years               float64 `json:"years"`
}

type rateSolveResponse struct {
	MonthlyRate float64 `json:"monthlyRate"`
	AnnualRate  float64 `json:"annualRate"`
}

func (h *handler) handleRateSolve(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var request rateSolveRequest
	if _, err := h.decodeBody(w, r, &request); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	rates, err := solver.SolveAnnualRateFromAnnuityFV(
		request.FinalCapital, request.InitialCapital, request.MonthlyContribution, request.Years)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, rateSolveResponse{MonthlyRate: rates.Monthly, AnnualRate: rates.Annual})
}

type irrRequest struct {
	CashFlows []float64 `json:"cashFlows"`
	Guess     float64   `json:"guess,omitempty"`
}

// handleIRR solves the internal rate of return of a cash-flow sequence.
// Divergence is not an error here; it comes back as a null rate.
func (h *handler) handleIRR(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var request irrRequest
	if _, err := h.decodeBody(w, r, &request); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	guess := request.Guess
	if guess == 0 {
		guess = constants.DefaultIRRGuess
	}

	rate := solver.IRR(request.CashFlows, guess)
	response := struct {
		IRR *float64 `json:"irr"`
	}{}
	if !math.IsNaN(rate) {
		response.IRR = &rate
	}
	h.respondJSON(w, response)
}

func (h *handler) handlePayrollNet(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var input payroll.Input
	if _, err := h.decodeBody(w, r, &input); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := payroll.ComputeNetPay(input)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, result)
}

type vatRequest struct {
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`

	// Direction is either "from_excluding" or "from_including".
	Direction string `json:"direction"`
}

func (h *handler) handleVAT(w http.ResponseWriter, r *http.Request) {
	if !h.requirePost(w, r) {
		return
	}

	var request vatRequest
	if _, err := h.decodeBody(w, r, &request); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var result *vat.Result
	var err error
	switch request.Direction {
	case "from_excluding":
		result, err = vat.FromExcludingTax(request.Amount, request.Rate)
	case "from_including":
		result, err = vat.FromIncludingTax(request.Amount, request.Rate)
	default:
		h.respondError(w, http.StatusBadRequest, "direction must be from_excluding or from_including")
		return
	}
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.respondJSON(w, result)
}

// respondCached serializes the payload once, stores it under key and
// writes it out.
func (h *handler) respondCached(w http.ResponseWriter, r *http.Request, key string, payload interface{}) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response",
			zap.String("op", "server.respondCached"),
			zap.Error(err),
		)
		h.respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	h.cache.Set(r.Context(), key, string(encoded))

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(encoded)
}
