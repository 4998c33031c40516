// Package rental projects multi-year rental investment cash flows.
package rental

import (
	"fmt"
	"math"

	"github.com/mbeaufils/patrimoine/pkg/loan"
	"github.com/mbeaufils/patrimoine/pkg/mathutil"
	"go.uber.org/zap"
)

// TaxRegime selects how rental income is taxed each year.
type TaxRegime string

const (
	// TaxNone applies no tax.
	TaxNone TaxRegime = "none"

	// TaxMicroFoncier taxes 70% of gross rent (30% flat allowance).
	TaxMicroFoncier TaxRegime = "micro_foncier_30"

	// TaxMicroBIC taxes 50% of gross rent (50% flat allowance).
	TaxMicroBIC TaxRegime = "micro_bic_50"

	// TaxEffectiveRate taxes the operating result net of loan interest.
	TaxEffectiveRate TaxRegime = "effective_rate"
)

// Params describes a rental investment. All recurring amounts are annual.
type Params struct {
	Price            float64 `json:"price"`
	AcquisitionCosts float64 `json:"acquisitionCosts"`

	AnnualRent        float64 `json:"annualRent"`
	AnnualOpex        float64 `json:"annualOpex"`
	AnnualPropertyTax float64 `json:"annualPropertyTax"`
	MgmtFeesPct       float64 `json:"mgmtFeesPct"`
	AnnualCapex       float64 `json:"annualCapex"`

	Loan *loan.Terms `json:"loan,omitempty"`

	HorizonYears int `json:"horizonYears"`

	// SaleYear triggers the sale; zero means the last horizon year.
	SaleYear int `json:"saleYear,omitempty"`

	// SalePrice, when positive, fixes the sale price; otherwise the price
	// grows at PriceGrowthRate until the sale year.
	SalePrice       float64 `json:"salePrice,omitempty"`
	PriceGrowthRate float64 `json:"priceGrowthRate,omitempty"`
	SaleCostsPct    float64 `json:"saleCostsPct,omitempty"`

	Regime TaxRegime `json:"taxRegime"`
	TMI    float64   `json:"tmi"`
	PS     float64   `json:"ps"`
}

// YearRow is one calendar year of the projection.
type YearRow struct {
	Year              int     `json:"year"`
	RentGross         float64 `json:"rentGross"`
	RentNet           float64 `json:"rentNet"`
	OperatingExpenses float64 `json:"operatingExpenses"`
	NOI               float64 `json:"noi"`
	LoanInterest      float64 `json:"loanInterest"`
	LoanPrincipal     float64 `json:"loanPrincipal"`
	LoanInsurance     float64 `json:"loanInsurance"`
	Annuity           float64 `json:"annuity"`
	TaxableIncome     float64 `json:"taxableIncome"`
	Tax               float64 `json:"tax"`
	CashFlow          float64 `json:"cashFlow"`
	EndingBalance     float64 `json:"endingBalance"`
}

// Result is the full projection with sale and return aggregates.
type Result struct {
	Years []YearRow `json:"years"`

	AverageSavingEffort   float64 `json:"averageSavingEffort"`
	AveragePostLoanIncome float64 `json:"averagePostLoanIncome"`

	SalePrice        float64 `json:"salePrice"`
	NetSaleProceeds  float64 `json:"netSaleProceeds"`
	BalanceAtSale    float64 `json:"balanceAtSale"`
	CapitalRecovered float64 `json:"capitalRecovered"`

	CAGR float64 `json:"cagr"`
}

// Engine projects rental investments.
type Engine struct {
	logger *zap.Logger
	loans  *loan.Engine
}

// NewEngine creates a projection engine. If logger is nil a no-op logger
// is used.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, loans: loan.NewEngine(logger)}
}

func validateParams(params Params) error {
	if params.Price < 0 || params.AcquisitionCosts < 0 {
		return fmt.Errorf("price and acquisition costs must be non-negative")
	}
	if params.AnnualRent < 0 || params.AnnualOpex < 0 || params.AnnualPropertyTax < 0 || params.AnnualCapex < 0 {
		return fmt.Errorf("recurring amounts must be non-negative")
	}
	if params.HorizonYears < 0 {
		return fmt.Errorf("horizon must be non-negative, got %d", params.HorizonYears)
	}
	if params.MgmtFeesPct < 0 || params.MgmtFeesPct > 1 {
		return fmt.Errorf("management fees share must be within [0, 1], got %.4f", params.MgmtFeesPct)
	}
	if params.SaleCostsPct < 0 || params.SaleCostsPct > 1 {
		return fmt.Errorf("sale costs share must be within [0, 1], got %.4f", params.SaleCostsPct)
	}
	if params.TMI < 0 || params.PS < 0 {
		return fmt.Errorf("tax rates must be non-negative")
	}
	switch params.Regime {
	case TaxNone, TaxMicroFoncier, TaxMicroBIC, TaxEffectiveRate:
	default:
		return fmt.Errorf("unknown tax regime %q", params.Regime)
	}
	return nil
}

// Project produces the year-by-year cash-flow table, the sale proceeds and
// the compound annual growth rate of invested capital.
func (e *Engine) Project(params Params) (*Result, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	var schedule *loan.Result
	loanAmount := 0.0
	loanYears := 0
	if params.Loan != nil {
		var err error
		schedule, err = e.loans.Amortize(*params.Loan)
		if err != nil {
			return nil, fmt.Errorf("failed to amortize rental loan: %w", err)
		}
		loanAmount = params.Loan.Principal
		loanYears = params.Loan.Years
	}

	saleYear := params.SaleYear
	if saleYear <= 0 {
		saleYear = params.HorizonYears
	}

	e.logger.Debug("projecting rental investment",
		zap.String("op", "rental.Project"),
		zap.Float64("price", params.Price),
		zap.Int("horizonYears", params.HorizonYears),
		zap.Int("saleYear", saleYear),
	)

	result := &Result{Years: make([]YearRow, 0, params.HorizonYears)}
	taxRate := params.TMI + params.PS

	savingEffort := 0.0
	postLoanIncome := 0.0
	postLoanYears := 0
	totalEffort := 0.0

	for year := 1; year <= params.HorizonYears; year++ {
		rentGross := params.AnnualRent
		mgmtFees := rentGross * params.MgmtFeesPct
		rentNet := rentGross - mgmtFees
		operatingExpenses := params.AnnualOpex + params.AnnualPropertyTax + mgmtFees + params.AnnualCapex
		noi := rentGross - operatingExpenses

		row := YearRow{
			Year:              year,
			RentGross:         mathutil.RoundCurrency(rentGross),
			RentNet:           mathutil.RoundCurrency(rentNet),
			OperatingExpenses: mathutil.RoundCurrency(operatingExpenses),
			NOI:               mathutil.RoundCurrency(noi),
		}

		if schedule != nil {
			if aggregate, ok := schedule.AnnualRow(year); ok {
				row.LoanInterest = aggregate.Interest
				row.LoanPrincipal = aggregate.Principal
				row.LoanInsurance = aggregate.Insurance
				row.Annuity = aggregate.Payment
				row.EndingBalance = aggregate.EndingBalance
			}
		}

		var taxable float64
		switch params.Regime {
		case TaxNone:
			taxable = 0
		case TaxMicroFoncier:
			taxable = rentGross * 0.70
		case TaxMicroBIC:
			taxable = rentGross * 0.50
		case TaxEffectiveRate:
			taxable = math.Max(0, noi-row.LoanInterest)
		}
		row.TaxableIncome = mathutil.RoundCurrency(taxable)
		row.Tax = mathutil.RoundCurrency(taxable * taxRate)
		row.CashFlow = mathutil.RoundCurrency(noi - row.Annuity - row.Tax)

		result.Years = append(result.Years, row)

		if row.CashFlow < 0 {
			totalEffort += -row.CashFlow
		}
		if year <= loanYears {
			if row.CashFlow < 0 {
				savingEffort += -row.CashFlow
			}
		} else {
			postLoanIncome += row.CashFlow
			postLoanYears++
		}
	}

	if loanYears > 0 {
		coveredLoanYears := loanYears
		if params.HorizonYears < coveredLoanYears {
			coveredLoanYears = params.HorizonYears
		}
		if coveredLoanYears > 0 {
			result.AverageSavingEffort = mathutil.RoundCurrency(savingEffort / float64(coveredLoanYears))
		}
	}
	if postLoanYears > 0 {
		result.AveragePostLoanIncome = mathutil.RoundCurrency(postLoanIncome / float64(postLoanYears))
	}

	// Sale proceeds, when the sale year falls within the horizon.
	if saleYear >= 1 && saleYear <= params.HorizonYears {
		salePrice := params.SalePrice
		if salePrice <= 0 {
			salePrice = params.Price * math.Pow(1+params.PriceGrowthRate, float64(saleYear))
		}
		result.SalePrice = mathutil.RoundCurrency(salePrice)
		result.NetSaleProceeds = mathutil.RoundCurrency(salePrice * (1 - params.SaleCostsPct))
		result.BalanceAtSale = result.Years[saleYear-1].EndingBalance
		result.CapitalRecovered = mathutil.RoundCurrency(result.NetSaleProceeds - result.BalanceAtSale)
	}

	initialEquity := params.Price + params.AcquisitionCosts - loanAmount
	totalInvested := initialEquity + totalEffort
	result.CAGR = capitalGrowthRate(result.CapitalRecovered, totalInvested, params.HorizonYears)

	return result, nil
}

// capitalGrowthRate derives the compound annual growth rate of recovered
// capital over invested capital. The degenerate branches encode deliberate
// policy for total-loss, free-carry and no-activity cases.
func capitalGrowthRate(recovered, invested float64, horizonYears int) float64 {
	if horizonYears == 0 {
		return 0
	}
	if invested > 0 && recovered <= 0 {
		// Everything invested was lost.
		return -1
	}
	if invested == 0 {
		if recovered > 0 {
			// Positive recovery with no capital invested.
			return math.Inf(1)
		}
		if recovered < 0 {
			return -1
		}
		return 0
	}
	base := recovered / invested
	if base < 0 {
		return -1
	}
	return mathutil.Round(math.Pow(base, 1/float64(horizonYears))-1, 4)
}
