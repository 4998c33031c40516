// Package output provides utilities for formatting and displaying
// calculation results.
package output

import (
	"fmt"
	"io"

	"github.com/mbeaufils/patrimoine/pkg/loan"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyAmortization writes a human-readable amortization table.
func PrettyAmortization(w io.Writer, result *loan.Result) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "Period | Interest    | Principal   | Insurance  | Payment     | Balance\n")
	fmt.Fprintf(w, "______ | ________    | _________   | _________  | _______     | _______\n")
	for _, period := range result.Schedule {
		_, _ = p.Fprintf(w, "%6d | $%10.2f | $%10.2f | $%9.2f | $%10.2f | $%.2f\n",
			period.Index, period.Interest, period.Principal, period.Insurance, period.Payment, period.EndingBalance)
	}

	fmt.Fprintf(w, "\n")
	_, _ = p.Fprintf(w, "Total interest:  $%.2f\n", result.Totals.Interest)
	_, _ = p.Fprintf(w, "Total insurance: $%.2f\n", result.Totals.Insurance)
	_, _ = p.Fprintf(w, "Total cost:      $%.2f\n", result.Totals.Cost)
	_, _ = p.Fprintf(w, "Total payments:  $%.2f\n", result.Totals.Payments)
}

// PrettyAnnualAggregates writes the per-year rollup of a schedule.
func PrettyAnnualAggregates(w io.Writer, result *loan.Result) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "Year | Interest    | Principal   | Payment     | Balance\n")
	fmt.Fprintf(w, "____ | ________    | _________   | _______     | _______\n")
	for _, year := range result.Annual {
		_, _ = p.Fprintf(w, "%4d | $%10.2f | $%10.2f | $%10.2f | $%.2f\n",
			year.Year, year.Interest, year.Principal, year.Payment, year.EndingBalance)
	}
}
