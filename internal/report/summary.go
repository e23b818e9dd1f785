package report

import (
	"fmt"
	"strings"

	"feeCompare/internal/compare"
)

// Summary is a compact plain-text rendition of c, one line per fund.
func Summary(c *compare.Comparison) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Window: %s to %s, %d periods per year\n",
		c.Start.Format("2006-01-02"), c.End.Format("2006-01-02"), c.PeriodsPerYear)
	for _, g := range c.Groups() {
		fmt.Fprintf(&sb, "%s (average expense ratio %s%%):\n", g.Label, g.AverageExpense.StringFixed(2))
		for _, f := range g.Funds {
			fmt.Fprintf(&sb, "  %s: expense %s%%, annual return %.2f%% after fees, growth x%.3f over %.1f years\n",
				f.Fund.Symbol, f.Fund.ExpenseRatio.StringFixed(2), f.AnnualReturn, f.FinalGrowth, f.ElapsedYears)
		}
	}
	return sb.String()
}
