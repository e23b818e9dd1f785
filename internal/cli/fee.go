package cli

import (
	"context"
	"flag"
	"fmt"
	"math"

	"github.com/google/subcommands"

	"feeCompare/internal/finance"
)

type feeCmd struct {
	ratio   float64
	periods int
}

func (*feeCmd) Name() string     { return "fee" }
func (*feeCmd) Synopsis() string { return "show the daily drag equivalent to an annual expense ratio" }
func (*feeCmd) Usage() string {
	return `feecompare fee -ratio <percent> [-periods 252]

  Prints the per-period fee that compounds to the annual expense ratio, and
  the growth factor a flat market leaves after one year of it.
`
}

func (c *feeCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.ratio, "ratio", 0, "annual expense ratio in percent, e.g. 0.54")
	f.IntVar(&c.periods, "periods", finance.DefaultPeriodsPerYear, "trading periods per year")
}

func (c *feeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fee, err := finance.DailyFee(c.ratio, c.periods)
	if err != nil {
		return fail(err)
	}
	growth := math.Pow(1-fee, float64(c.periods))
	fmt.Fprintf(stdout, "annual expense ratio: %.4f%%\n", c.ratio)
	fmt.Fprintf(stdout, "daily fee:            %.10f (%d periods/year)\n", fee, c.periods)
	fmt.Fprintf(stdout, "flat-market growth:   %.6f after one year\n", growth)
	return subcommands.ExitSuccess
}
