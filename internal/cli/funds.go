package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type fundsCmd struct {
	configPath string
}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list the compared funds and their expense ratios" }
func (*fundsCmd) Usage() string {
	return `feecompare funds [-config <file>]
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "YAML config file (defaults to built-in funds)")
}

func (c *fundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, _, err := loadConfig(c.configPath)
	if err != nil {
		return fail(err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		return fail(err)
	}
	for _, g := range reg.Groups() {
		fmt.Fprintf(stdout, "%s:\n", g.Label)
		for _, fund := range g.Funds {
			fmt.Fprintf(stdout, "  %-6s %s%%\n", fund.Symbol, fund.ExpenseRatio.StringFixed(2))
		}
		fmt.Fprintf(stdout, "  average %s%%\n", g.AverageExpense().StringFixed(2))
	}
	return subcommands.ExitSuccess
}
