package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
)

type historyCmd struct {
	configPath string
	limit      int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list recorded comparison runs" }
func (*historyCmd) Usage() string {
	return `feecompare history [-config <file>] [-n 10]
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "YAML config file")
	f.IntVar(&c.limit, "n", 10, "number of runs to show")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, log, err := loadConfig(c.configPath)
	if err != nil {
		return fail(err)
	}
	store, closeDB, err := openStore(cfg.DBPath, log)
	if err != nil {
		return fail(err)
	}
	defer closeDB()

	runs, err := store.RecentRuns(c.limit)
	if err != nil {
		return fail(err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(stdout, "no runs recorded")
		return subcommands.ExitSuccess
	}
	for _, r := range runs {
		fmt.Fprintf(stdout, "#%d %s  window %s..%s\n", r.ID,
			time.Unix(r.RanAt, 0).Format("2006-01-02 15:04"),
			time.Unix(r.Start, 0).Format("2006-01-02"),
			time.Unix(r.End, 0).Format("2006-01-02"))
		for _, rr := range r.Results {
			fmt.Fprintf(stdout, "  %-6s %-6s fee %.2f%%  annual %6.2f%%  growth x%.3f\n",
				rr.Group, rr.Symbol, rr.ExpenseRatio, rr.AnnualReturn, rr.FinalGrowth)
		}
	}
	return subcommands.ExitSuccess
}
